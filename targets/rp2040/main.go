//go:build rp2040 || rp2350

// Firmware for the Raspberry Pi Pico and Pico 2: SOS on GP15, gated by a
// BH1750 light meter on I2C0. Telemetry frames go out over USB CDC.
package main

import (
	"machine"

	"sosbeacon/core"
	"sosbeacon/sensor"
	"sosbeacon/targets/machinepin"
)

const signalPin = machine.GP15

func main() {
	// Clear any watchdog state left over from a halt reset
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	core.SetHaltHandler(haltHandler)

	board := &machinepin.Board{
		Setup: func() (core.DigitalOutput, core.DigitalInput, error) {
			out := machinepin.NewOutput(signalPin)
			bus, err := ConfigureLightBus()
			if err != nil {
				return nil, nil, err
			}
			return out, sensor.NewLuxInput(bus, sensor.DefaultThreshold), nil
		},
	}

	driver := core.Boot(board, core.ActiveLow, core.DefaultTiming())
	core.DebugAsync("[SOS] pico beacon running")
	driver.RunForever()
}
