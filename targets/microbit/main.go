//go:build nrf52833

// Firmware for the BBC micro:bit v2: SOS on P0_02 (edge pin 0), gated by a
// photodiode on P0_03 (edge pin 1) that pulls the input low when covered.
package main

import (
	"machine"

	"sosbeacon/core"
	"sosbeacon/targets/machinepin"
)

const (
	signalPin = machine.P0_02
	sensorPin = machine.P0_03

	telemetryBaud = 115200
)

func main() {
	InitTelemetry()

	core.SetHaltHandler(haltHandler)

	board := &machinepin.Board{
		Setup: func() (core.DigitalOutput, core.DigitalInput, error) {
			out := machinepin.NewOutput(signalPin)
			in := machinepin.NewInput(sensorPin, machine.PinInputPulldown)
			return out, in, nil
		},
	}

	driver := core.Boot(board, core.ActiveLow, core.DefaultTiming())
	core.DebugAsync("[SOS] micro:bit beacon running")
	driver.RunForever()
}

// InitTelemetry sends event frames and debug text over the interface-chip UART
func InitTelemetry() {
	err := machine.Serial.Configure(machine.UARTConfig{BaudRate: telemetryBaud})
	if err != nil {
		return
	}

	core.SetTelemetryWriter(func(b []byte) {
		machine.Serial.Write(b)
	})
	core.SetDebugWriter(core.TelemetryDebugWriter())
	core.InitAsyncDebug()
}
