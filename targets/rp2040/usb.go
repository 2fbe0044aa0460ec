//go:build rp2040 || rp2350

package main

import (
	"machine"

	"sosbeacon/core"
)

// InitUSB routes telemetry and debug text to USB CDC.
// On RP2040/RP2350 machine.Serial is USB CDC, so the baud rate is ignored.
func InitUSB() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}

	core.SetTelemetryWriter(USBWriteBytes)
	core.SetDebugWriter(core.TelemetryDebugWriter())
	core.InitAsyncDebug()
}

// USBWriteBytes writes a whole frame; with no host attached the bytes are lost
func USBWriteBytes(data []byte) {
	machine.Serial.Write(data)
}
