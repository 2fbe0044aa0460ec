package core

import (
	"sync"

	"sosbeacon/protocol"
)

// TelemetryWriter receives encoded frames, typically a UART or USB CDC write
type TelemetryWriter func([]byte)

var (
	// telemetryMu serialises the driver and the async debug worker
	telemetryMu      sync.Mutex
	telemetryWriter  TelemetryWriter
	telemetryEncoder = protocol.NewFrameEncoder()
	telemetryOutput  = protocol.NewScratchOutput()
)

// SetTelemetryWriter enables framed event output; nil disables it
func SetTelemetryWriter(w TelemetryWriter) {
	telemetryMu.Lock()
	telemetryWriter = w
	telemetryMu.Unlock()
}

// TelemetryDebugWriter returns a DebugWriter that ships text as debug
// frames, so text and events can share one serial line
func TelemetryDebugWriter() DebugWriter {
	return func(s string) {
		sendFrame(func(output protocol.OutputBuffer) {
			protocol.EncodeDebugText(output, s)
		})
	}
}

func sendEventFrame(evt Event) {
	sendFrame(func(output protocol.OutputBuffer) {
		protocol.EncodeBeaconEvent(output, protocol.BeaconEvent{
			Kind:  evt.Kind,
			Cycle: evt.Cycle,
			Unit:  evt.Unit,
			Clock: evt.Clock,
		})
	})
}

func sendFrame(body func(output protocol.OutputBuffer)) {
	telemetryMu.Lock()
	defer telemetryMu.Unlock()

	if telemetryWriter == nil {
		return
	}
	telemetryOutput.Reset()
	telemetryEncoder.EncodeFrame(telemetryOutput, body)
	telemetryWriter(telemetryOutput.Result())
}
