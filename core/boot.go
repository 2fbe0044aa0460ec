package core

import "time"

// haltHandler is the platform termination policy, chosen at build time
var haltHandler func()

// SetHaltHandler sets the platform-specific halt handler.
// The handler should not return; if it does, Halt parks the goroutine.
func SetHaltHandler(handler func()) {
	haltHandler = handler
}

// Halt records the reason, runs the halt handler and never returns
func Halt(reason string) {
	RecordEvent(Event{Kind: EvtHalt})
	if debugPrintln != nil {
		debugPrintln("[SOS] halt: " + reason)
	}
	DumpEventRing()

	if haltHandler != nil {
		haltHandler()
	}
	for {
		time.Sleep(time.Second)
	}
}

// Boot takes the board, drives the output low and wires the gate and
// signal driver. If the board cannot be taken Boot halts.
func Boot(b Board, polarity Polarity, timing Timing) *SignalDriver {
	p, err := b.Take()
	if err != nil {
		Halt("board take failed: " + err.Error())
	}

	_ = p.Output.SetLow()

	gate := NewSensorGate(p.Input, polarity)
	return NewSignalDriver(p.Output, p.Delay, gate, timing)
}
