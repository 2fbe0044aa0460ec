//go:build (rp2040 || rp2350) && halt_reset

package main

import (
	"machine"
	"time"
)

// haltHandler resets through the watchdog, which also re-enumerates USB
func haltHandler() {
	signalPin.Low()

	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1})
	if err != nil {
		return
	}
	err = machine.Watchdog.Start()
	if err != nil {
		return
	}
	// Reset lands within ~1ms
	for {
		time.Sleep(time.Millisecond)
	}
}
