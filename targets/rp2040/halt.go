//go:build (rp2040 || rp2350) && !halt_reset

package main

import "time"

// haltHandler parks with the signal pin low
func haltHandler() {
	signalPin.Low()
	for {
		time.Sleep(time.Second)
	}
}
