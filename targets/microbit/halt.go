//go:build nrf52833 && !halt_reset

package main

import "device/arm"

// haltHandler parks the CPU with the signal pin low
func haltHandler() {
	signalPin.Low()
	for {
		arm.Asm("wfi")
	}
}
