//go:build nrf52833 && halt_reset

package main

import "device/arm"

// haltHandler drops the signal pin and resets the MCU
func haltHandler() {
	signalPin.Low()
	arm.SystemReset()
}
