// Package serial opens the port a beacon streams telemetry on.
package serial

import (
	"io"
)

// Port is a serial connection. Implementations:
// - native serial (github.com/tarm/serial)
// - mock ports in tests
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate; USB CDC ignores it, the micro:bit interface UART needs it
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud matches the micro:bit telemetry UART
const DefaultBaud = 115200

// DefaultConfig returns a configuration for a beacon on device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100, // lets readers notice cancellation
	}
}
