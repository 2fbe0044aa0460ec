package core

import "time"

// DigitalOutput is the push-pull pin the beacon drives.
// Platform-specific implementations handle actual hardware control.
type DigitalOutput interface {
	// SetHigh drives the pin high
	SetHigh() error

	// SetLow drives the pin low
	SetLow() error
}

// DigitalInput is the sensor pin the gate reads
type DigitalInput interface {
	// IsLow reports whether the pin currently reads logic low
	IsLow() (bool, error)
}

// Delayer blocks the calling goroutine for a fixed number of milliseconds.
// A delay that has started always runs to completion.
type Delayer interface {
	DelayMs(ms uint16)
}

// Peripherals is the capability set a Board hands to the core
type Peripherals struct {
	Delay  Delayer
	Output DigitalOutput
	Input  DigitalInput
}

// Board takes ownership of the hardware. Take is called exactly once at boot.
type Board interface {
	Take() (Peripherals, error)
}

// SleepDelay implements Delayer with time.Sleep.
// On TinyGo this parks the core until the RTC/timer fires.
type SleepDelay struct{}

func (SleepDelay) DelayMs(ms uint16) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
