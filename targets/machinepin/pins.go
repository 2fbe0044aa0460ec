//go:build tinygo

// Package machinepin adapts TinyGo machine pins to the beacon capabilities.
package machinepin

import (
	"errors"
	"machine"

	"sosbeacon/core"
)

var ErrTaken = errors.New("board already taken")

// Output drives a push-pull pin. machine.Pin writes cannot fail.
type Output struct {
	pin machine.Pin
}

// NewOutput configures pin as an output, starting low
func NewOutput(pin machine.Pin) *Output {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &Output{pin: pin}
}

func (o *Output) SetHigh() error {
	o.pin.High()
	return nil
}

func (o *Output) SetLow() error {
	o.pin.Low()
	return nil
}

// Input reads a GPIO pin
type Input struct {
	pin machine.Pin
}

// NewInput configures pin with mode, usually machine.PinInputPulldown
func NewInput(pin machine.Pin, mode machine.PinMode) *Input {
	pin.Configure(machine.PinConfig{Mode: mode})
	return &Input{pin: pin}
}

func (i *Input) IsLow() (bool, error) {
	return !i.pin.Get(), nil
}

// Board hands out its peripherals once. Setup runs inside the first Take.
type Board struct {
	Setup func() (core.DigitalOutput, core.DigitalInput, error)
	taken bool
}

func (b *Board) Take() (core.Peripherals, error) {
	if b.taken {
		return core.Peripherals{}, ErrTaken
	}
	b.taken = true

	out, in, err := b.Setup()
	if err != nil {
		return core.Peripherals{}, err
	}
	return core.Peripherals{
		Delay:  core.SleepDelay{},
		Output: out,
		Input:  in,
	}, nil
}
