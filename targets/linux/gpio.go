//go:build linux && !tinygo

package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"sosbeacon/config"
	"sosbeacon/core"
)

var (
	ErrTaken    = errors.New("board already taken")
	ErrReleased = errors.New("output released")
)

// line is the subset of *gpiocdev.Line the beacon uses
type line interface {
	SetValue(value int) error
	Value() (int, error)
	Reconfigure(options ...gpiocdev.LineConfigOption) error
	Close() error
}

// lineRequester opens a line; gpiocdev.RequestLine in production
type lineRequester func(chip string, offset int, options ...gpiocdev.LineReqOption) (line, error)

func requestCdevLine(chip string, offset int, options ...gpiocdev.LineReqOption) (line, error) {
	l, err := gpiocdev.RequestLine(chip, offset, options...)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// lineOutput drives the signal line until released
type lineOutput struct {
	mu       sync.Mutex
	line     line
	released bool
}

func (o *lineOutput) SetHigh() error {
	return o.set(1)
}

func (o *lineOutput) SetLow() error {
	return o.set(0)
}

func (o *lineOutput) set(v int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.released {
		return ErrReleased
	}
	return o.line.SetValue(v)
}

// Release drives the line low, returns it to an input and closes it.
// Later writes fail with ErrReleased.
func (o *lineOutput) Release() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.released {
		return
	}
	o.released = true
	_ = o.line.SetValue(0)
	_ = o.line.Reconfigure(gpiocdev.AsInput)
	_ = o.line.Close()
}

// lineInput reads the sensor line
type lineInput struct {
	line line
}

func (i *lineInput) IsLow() (bool, error) {
	v, err := i.line.Value()
	if err != nil {
		return false, err
	}
	return v == 0, nil
}

// cdevBoard requests the configured lines on Take
type cdevBoard struct {
	cfg     *config.BeaconConfig
	request lineRequester

	taken  bool
	output *lineOutput
	input  line
}

func newCdevBoard(cfg *config.BeaconConfig) *cdevBoard {
	return &cdevBoard{cfg: cfg, request: requestCdevLine}
}

func (b *cdevBoard) Take() (core.Peripherals, error) {
	if b.taken {
		return core.Peripherals{}, ErrTaken
	}
	b.taken = true

	out, err := b.request(b.cfg.Output.Chip, b.cfg.Output.Offset, gpiocdev.AsOutput(0))
	if err != nil {
		return core.Peripherals{}, fmt.Errorf("request output %s:%d: %w",
			b.cfg.Output.Chip, b.cfg.Output.Offset, err)
	}

	in, err := b.request(b.cfg.Sensor.Chip, b.cfg.Sensor.Offset, gpiocdev.AsInput, biasOption(b.cfg.Sensor.Pull))
	if err != nil {
		_ = out.Close()
		return core.Peripherals{}, fmt.Errorf("request sensor %s:%d: %w",
			b.cfg.Sensor.Chip, b.cfg.Sensor.Offset, err)
	}

	b.output = &lineOutput{line: out}
	b.input = in
	return core.Peripherals{
		Delay:  core.SleepDelay{},
		Output: b.output,
		Input:  &lineInput{line: in},
	}, nil
}

// Release hands both lines back to the kernel with the output low
func (b *cdevBoard) Release() {
	if b.output != nil {
		b.output.Release()
	}
	if b.input != nil {
		_ = b.input.Close()
		b.input = nil
	}
}

func biasOption(pull string) gpiocdev.LineReqOption {
	switch pull {
	case "up":
		return gpiocdev.WithPullUp
	case "down":
		return gpiocdev.WithPullDown
	}
	return gpiocdev.WithBiasDisabled
}
