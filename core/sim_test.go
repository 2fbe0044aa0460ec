package core

import (
	"errors"
	"runtime"
)

var errPin = errors.New("pin fault")

// transition is a change of output level at a simulated time
type transition struct {
	At   uint32
	High bool
}

// simBoard implements every capability against a virtual millisecond clock.
// The gate oracle sees the clock and the 1-based index of the query.
type simBoard struct {
	now    uint32
	level  bool
	trace  []transition
	writes int
	delays []uint16

	queries int
	gate    func(now uint32, query int) bool
	readErr error

	highErr error
	lowErr  error
	// lowFailures > 0 fails that many SetLow calls before lowErr applies
	lowFailures int
	lowCalls    int

	// maxDelays > 0 ends the calling goroutine after that many delays
	maxDelays int
}

func newSimBoard() *simBoard {
	return &simBoard{}
}

func (s *simBoard) Take() (Peripherals, error) {
	return Peripherals{Delay: s, Output: s, Input: s}, nil
}

func (s *simBoard) SetHigh() error {
	if s.highErr != nil {
		return s.highErr
	}
	s.set(true)
	return nil
}

func (s *simBoard) SetLow() error {
	s.lowCalls++
	if s.lowCalls <= s.lowFailures {
		return errPin
	}
	if s.lowErr != nil {
		return s.lowErr
	}
	s.set(false)
	return nil
}

func (s *simBoard) set(high bool) {
	s.writes++
	if high != s.level {
		s.level = high
		s.trace = append(s.trace, transition{At: s.now, High: high})
	}
}

// IsLow reports low while the oracle says the guarded condition holds,
// matching the reference active-low wiring
func (s *simBoard) IsLow() (bool, error) {
	s.queries++
	if s.readErr != nil {
		return false, s.readErr
	}
	if s.gate == nil {
		return false, nil
	}
	return s.gate(s.now, s.queries), nil
}

func (s *simBoard) DelayMs(ms uint16) {
	s.delays = append(s.delays, ms)
	s.now += uint32(ms)
	if s.maxDelays > 0 && len(s.delays) >= s.maxDelays {
		runtime.Goexit()
	}
}

// driver wires a SignalDriver over the board with the reference settings
func (s *simBoard) driver() *SignalDriver {
	return NewSignalDriver(s, s, NewSensorGate(s, ActiveLow), DefaultTiming())
}

// phases splits a trace into high and low durations between transitions
func phases(trace []transition) (highs, lows []uint32) {
	for i := 0; i+1 < len(trace); i++ {
		d := trace[i+1].At - trace[i].At
		if trace[i].High {
			highs = append(highs, d)
		} else {
			lows = append(lows, d)
		}
	}
	return highs, lows
}

func activeAtQuery(n int) func(uint32, int) bool {
	return func(_ uint32, q int) bool { return q == n }
}

func activeFrom(t uint32) func(uint32, int) bool {
	return func(now uint32, _ int) bool { return now >= t }
}

var canonicalHighs = []uint32{195, 195, 195, 585, 585, 585, 195, 195, 195}
