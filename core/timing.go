package core

import "errors"

// Millis is a duration in milliseconds, sized to match Delayer.DelayMs
type Millis uint16

// Morse timing for the reference beacon
const (
	Dit              Millis = 195
	Dah                     = 3 * Dit
	IntraSymbolSpace        = Dit
	WordSpace               = 7 * Dit
)

// maxDit keeps WordSpace inside a uint16 delay argument
const maxDit = 0xFFFF / 7

var ErrInvalidDit = errors.New("dit must be between 1 and 9362 ms")

// Timing holds the unit durations derived from a single DIT
type Timing struct {
	Dit              Millis
	Dah              Millis
	IntraSymbolSpace Millis
	WordSpace        Millis
}

// NewTiming derives all units from dit
func NewTiming(dit Millis) (Timing, error) {
	if dit == 0 || dit > maxDit {
		return Timing{}, ErrInvalidDit
	}
	return Timing{
		Dit:              dit,
		Dah:              3 * dit,
		IntraSymbolSpace: dit,
		WordSpace:        7 * dit,
	}, nil
}

// DefaultTiming returns the 195 ms reference timing
func DefaultTiming() Timing {
	return Timing{
		Dit:              Dit,
		Dah:              Dah,
		IntraSymbolSpace: IntraSymbolSpace,
		WordSpace:        WordSpace,
	}
}

// sosRepeats is the number of units per letter: S = ···, O = –––
const sosRepeats = 3

// PulsePlan is the fixed SOS sequence: three symbols, each held high
// sosRepeats times. The zero value is empty; build one with SOSPlan.
type PulsePlan struct {
	symbols [3]Millis
}

// SOSPlan returns the plan [dit, dah, dit] for the given timing
func SOSPlan(t Timing) PulsePlan {
	return PulsePlan{symbols: [3]Millis{t.Dit, t.Dah, t.Dit}}
}

// Len returns the number of units in the plan (9 for SOS)
func (p PulsePlan) Len() int {
	return len(p.symbols) * sosRepeats
}

// At returns the high duration of unit i
func (p PulsePlan) At(i int) Millis {
	return p.symbols[i/sosRepeats]
}

// Symbols returns a copy of the per-letter durations
func (p PulsePlan) Symbols() []Millis {
	out := make([]Millis, len(p.symbols))
	copy(out, p.symbols[:])
	return out
}

// Repeats returns how many times each symbol is emitted
func (p PulsePlan) Repeats() int {
	return sosRepeats
}

// HighTime returns the total time the output is held high for a full plan
func (p PulsePlan) HighTime() uint32 {
	var total uint32
	for i := 0; i < p.Len(); i++ {
		total += uint32(p.At(i))
	}
	return total
}

// CycleTime returns the duration of an uninterrupted cycle, including
// the gaps between units and the trailing word space
func (p PulsePlan) CycleTime(t Timing) uint32 {
	gaps := uint32(p.Len()-1) * uint32(t.IntraSymbolSpace)
	return p.HighTime() + gaps + uint32(t.WordSpace)
}
