package core

// Polarity selects which logic level of the sensor input means "active"
type Polarity uint8

const (
	// ActiveLow: the reference wiring, a pull-down input that reads low
	// while the guarded condition holds
	ActiveLow Polarity = iota
	// ActiveHigh: active while the input reads high
	ActiveHigh
)

func (p Polarity) String() string {
	switch p {
	case ActiveLow:
		return "active-low"
	case ActiveHigh:
		return "active-high"
	default:
		return "unknown"
	}
}

// Gate answers whether signal emission is currently suppressed
type Gate interface {
	IsActive() bool
}

// SensorGate wraps a digital input. Every query reads the pin again.
type SensorGate struct {
	in       DigitalInput
	polarity Polarity
}

// NewSensorGate creates a gate over in with the given polarity
func NewSensorGate(in DigitalInput, polarity Polarity) *SensorGate {
	return &SensorGate{in: in, polarity: polarity}
}

// IsActive reads the input. A read error reports inactive.
func (g *SensorGate) IsActive() bool {
	low, err := g.in.IsLow()
	if err != nil {
		return false
	}
	if g.polarity == ActiveHigh {
		return !low
	}
	return low
}
