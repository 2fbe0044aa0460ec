// Package sensor adapts light meters to the beacon's digital input.
//
// The reference beacon gates on a photodiode wired to a pull-down input: the
// pin reads low while the sensor is covered. LuxInput gives an I2C light meter
// the same shape, reading "low" whenever illuminance falls below a threshold.
package sensor

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/bh1750"
)

// DefaultThreshold is 10 lux, in millilux
const DefaultThreshold int32 = 10_000

// busProbe records the last I2C error, which the bh1750 driver discards
type busProbe struct {
	bus drivers.I2C
	err error
}

func (p *busProbe) Tx(addr uint16, w, r []byte) error {
	err := p.bus.Tx(addr, w, r)
	if err != nil && p.err == nil {
		p.err = err
	}
	return err
}

// LuxInput implements core.DigitalInput over a BH1750
type LuxInput struct {
	probe     *busProbe
	dev       bh1750.Device
	threshold int32
}

// NewLuxInput configures a BH1750 on bus. The bus must already be configured.
// threshold is in millilux; readings below it count as low.
func NewLuxInput(bus drivers.I2C, threshold int32) *LuxInput {
	probe := &busProbe{bus: bus}
	in := &LuxInput{
		probe:     probe,
		dev:       bh1750.New(probe),
		threshold: threshold,
	}
	in.dev.Configure()
	return in
}

// IsLow reports whether the current reading is below the threshold.
// Bus errors during the read are returned so the gate can fail open.
func (in *LuxInput) IsLow() (bool, error) {
	mlx, err := in.Illuminance()
	if err != nil {
		return false, err
	}
	return mlx < in.threshold, nil
}

// Illuminance takes one reading in millilux
func (in *LuxInput) Illuminance() (int32, error) {
	in.probe.err = nil
	mlx := in.dev.Illuminance()
	if in.probe.err != nil {
		return 0, in.probe.err
	}
	return mlx, nil
}

// Threshold returns the dark/light boundary in millilux
func (in *LuxInput) Threshold() int32 {
	return in.threshold
}
