// Package config loads beacon settings for hosted targets.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"sosbeacon/core"
)

var (
	ErrInvalidPolarity = errors.New("polarity must be active-low or active-high")
	ErrInvalidPull     = errors.New("pull must be none, up or down")
	ErrMissingChip     = errors.New("gpio chip not set")
	ErrUnknownKey      = errors.New("unknown config key")
)

// LineConfig names one GPIO line on a character device
type LineConfig struct {
	Chip   string `toml:"chip"`
	Offset int    `toml:"offset"`
}

// SensorConfig is the gate input line and its bias
type SensorConfig struct {
	LineConfig
	// Pull bias: "none", "up" or "down"
	Pull string `toml:"pull"`
}

// BeaconConfig is the root of a beacon TOML file
type BeaconConfig struct {
	DitMs    uint16       `toml:"dit_ms"`
	Polarity string       `toml:"polarity"`
	Debug    bool         `toml:"debug"`
	Output   LineConfig   `toml:"output"`
	Sensor   SensorConfig `toml:"sensor"`
}

// Load parses TOML data, fills defaults and validates the result
func Load(data []byte) (*BeaconConfig, error) {
	var cfg BeaconConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, undecoded[0])
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads and parses a TOML file
func LoadFile(path string) (*BeaconConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Load(data)
}

// applyDefaults fills missing values with the reference board's wiring
func applyDefaults(cfg *BeaconConfig) {
	if cfg.DitMs == 0 {
		cfg.DitMs = uint16(core.Dit)
	}
	if cfg.Polarity == "" {
		cfg.Polarity = core.ActiveLow.String()
	}
	if cfg.Output.Chip == "" {
		cfg.Output.Chip = "gpiochip0"
	}
	if cfg.Sensor.Chip == "" {
		cfg.Sensor.Chip = cfg.Output.Chip
	}
	if cfg.Sensor.Pull == "" {
		cfg.Sensor.Pull = "down"
	}
}

// Default returns the configuration used when no file is given
func Default() *BeaconConfig {
	cfg := &BeaconConfig{
		Output: LineConfig{Offset: 17},
		Sensor: SensorConfig{LineConfig: LineConfig{Offset: 27}},
	}
	applyDefaults(cfg)
	return cfg
}

// Validate checks values that defaults cannot repair
func (c *BeaconConfig) Validate() error {
	if _, err := c.Timing(); err != nil {
		return err
	}
	if _, err := c.GatePolarity(); err != nil {
		return err
	}
	for _, line := range []LineConfig{c.Output, c.Sensor.LineConfig} {
		if line.Chip == "" {
			return ErrMissingChip
		}
		if line.Offset < 0 {
			return fmt.Errorf("line offset %d: must not be negative", line.Offset)
		}
	}
	switch c.Sensor.Pull {
	case "none", "up", "down":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPull, c.Sensor.Pull)
	}
	if c.Output.Chip == c.Sensor.Chip && c.Output.Offset == c.Sensor.Offset {
		return fmt.Errorf("output and sensor share %s:%d", c.Output.Chip, c.Output.Offset)
	}
	return nil
}

// Timing derives the pulse units from DitMs
func (c *BeaconConfig) Timing() (core.Timing, error) {
	return core.NewTiming(core.Millis(c.DitMs))
}

// GatePolarity parses the polarity name
func (c *BeaconConfig) GatePolarity() (core.Polarity, error) {
	switch c.Polarity {
	case core.ActiveLow.String():
		return core.ActiveLow, nil
	case core.ActiveHigh.String():
		return core.ActiveHigh, nil
	}
	return core.ActiveLow, fmt.Errorf("%w: %q", ErrInvalidPolarity, c.Polarity)
}
