//go:build rp2040 || rp2350

package main

import "machine"

// lightBusHz is the BH1750's fast-mode limit
const lightBusHz = 400_000

// ConfigureLightBus brings up I2C0 on its default pins (SDA=GP4, SCL=GP5)
func ConfigureLightBus() (*machine.I2C, error) {
	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		Frequency: lightBusHz,
		SDA:       machine.GP4,
		SCL:       machine.GP5,
	})
	if err != nil {
		return nil, err
	}
	return i2c, nil
}
