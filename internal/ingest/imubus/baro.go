// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imubus

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

// Baro wraps a bmxx80 device for altitude readings.
type Baro struct {
	dev *bmxx80.Dev
}

// NewBaro opens a BMP/BME device at addr on bus with the library
// defaults.
func NewBaro(bus i2c.Bus, addr uint16) (*Baro, error) {
	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("baro: init: %w", err)
	}
	return &Baro{dev: dev}, nil
}

// pressureRefPa is sea-level standard pressure, used to turn a raw
// pressure reading into a relative altitude via the barometric
// formula. The absolute value is unimportant here: the filter only
// ever consumes baro_alt relative to a constant baro_bias state.
const pressureRefPa = 101325.0

// ReadAltitudeM returns an altitude in meters derived from the
// sensed pressure via the standard barometric formula.
func (b *Baro) ReadAltitudeM() (float64, error) {
	var env physic.Env
	if err := b.dev.Sense(&env); err != nil {
		return 0, fmt.Errorf("baro: sense: %w", err)
	}
	pressurePa := float64(env.Pressure) / float64(physic.Pascal)
	return 44330 * (1 - math.Pow(pressurePa/pressureRefPa, 1/5.255)), nil
}
