// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imubus

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/aerolume/iekf-nav/internal/config"
	"github.com/aerolume/iekf-nav/internal/messages"
)

// Bus opens the shared I2C bus and both sensors, and produces one
// messages.IMUSample per tick. Baro and mag are sampled on the same
// schedule as gyro/accel, so *RelUs are always zero -- a bus running
// them on separate schedules would set those fields non-zero.
type Bus struct {
	imu  *MPU9250
	baro *Baro

	lastMag    [3]float64
	haveMag    bool
	lastTick   time.Time
	haveTick   bool
	sampleSeq  uint64
}

// Open initializes periph, opens the configured I2C bus, and brings
// up both sensors.
func Open(cfg *config.Config) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("imubus: periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.IMUI2CDevice)
	if err != nil {
		return nil, fmt.Errorf("imubus: open %s: %w", cfg.IMUI2CDevice, err)
	}

	imu, err := NewMPU9250(bus, cfg.IMUI2CAddr, 0 /*±2g*/, 3 /*±2000dps*/, 3 /*41Hz DLPF*/)
	if err != nil {
		return nil, fmt.Errorf("imubus: mpu9250 init: %w", err)
	}

	var baroBus i2c.Bus = bus
	baroAddr := cfg.BaroI2CAddr
	if cfg.BaroI2CDevice != "" && cfg.BaroI2CDevice != cfg.IMUI2CDevice {
		b2, err := i2creg.Open(cfg.BaroI2CDevice)
		if err != nil {
			return nil, fmt.Errorf("imubus: open baro bus %s: %w", cfg.BaroI2CDevice, err)
		}
		baroBus = b2
	}
	baro, err := NewBaro(baroBus, baroAddr)
	if err != nil {
		return nil, fmt.Errorf("imubus: baro init: %w", err)
	}

	return &Bus{imu: imu, baro: baro}, nil
}

// Sample reads gyro/accel/mag/baro and assembles one IMU message.
// gyro_integral_dt is the wall-clock gap since the previous Sample
// call, matching how the reference producer derives it from ticker
// intervals rather than a hardware timestamp.
func (b *Bus) Sample() (messages.IMUSample, error) {
	now := time.Now()
	var dt float64
	if b.haveTick {
		dt = now.Sub(b.lastTick).Seconds()
	}
	b.lastTick = now
	b.haveTick = true

	gyro, accel, err := b.imu.ReadGyroAccel()
	if err != nil {
		return messages.IMUSample{}, err
	}

	if mag, ok, err := b.imu.ReadMag(); err != nil {
		log.Printf("imubus: mag read error: %v", err)
	} else if ok {
		b.lastMag = mag
		b.haveMag = true
	}
	var mag [3]float64
	if b.haveMag {
		mag = b.lastMag
	}

	altM, err := b.baro.ReadAltitudeM()
	if err != nil {
		return messages.IMUSample{}, err
	}

	b.sampleSeq++
	return messages.IMUSample{
		TimestampUs:    uint64(now.UnixMicro()),
		Gyro:           gyro,
		Accel:          accel,
		Mag:            mag,
		BaroAltM:       altM,
		GyroIntegralDt: dt,
	}, nil
}
