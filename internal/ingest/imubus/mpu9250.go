// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package imubus reads raw gyro/accel/mag/baro samples off an
// MPU9250-class IMU and a BMP-class barometer over I2C and converts
// them into messages.IMUSample values the filter core consumes.
//
// There is no periph.io/x/devices/v3/mpu9250 package in the public
// module -- the driver here talks straight to the register map via
// periph.io/x/conn/v3/i2c, using the addresses the register-debug
// tooling this package is grounded on already knew about.
package imubus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// MPU9250 register addresses (subset actually exercised by this
// driver).
const (
	regSmplrtDiv    = 0x19
	regConfig       = 0x1A
	regGyroConfig   = 0x1B
	regAccelConfig  = 0x1C
	regAccelConfig2 = 0x1D
	regIntPinCfg    = 0x37
	regAccelXOutH   = 0x3B
	regGyroXOutH    = 0x43
	regPwrMgmt1     = 0x6B
	regWhoAmI       = 0x75

	mpu9250WhoAmI = 0x71
)

// AK8963 magnetometer register addresses (accessed through the
// MPU9250's I2C bypass, a separate I2C address on the same bus).
const (
	ak8963Addr    = 0x0C
	regAK8963WIA  = 0x00
	regAK8963ST1  = 0x02
	regAK8963HXL  = 0x03
	regAK8963CNTL = 0x0A

	ak8963WhoAmI      = 0x48
	ak8963ContinMode2 = 0x16 // 100 Hz continuous, 16-bit output
)

// accelRangeLSBPerG maps the accel full-scale byte (0-3,
// ACCEL_CONFIG.ACCEL_FS_SEL) to LSB/g.
var accelRangeLSBPerG = [4]float64{16384, 8192, 4096, 2048}

// gyroRangeLSBPerDps maps the gyro full-scale byte to LSB/(deg/s).
var gyroRangeLSBPerDps = [4]float64{131, 65.5, 32.8, 16.4}

const magLSBPerGauss = 0.15 // AK8963 16-bit mode, 0.15 uT/LSB -> Gauss below
const degToRad = 3.14159265358979323846 / 180

// MPU9250 talks to the IMU half of the bus: gyro, accel, and (via
// bypass) the AK8963 magnetometer.
type MPU9250 struct {
	dev       *i2c.Dev
	accelLSB  float64
	gyroLSB   float64
	accelBias [3]float64
}

// NewMPU9250 opens the device on bus at addr, configures ranges, and
// enables I2C bypass so the AK8963 magnetometer becomes addressable
// directly at ak8963Addr on the same bus.
func NewMPU9250(bus i2c.Bus, addr uint16, accelRange, gyroRange, dlpf byte) (*MPU9250, error) {
	dev := &i2c.Dev{Bus: bus, Addr: addr}

	who, err := readReg(dev, regWhoAmI)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: who-am-i read: %w", err)
	}
	if who != mpu9250WhoAmI {
		return nil, fmt.Errorf("mpu9250: unexpected who-am-i 0x%02x", who)
	}

	if err := writeReg(dev, regPwrMgmt1, 0x01); err != nil { // wake, clock from PLL
		return nil, fmt.Errorf("mpu9250: power on: %w", err)
	}
	if err := writeReg(dev, regConfig, dlpf&0x07); err != nil {
		return nil, fmt.Errorf("mpu9250: dlpf config: %w", err)
	}
	if err := writeReg(dev, regSmplrtDiv, 0x00); err != nil {
		return nil, fmt.Errorf("mpu9250: sample rate div: %w", err)
	}
	if err := writeReg(dev, regGyroConfig, (gyroRange&0x03)<<3); err != nil {
		return nil, fmt.Errorf("mpu9250: gyro range: %w", err)
	}
	if err := writeReg(dev, regAccelConfig, (accelRange&0x03)<<3); err != nil {
		return nil, fmt.Errorf("mpu9250: accel range: %w", err)
	}
	if err := writeReg(dev, regAccelConfig2, dlpf&0x07); err != nil {
		return nil, fmt.Errorf("mpu9250: accel dlpf: %w", err)
	}
	if err := writeReg(dev, regIntPinCfg, 0x02); err != nil { // BYPASS_EN
		return nil, fmt.Errorf("mpu9250: bypass enable: %w", err)
	}

	m := &MPU9250{
		dev:      dev,
		accelLSB: accelRangeLSBPerG[accelRange&0x03],
		gyroLSB:  gyroRangeLSBPerDps[gyroRange&0x03],
	}

	mag := &i2c.Dev{Bus: bus, Addr: ak8963Addr}
	magWho, err := readReg(mag, regAK8963WIA)
	if err != nil {
		return nil, fmt.Errorf("mpu9250: ak8963 who-am-i read: %w", err)
	}
	if magWho != ak8963WhoAmI {
		return nil, fmt.Errorf("mpu9250: ak8963 unexpected who-am-i 0x%02x", magWho)
	}
	if err := writeReg(mag, regAK8963CNTL, ak8963ContinMode2); err != nil {
		return nil, fmt.Errorf("mpu9250: ak8963 mode: %w", err)
	}

	return m, nil
}

// SetAccelBias records a fixed accelerometer bias (m/s^2, body frame)
// to subtract from every reading; the calibration pipeline that would
// compute this lives outside the filter core (§1 non-goals).
func (m *MPU9250) SetAccelBias(bias [3]float64) { m.accelBias = bias }

// ReadGyroAccel reads the 14-byte accel/temp/gyro burst starting at
// ACCEL_XOUT_H and returns gyro in rad/s, accel in m/s^2.
func (m *MPU9250) ReadGyroAccel() (gyro, accel [3]float64, err error) {
	var buf [14]byte
	if err := m.dev.Tx([]byte{regAccelXOutH}, buf[:]); err != nil {
		return gyro, accel, fmt.Errorf("mpu9250: burst read: %w", err)
	}

	ax := be16(buf[0], buf[1])
	ay := be16(buf[2], buf[3])
	az := be16(buf[4], buf[5])
	gx := be16(buf[8], buf[9])
	gy := be16(buf[10], buf[11])
	gz := be16(buf[12], buf[13])

	const g0 = 9.80665
	accel = [3]float64{
		float64(ax)/m.accelLSB*g0 - m.accelBias[0],
		float64(ay)/m.accelLSB*g0 - m.accelBias[1],
		float64(az)/m.accelLSB*g0 - m.accelBias[2],
	}
	gyro = [3]float64{
		float64(gx) / m.gyroLSB * degToRad,
		float64(gy) / m.gyroLSB * degToRad,
		float64(gz) / m.gyroLSB * degToRad,
	}
	return gyro, accel, nil
}

// ReadMag reads the AK8963 over the bypassed bus and returns the
// field in Gauss. Returns ok=false when data is not yet ready
// (ST1.DRDY clear); callers should reuse the previous sample.
func (m *MPU9250) ReadMag() (mag [3]float64, ok bool, err error) {
	dev := &i2c.Dev{Bus: m.dev.Bus, Addr: ak8963Addr}

	st1, err := readReg(dev, regAK8963ST1)
	if err != nil {
		return mag, false, fmt.Errorf("mpu9250: ak8963 st1: %w", err)
	}
	if st1&0x01 == 0 {
		return mag, false, nil
	}

	var buf [7]byte // HXL..HZH + ST2 (reading ST2 latches the measurement)
	if err := dev.Tx([]byte{regAK8963HXL}, buf[:]); err != nil {
		return mag, false, fmt.Errorf("mpu9250: ak8963 burst read: %w", err)
	}

	hx := le16(buf[0], buf[1])
	hy := le16(buf[2], buf[3])
	hz := le16(buf[4], buf[5])

	const uTPerGauss = 100.0
	mag = [3]float64{
		float64(hx) * magLSBPerGauss / uTPerGauss,
		float64(hy) * magLSBPerGauss / uTPerGauss,
		float64(hz) * magLSBPerGauss / uTPerGauss,
	}
	return mag, true, nil
}

func readReg(dev *i2c.Dev, reg byte) (byte, error) {
	var v [1]byte
	if err := dev.Tx([]byte{reg}, v[:]); err != nil {
		return 0, err
	}
	return v[0], nil
}

func writeReg(dev *i2c.Dev, reg, value byte) error {
	return dev.Tx([]byte{reg, value}, nil)
}

func be16(hi, lo byte) int16 { return int16(uint16(hi)<<8 | uint16(lo)) }
func le16(lo, hi byte) int16 { return int16(uint16(hi)<<8 | uint16(lo)) }
