// Package iekf implements the invariant extended Kalman filter core
// for strapdown inertial navigation: the nominal/error-state
// parameterization, continuous-time prediction, per-sensor
// measurement corrections with innovation gating, covariance
// conditioning, and nominal-state bounding.
//
// The package has no I/O of its own -- callers push IMU and GPS
// samples in and read state snapshots back out.
package iekf

import "gonum.org/v1/gonum/mat"

// NX is the length of the nominal state vector x.
const NX = 16

// NXe is the length of the error state vector xe.
const NXe = 15

// NU is the length of the input vector u.
const NU = 6

// Indices into the nominal state x (mirrors the original X:: enum).
const (
	xQNB0 = iota
	xQNB1
	xQNB2
	xQNB3
	xVelN
	xVelE
	xVelD
	xGyroBiasBX
	xGyroBiasBY
	xGyroBiasBZ
	xAccelScale
	xPosN
	xPosE
	xPosD
	xTerrainAlt
	xBaroBias
)

// Indices into the error state xe (mirrors the original Xe:: enum).
const (
	xeRotN = iota
	xeRotE
	xeRotD
	xeVelN
	xeVelE
	xeVelD
	xeGyroBiasN
	xeGyroBiasE
	xeGyroBiasD
	xeAccelScale
	xePosN
	xePosE
	xePosD
	xeTerrainAlt
	xeBaroBias
)

// Indices into the input vector u (mirrors the original U:: enum).
const (
	uOmegaNBBX = iota
	uOmegaNBBY
	uOmegaNBBZ
	uAccelBX
	uAccelBY
	uAccelBZ
)

// gN is gravity expressed in the nav frame, down positive.
var gN = [3]float64{0, 0, -9.8}

// defaultBN is the local magnetic field reference direction. Seeded to a
// fixed vector at construction (see §9 open question: a production
// system would set this from declination/inclination at the latched
// origin instead).
var defaultBN = [3]float64{0.21523, 0.00771, -0.42741}

// Filter holds the nominal state x, error covariance P, and cached
// input u that together make up the invariant EKF core (C1).
type Filter struct {
	x [NX]float64
	u [NU]float64

	// p is the error-state covariance, stored as a dense symmetric
	// matrix. All mutation goes through condition(), which enforces
	// I2 (symmetric, finite, diagonal floor, upper-bound clamp).
	p *mat.SymDense

	bN [3]float64

	origin Origin
	faults FaultSink

	timestampAccelUs uint64
	timestampMagUs   uint64
	timestampBaroUs  uint64
	timestampGpsUs   uint64

	haveAccelTimestamp bool
	haveMagTimestamp   bool
	haveBaroTimestamp  bool
	haveGpsTimestamp   bool
}

// New creates a Filter at its default initial condition: identity
// attitude, unit accel scale, everything else zero, and the fixed
// diagonal P seed from §3 of the specification.
func New(origin Origin, faults FaultSink) *Filter {
	f := &Filter{
		origin: origin,
		faults: faults,
		bN:     defaultBN,
	}
	f.x[xQNB0] = 1
	f.x[xAccelScale] = 1

	p := mat.NewSymDense(NXe, nil)
	p.SetSym(xeRotN, xeRotN, 10)
	p.SetSym(xeRotE, xeRotE, 10)
	p.SetSym(xeRotD, xeRotD, 100)
	p.SetSym(xeVelN, xeVelN, 1e9)
	p.SetSym(xeVelE, xeVelE, 1e9)
	p.SetSym(xeVelD, xeVelD, 1e9)
	p.SetSym(xeGyroBiasN, xeGyroBiasN, 1e-3)
	p.SetSym(xeGyroBiasE, xeGyroBiasE, 1e-3)
	p.SetSym(xeGyroBiasD, xeGyroBiasD, 1e-3)
	p.SetSym(xeAccelScale, xeAccelScale, 1e-1)
	p.SetSym(xePosN, xePosN, 1e9)
	p.SetSym(xePosE, xePosE, 1e9)
	p.SetSym(xePosD, xePosD, 1e9)
	p.SetSym(xeTerrainAlt, xeTerrainAlt, 1e9)
	p.SetSym(xeBaroBias, xeBaroBias, 1e9)
	f.p = p

	return f
}

// SetMagneticReference overrides the local magnetic field reference
// direction B_n. Not set automatically from the latched origin -- no
// declination/inclination model is implemented (out of scope).
func (f *Filter) SetMagneticReference(bn [3]float64) {
	f.bN = bn
}

// Quaternion returns the current q_nb (scalar-first, body->nav).
func (f *Filter) Quaternion() [4]float64 {
	return [4]float64{f.x[xQNB0], f.x[xQNB1], f.x[xQNB2], f.x[xQNB3]}
}

// Velocity returns the current nav-frame velocity.
func (f *Filter) Velocity() [3]float64 {
	return [3]float64{f.x[xVelN], f.x[xVelE], f.x[xVelD]}
}

// Position returns the current nav-frame position.
func (f *Filter) Position() [3]float64 {
	return [3]float64{f.x[xPosN], f.x[xPosE], f.x[xPosD]}
}

// GyroBiasBody returns the current gyro bias in body axes.
func (f *Filter) GyroBiasBody() [3]float64 {
	return [3]float64{f.x[xGyroBiasBX], f.x[xGyroBiasBY], f.x[xGyroBiasBZ]}
}

// AccelScale returns the current accelerometer scale factor.
func (f *Filter) AccelScale() float64 { return f.x[xAccelScale] }

// TerrainAlt returns the current terrain altitude below the vehicle.
func (f *Filter) TerrainAlt() float64 { return f.x[xTerrainAlt] }

// BaroBias returns the current barometer bias.
func (f *Filter) BaroBias() float64 { return f.x[xBaroBias] }

// CovarianceDiag returns a copy of diag(P), one entry per error-state
// component, in Xe:: order.
func (f *Filter) CovarianceDiag() [NXe]float64 {
	var d [NXe]float64
	for i := 0; i < NXe; i++ {
		d[i] = f.p.At(i, i)
	}
	return d
}

// Origin returns the collaborator used for global<->local conversion.
func (f *Filter) Origin() Origin { return f.origin }
