package iekf

import "math"

// Gyro bias bounds are both zero, which freezes the nominal bias at
// its initial value despite C5 computing bias updates. This mirrors
// the original filter (see the §9 open question in the spec this
// package implements) and is left as a named, easily-tunable
// constant rather than a hard-coded literal buried in boundX.
const gyroBiasBoundBody = 0

var xLowerBound = [NX]float64{
	xQNB0:       -2,
	xQNB1:       -2,
	xQNB2:       -2,
	xQNB3:       -2,
	xVelN:       -100,
	xVelE:       -100,
	xVelD:       -100,
	xGyroBiasBX: -gyroBiasBoundBody,
	xGyroBiasBY: -gyroBiasBoundBody,
	xGyroBiasBZ: -gyroBiasBoundBody,
	xAccelScale: 0.8,
	xPosN:       -1e9,
	xPosE:       -1e9,
	xPosD:       -1e9,
	xTerrainAlt: -1e6,
	xBaroBias:   -1e6,
}

var xUpperBound = [NX]float64{
	xQNB0:       2,
	xQNB1:       2,
	xQNB2:       2,
	xQNB3:       2,
	xVelN:       100,
	xVelE:       100,
	xVelD:       100,
	xGyroBiasBX: gyroBiasBoundBody,
	xGyroBiasBY: gyroBiasBoundBody,
	xGyroBiasBZ: gyroBiasBoundBody,
	xAccelScale: 1.5,
	xPosN:       1e9,
	xPosE:       1e9,
	xPosD:       1e9,
	xTerrainAlt: 1e6,
	xBaroBias:   1e6,
}

// boundX enforces I3: every element of x is finite (non-finite
// entries are forced to zero) and within its declared bound (C7).
func (f *Filter) boundX() {
	for i := 0; i < NX; i++ {
		v := f.x[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		if v < xLowerBound[i] {
			v = xLowerBound[i]
		} else if v > xUpperBound[i] {
			v = xUpperBound[i]
		}
		f.x[i] = v
	}
}
