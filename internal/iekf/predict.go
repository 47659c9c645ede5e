package iekf

import "math"

// quatRenormTolerance is the drift magnitude that triggers an
// explicit renormalize in predict, per I1.
const quatRenormTolerance = 1e-3

// processNoiseDiag is the fixed diagonal of Q (C3 step 3), in Xe::
// order.
var processNoiseDiag = [NXe]float64{
	xeRotN:       1e-1,
	xeRotE:       1e-1,
	xeRotD:       1e-1,
	xeVelN:       1e-1,
	xeVelE:       1e-1,
	xeVelD:       1e-1,
	xeGyroBiasN:  1e-4,
	xeGyroBiasE:  1e-4,
	xeGyroBiasD:  1e-4,
	xeAccelScale: 1e-2,
	xePosN:       1e-1,
	xePosE:       1e-1,
	xePosD:       1e-1,
	xeTerrainAlt: 1e-1,
	xeBaroBias:   1e-1,
}

// Predict advances the filter by dt seconds using the cached input u
// (C3). Callers must ensure dt > 0.
func (f *Filter) Predict(dt float64) {
	qNB := f.Quaternion()
	if n := quatNorm(qNB); math.Abs(n-1) > quatRenormTolerance {
		qNB = quatNormalize(qNB)
		f.x[xQNB0], f.x[xQNB1], f.x[xQNB2], f.x[xQNB3] = qNB[0], qNB[1], qNB[2], qNB[3]
	}

	aB := [3]float64{f.u[uAccelBX], f.u[uAccelBY], f.u[uAccelBZ]}
	omegaNBB := [3]float64{f.u[uOmegaNBBX], f.u[uOmegaNBBY], f.u[uOmegaNBBZ]}
	gyroBiasB := f.GyroBiasBody()

	jAN := quatConjugateRotate(qNB, scale3(aB, 1/f.x[xAccelScale]))
	jOmegaN := quatConjugateRotate(qNB, sub3(omegaNBB, gyroBiasB))

	a := f.buildA(jAN, jOmegaN)

	dx := dynamics(f.x, f.u)
	for i := 0; i < NX; i++ {
		f.x[i] += dx[i] * dt
	}
	f.boundX()

	f.integrateCovariance(a, dt)
}

// buildA constructs the 15x15 error-state Jacobian A(x,u) (C3 step
// 2). Only the nonzero blocks named are populated; everything else
// stays zero.
func (f *Filter) buildA(jAN, jOmegaN [3]float64) [NXe][NXe]float64 {
	var a [NXe][NXe]float64

	hJAN := hat(jAN)
	hJOmegaN := hat(jOmegaN)

	for r := 0; r < 3; r++ {
		a[xeRotN+r][xeGyroBiasN+r] = -0.5
		for c := 0; c < 3; c++ {
			a[xeVelN+r][xeRotN+c] = -2 * hJAN[r][c]
			a[xeGyroBiasN+r][xeRotN+c] = hJOmegaN[r][c]
		}
		a[xeVelN+r][xeAccelScale] = -jAN[r]
		a[xePosN+r][xeVelN+r] = 1
	}

	return a
}

// integrateCovariance performs the Euler step P <- condition(P +
// (A*P + P*Aᵀ + Q)*dt) (C3 step 5).
func (f *Filter) integrateCovariance(a [NXe][NXe]float64, dt float64) {
	var ap, pat [NXe][NXe]float64
	for i := 0; i < NXe; i++ {
		for j := 0; j < NXe; j++ {
			var s float64
			for k := 0; k < NXe; k++ {
				s += a[i][k] * f.p.At(k, j)
			}
			ap[i][j] = s
		}
	}
	for i := 0; i < NXe; i++ {
		for j := 0; j < NXe; j++ {
			var s float64
			for k := 0; k < NXe; k++ {
				s += f.p.At(i, k) * a[j][k]
			}
			pat[i][j] = s
		}
	}

	for i := 0; i < NXe; i++ {
		for j := i; j < NXe; j++ {
			v := ap[i][j] + pat[i][j]
			if i == j {
				v += processNoiseDiag[i]
			}
			f.p.SetSym(i, j, f.p.At(i, j)+v*dt)
		}
	}
	f.condition()
}
