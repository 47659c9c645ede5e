package iekf

// dynamics computes dx/dt = f(x, u), the continuous-time nominal
// state derivative (C2). Biases, accel_scale, terrain_alt and
// baro_bias are random-walk states driven only by Q, so their
// derivative here is zero.
func dynamics(x [NX]float64, u [NU]float64) [NX]float64 {
	qNB := [4]float64{x[xQNB0], x[xQNB1], x[xQNB2], x[xQNB3]}
	aB := [3]float64{u[uAccelBX], u[uAccelBY], u[uAccelBZ]}
	asN := sub3(quatConjugateRotate(qNB, scale3(aB, 1/x[xAccelScale])), gN)

	gyroBiasB := [3]float64{x[xGyroBiasBX], x[xGyroBiasBY], x[xGyroBiasBZ]}
	omegaNBB := [3]float64{u[uOmegaNBBX], u[uOmegaNBBY], u[uOmegaNBBZ]}
	omegaCorrected := sub3(omegaNBB, gyroBiasB)

	dqNB := quatMul(qNB, [4]float64{0, omegaCorrected[0], omegaCorrected[1], omegaCorrected[2]})
	dqNB = scale3q(dqNB, 0.5)

	var dx [NX]float64
	dx[xQNB0] = dqNB[0]
	dx[xQNB1] = dqNB[1]
	dx[xQNB2] = dqNB[2]
	dx[xQNB3] = dqNB[3]
	dx[xVelN] = asN[0]
	dx[xVelE] = asN[1]
	dx[xVelD] = asN[2]
	dx[xGyroBiasBX] = 0
	dx[xGyroBiasBY] = 0
	dx[xGyroBiasBZ] = 0
	dx[xAccelScale] = 0
	dx[xPosN] = x[xVelN]
	dx[xPosE] = x[xVelE]
	dx[xPosD] = x[xVelD]
	dx[xTerrainAlt] = 0
	dx[xBaroBias] = 0
	return dx
}

func scale3q(q [4]float64, s float64) [4]float64 {
	return [4]float64{q[0] * s, q[1] * s, q[2] * s, q[3] * s}
}
