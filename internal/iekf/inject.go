package iekf

// applyErrorCorrection maps an error-state correction dxe into a
// nominal-state increment and bounds the result (C5). The rotation
// component is injected as an additive quaternion delta -- q_nb_new =
// q_nb_old + [0, rot]*q_nb_old, not renormalized here (predict()
// renormalizes once drift exceeds tolerance) -- computed against the
// pre-correction quaternion throughout, including the nav->body
// rotation of the gyro-bias delta; accel_scale is multiplicative;
// everything else is additive.
func (f *Filter) applyErrorCorrection(dxe [NXe]float64) {
	qNBOld := f.Quaternion()

	dqPure := [4]float64{0, dxe[xeRotN], dxe[xeRotE], dxe[xeRotD]}
	dq := quatMul(dqPure, qNBOld)
	f.x[xQNB0] = qNBOld[0] + dq[0]
	f.x[xQNB1] = qNBOld[1] + dq[1]
	f.x[xQNB2] = qNBOld[2] + dq[2]
	f.x[xQNB3] = qNBOld[3] + dq[3]

	f.x[xVelN] += dxe[xeVelN]
	f.x[xVelE] += dxe[xeVelE]
	f.x[xVelD] += dxe[xeVelD]

	biasDeltaN := [3]float64{dxe[xeGyroBiasN], dxe[xeGyroBiasE], dxe[xeGyroBiasD]}
	biasDeltaB := quatConjugateRotate(quatConj(qNBOld), biasDeltaN)
	f.x[xGyroBiasBX] += biasDeltaB[0]
	f.x[xGyroBiasBY] += biasDeltaB[1]
	f.x[xGyroBiasBZ] += biasDeltaB[2]

	f.x[xAccelScale] *= 1 + dxe[xeAccelScale]

	f.x[xPosN] += dxe[xePosN]
	f.x[xPosE] += dxe[xePosE]
	f.x[xPosD] += dxe[xePosD]
	f.x[xTerrainAlt] += dxe[xeTerrainAlt]
	f.x[xBaroBias] += dxe[xeBaroBias]

	f.boundX()
}
