package iekf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/aerolume/iekf-nav/internal/messages"
)

// correctMag implements the magnetometer corrector (§4.4.2). It
// observes yaw only; roll/pitch corrections (rot_n, rot_e) are
// forbidden.
func (f *Filter) correctMag(imu messages.IMUSample) {
	ts := imu.TimestampUs + imu.MagRelUs
	if f.haveMagTimestamp && ts == f.timestampMagUs {
		return
	}
	var dt float64
	if f.haveMagTimestamp {
		dt = float64(ts-f.timestampMagUs) / 1e6
	}
	if f.haveMagTimestamp && dt < 0 {
		return
	}
	f.timestampMagUs = ts
	f.haveMagTimestamp = true
	if dt <= 0 {
		return
	}

	qNB := f.Quaternion()
	yB := unit3(imu.Mag)
	bHatN := unit3(f.bN)

	r := sub3(quatConjugateRotate(qNB, yB), bHatN)

	hb := hat(bHatN)
	h := mat.NewDense(3, NXe, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			h.Set(row, xeRotN+col, 2*hb[row][col])
		}
	}

	rMat := mat.NewSymDense(3, nil)
	rMat.SetSym(0, 0, 1/dt)
	rMat.SetSym(1, 1, 1/dt)
	rMat.SetSym(2, 2, 100/dt)

	res := kalmanUpdate(f.p, h, rMat, r[:])
	if gateFailed(3, res.beta) {
		f.faults.Warn("mag")
	}
	res.dxe[xeRotN] = 0
	res.dxe[xeRotE] = 0

	f.applyErrorCorrection(res.dxe)
	f.addToCovariance(res.dp)
}
