package iekf

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aerolume/iekf-nav/internal/messages"
)

// accelGravityGateMps2 is the pre-gate tolerance on |‖a_b/scale‖ -
// ‖g_n‖| (§4.4.1): outside this the vehicle is accelerating and the
// gravity-only assumption is invalid, so the sample is skipped
// entirely (not even gated through beta).
const accelGravityGateMps2 = 1.0

// correctAccel implements the accelerometer corrector (§4.4.1). It
// treats the specific force as a noisy observation of g_n rotated
// into body and corrects roll/pitch only; yaw (rot_d) is forbidden.
func (f *Filter) correctAccel(imu messages.IMUSample) {
	ts := imu.TimestampUs + imu.AccelRelUs
	if f.haveAccelTimestamp && ts == f.timestampAccelUs {
		return
	}
	var dt float64
	if f.haveAccelTimestamp {
		dt = float64(ts-f.timestampAccelUs) / 1e6
	}
	if f.haveAccelTimestamp && dt < 0 {
		return
	}
	f.timestampAccelUs = ts
	f.haveAccelTimestamp = true
	if dt <= 0 {
		return
	}

	qNB := f.Quaternion()
	aBScaled := scale3(imu.Accel, 1/f.x[xAccelScale])

	if math.Abs(norm3(aBScaled)-norm3(gN)) > accelGravityGateMps2 {
		return
	}

	r := sub3(quatConjugateRotate(qNB, aBScaled), gN)

	gHat := unit3(gN)
	hg := hat(gHat)

	h := mat.NewDense(3, NXe, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			h.Set(row, xeRotN+col, 2*hg[row][col])
		}
	}

	rMat := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		rMat.SetSym(i, i, 1/dt)
	}

	res := kalmanUpdate(f.p, h, rMat, r[:])
	if gateFailed(3, res.beta) {
		f.faults.Warn("accel")
	}
	res.dxe[xeRotD] = 0

	f.applyErrorCorrection(res.dxe)
	f.addToCovariance(res.dp)
}
