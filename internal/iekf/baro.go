package iekf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/aerolume/iekf-nav/internal/messages"
)

// correctBaro implements the barometric altimeter corrector
// (§4.4.3). It observes pos_d and baro_bias jointly; no forbidden
// components.
func (f *Filter) correctBaro(imu messages.IMUSample) {
	ts := imu.TimestampUs + imu.BaroRelUs
	if f.haveBaroTimestamp && ts == f.timestampBaroUs {
		return
	}
	var dt float64
	if f.haveBaroTimestamp {
		dt = float64(ts-f.timestampBaroUs) / 1e6
	}
	if f.haveBaroTimestamp && dt < 0 {
		return
	}
	f.timestampBaroUs = ts
	f.haveBaroTimestamp = true
	if dt <= 0 {
		return
	}

	originAlt := 0.0
	if f.origin != nil && f.origin.AltInitialized() {
		originAlt = f.origin.Alt()
	}

	r := imu.BaroAltM - (-f.x[xPosD] + f.x[xBaroBias] - originAlt)

	h := mat.NewDense(1, NXe, nil)
	h.Set(0, xePosD, -1)
	h.Set(0, xeBaroBias, 1)

	rMat := mat.NewSymDense(1, nil)
	rMat.SetSym(0, 0, 10/dt)

	res := kalmanUpdate(f.p, h, rMat, []float64{r})
	if gateFailed(1, res.beta) {
		f.faults.Warn("baro")
	}

	f.applyErrorCorrection(res.dxe)
	f.addToCovariance(res.dp)
}
