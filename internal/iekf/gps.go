package iekf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/aerolume/iekf-nav/internal/messages"
)

const (
	gpsMinSatellites = 6
	gpsMinFixType    = 3
)

// CorrectGPS implements the GPS corrector (§4.4.4). Unlike the IMU-
// driven correctors, it is its own entry point: a GPS fix is not tied
// to the predict/accel/mag/baro cycle. Fixes below the quality floor
// are skipped entirely, including origin latching (P7).
func (f *Filter) CorrectGPS(gps messages.GPSSample) {
	if gps.SatellitesUsed < gpsMinSatellites || gps.FixType < gpsMinFixType {
		return
	}
	if f.haveGpsTimestamp && gps.TimestampUs == f.timestampGpsUs {
		return
	}
	if f.haveGpsTimestamp && gps.TimestampUs < f.timestampGpsUs {
		return
	}
	f.timestampGpsUs = gps.TimestampUs
	f.haveGpsTimestamp = true

	if f.origin != nil && !f.origin.XYInitialized() {
		f.origin.XYInitialize(gps.LatDeg(), gps.LonDeg(), gps.TimestampUs)
	}
	if f.origin != nil && !f.origin.AltInitialized() {
		f.origin.AltInitialize(gps.AltM(), gps.TimestampUs)
	}
	if f.origin == nil {
		return
	}

	n, e, d := f.origin.GlobalToLocal(gps.LatDeg(), gps.LonDeg(), gps.AltM())

	res := [6]float64{
		n - f.x[xPosN],
		e - f.x[xPosE],
		d - f.x[xPosD],
		gps.VelN - f.x[xVelN],
		gps.VelE - f.x[xVelE],
		gps.VelD - f.x[xVelD],
	}

	h := mat.NewDense(6, NXe, nil)
	h.Set(0, xePosN, 1)
	h.Set(1, xePosE, 1)
	h.Set(2, xePosD, 1)
	h.Set(3, xeVelN, 1)
	h.Set(4, xeVelE, 1)
	h.Set(5, xeVelD, 1)

	rMat := mat.NewSymDense(6, nil)
	for i := 0; i < 6; i++ {
		rMat.SetSym(i, i, 1)
	}

	out := kalmanUpdate(f.p, h, rMat, res[:])
	if gateFailed(6, out.beta) {
		f.faults.Warn("gps")
	}
	out.dxe[xeRotN] = 0
	out.dxe[xeRotE] = 0
	out.dxe[xeRotD] = 0

	f.applyErrorCorrection(out.dxe)
	f.addToCovariance(out.dp)
}
