package iekf

import (
	"math"

	"github.com/aerolume/iekf-nav/internal/messages"
)

// OnImu runs one full IMU callback cycle (§5): refresh the cached
// input, predict if the sample carries a positive integration
// interval, then correct accel, mag, baro in that fixed order, then
// publish. It returns the five outbound messages derived from the
// post-correction state.
func (f *Filter) OnImu(imu messages.IMUSample) (
	messages.Attitude,
	messages.LocalPosition,
	messages.GlobalPosition,
	messages.ControlState,
	messages.EstimatorStatus,
) {
	f.u[uOmegaNBBX] = imu.Gyro[0]
	f.u[uOmegaNBBY] = imu.Gyro[1]
	f.u[uOmegaNBBZ] = imu.Gyro[2]
	f.u[uAccelBX] = imu.Accel[0]
	f.u[uAccelBY] = imu.Accel[1]
	f.u[uAccelBZ] = imu.Accel[2]

	if imu.GyroIntegralDt > 0 {
		f.Predict(imu.GyroIntegralDt)
	}

	f.correctAccel(imu)
	f.correctMag(imu)
	f.correctBaro(imu)

	return f.publish(imu.TimestampUs)
}

// publish assembles the five outbound messages from the current
// state, deriving eph/epv/dist_bottom/specific-acceleration exactly
// as the original's publish() step does.
func (f *Filter) publish(timestampUs uint64) (
	messages.Attitude,
	messages.LocalPosition,
	messages.GlobalPosition,
	messages.ControlState,
	messages.EstimatorStatus,
) {
	qNB := f.Quaternion()
	gyroBiasB := f.GyroBiasBody()
	bodyRates := sub3([3]float64{f.u[uOmegaNBBX], f.u[uOmegaNBBY], f.u[uOmegaNBBZ]}, gyroBiasB)
	diag := f.CovarianceDiag()

	attitude := messages.Attitude{
		TimestampUs: timestampUs,
		Q:           qNB,
		RollSpeed:   bodyRates[0],
		PitchSpeed:  bodyRates[1],
		YawSpeed:    bodyRates[2],
	}

	eph := math.Sqrt(diag[xePosN] + diag[xePosE])
	epv := diag[xePosD]

	xyGlobal := f.origin != nil && f.origin.XYInitialized()
	zGlobal := f.origin != nil && f.origin.AltInitialized()

	local := messages.LocalPosition{
		TimestampUs: timestampUs,
		// xy_valid/z_valid track whether pos/vel are defined at all,
		// which is unconditional for this filter; xy_global/z_global
		// are the ones gated on the latched origin.
		XYValid:        true,
		ZValid:         true,
		PosN:           f.x[xPosN],
		PosE:           f.x[xPosE],
		PosD:           f.x[xPosD],
		VelN:           f.x[xVelN],
		VelE:           f.x[xVelE],
		VelD:           f.x[xVelD],
		Yaw:            eulerYawZ(qNB),
		XYGlobal:       xyGlobal,
		ZGlobal:        zGlobal,
		DistBottom:     -f.x[xPosD] - f.x[xTerrainAlt],
		DistBottomRate: -f.x[xVelD],
		Eph:            eph,
		Epv:            epv,
	}

	var global messages.GlobalPosition
	if f.origin != nil {
		local.RefTimestampUs = f.origin.XYTimestampUs()
		local.RefLatDeg = f.origin.LatDeg()
		local.RefLonDeg = f.origin.LonDeg()
		local.RefAltM = f.origin.Alt()

		lat, lon, alt := f.origin.LocalToGlobal(f.x[xPosN], f.x[xPosE], f.x[xPosD])
		global = messages.GlobalPosition{
			TimestampUs: timestampUs,
			LatDeg:      lat,
			LonDeg:      lon,
			AltM:        alt,
			VelN:        f.x[xVelN],
			VelE:        f.x[xVelE],
			VelD:        f.x[xVelD],
			Yaw:         eulerYawZ(qNB),
			Eph:         eph,
			Epv:         epv,
			TerrainAlt:  f.x[xTerrainAlt] + f.origin.Alt(),
		}
	}

	aSpecBody := sub3(
		scale3([3]float64{f.u[uAccelBX], f.u[uAccelBY], f.u[uAccelBZ]}, 1/f.x[xAccelScale]),
		quatConjugateRotate(quatConj(qNB), gN),
	)

	control := messages.ControlState{
		TimestampUs:   timestampUs,
		AccelSpecBody: aSpecBody,
		VelN:          f.x[xVelN],
		VelE:          f.x[xVelE],
		VelD:          f.x[xVelD],
		PosN:          f.x[xPosN],
		PosE:          f.x[xPosE],
		PosD:          f.x[xPosD],
		VelVariance:   [3]float64{diag[xeVelN], diag[xeVelE], diag[xeVelD]},
		PosVariance:   [3]float64{diag[xePosN], diag[xePosE], diag[xePosD]},
		Q:             qNB,
		RollRate:      bodyRates[0],
		PitchRate:     bodyRates[1],
		YawRate:       bodyRates[2],
	}

	status := messages.EstimatorStatus{
		TimestampUs:      timestampUs,
		NStates:          NX,
		States:           f.x,
		Covariances:      diag,
		PosHorizAccuracy: eph,
		PosVertAccuracy:  epv,
	}

	return attitude, local, global, control, status
}
