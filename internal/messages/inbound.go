// Package messages defines the wire-level shapes the filter core
// consumes and produces, per the inbound/outbound tables of the
// navigation filter's external interface.
package messages

// IMUSample is one strapdown IMU sample: gyro, accel, a synchronous
// magnetometer and barometer reading, and the relative timestamps
// that let the per-sensor correctors detect new data.
type IMUSample struct {
	TimestampUs uint64 `json:"timestamp"` // microseconds, monotonic

	// relative offsets (microseconds) of the accel/mag/baro samples
	// w.r.t. TimestampUs -- non-zero only when those sensors are read
	// on a different schedule than the gyro/accel combo.
	AccelRelUs uint64 `json:"accel_rel_t"`
	MagRelUs   uint64 `json:"mag_rel_t"`
	BaroRelUs  uint64 `json:"baro_rel_t"`

	Gyro  [3]float64 `json:"gyro"`  // rad/s, body frame
	Accel [3]float64 `json:"accel"` // m/s^2, body frame
	Mag   [3]float64 `json:"mag"`   // Gauss, body frame

	BaroAltM float64 `json:"baro_alt"` // meters

	// GyroIntegralDt is the integration interval (s) the gyro sample
	// represents; predict() only runs when this is positive.
	GyroIntegralDt float64 `json:"gyro_integral_dt"`
}

// GPSSample is one combined GNSS fix.
type GPSSample struct {
	TimestampUs uint64 `json:"timestamp"`

	LatE7 int32 `json:"lat"` // degrees * 1e7
	LonE7 int32 `json:"lon"` // degrees * 1e7
	AltMM int32 `json:"alt"` // millimeters

	VelN float64 `json:"vel_n"`
	VelE float64 `json:"vel_e"`
	VelD float64 `json:"vel_d"`

	SatellitesUsed uint8 `json:"satellites_used"`
	FixType        uint8 `json:"fix_type"`
}

// LatDeg returns the latitude in decimal degrees.
func (g GPSSample) LatDeg() float64 { return float64(g.LatE7) * 1e-7 }

// LonDeg returns the longitude in decimal degrees.
func (g GPSSample) LonDeg() float64 { return float64(g.LonE7) * 1e-7 }

// AltM returns the altitude in meters.
func (g GPSSample) AltM() float64 { return float64(g.AltMM) * 1e-3 }
