package messages

// Attitude is the fused orientation/body-rate output.
type Attitude struct {
	TimestampUs uint64     `json:"timestamp"`
	Q           [4]float64 `json:"q"` // q_nb, scalar-first
	RollSpeed   float64    `json:"rollspeed"`
	PitchSpeed  float64    `json:"pitchspeed"`
	YawSpeed    float64    `json:"yawspeed"`
}

// LocalPosition is the fused NED position/velocity output.
type LocalPosition struct {
	TimestampUs uint64 `json:"timestamp"`

	XYValid bool `json:"xy_valid"`
	ZValid  bool `json:"z_valid"`

	PosN float64 `json:"pos_n"`
	PosE float64 `json:"pos_e"`
	PosD float64 `json:"pos_d"`
	VelN float64 `json:"vel_n"`
	VelE float64 `json:"vel_e"`
	VelD float64 `json:"vel_d"`

	Yaw float64 `json:"yaw"` // rad, Euler-Z of q_nb

	XYGlobal bool `json:"xy_global"`
	ZGlobal  bool `json:"z_global"`

	RefTimestampUs uint64  `json:"ref_timestamp"`
	RefLatDeg      float64 `json:"ref_lat"`
	RefLonDeg      float64 `json:"ref_lon"`
	RefAltM        float64 `json:"ref_alt"`

	DistBottom     float64 `json:"dist_bottom"`
	DistBottomRate float64 `json:"dist_bottom_rate"`

	Eph float64 `json:"eph"`
	Epv float64 `json:"epv"`
}

// GlobalPosition is the fused lat/lon/alt output, derived from
// LocalPosition via the latched origin.
type GlobalPosition struct {
	TimestampUs uint64  `json:"timestamp"`
	LatDeg      float64 `json:"lat"`
	LonDeg      float64 `json:"lon"`
	AltM        float64 `json:"alt"`

	VelN float64 `json:"vel_n"`
	VelE float64 `json:"vel_e"`
	VelD float64 `json:"vel_d"`
	Yaw  float64 `json:"yaw"`

	Eph        float64 `json:"eph"`
	Epv        float64 `json:"epv"`
	TerrainAlt float64 `json:"terrain_alt"`
}

// ControlState is the specific-acceleration/pos/vel/attitude bundle
// a flight controller consumes directly.
type ControlState struct {
	TimestampUs uint64 `json:"timestamp"`

	AccelSpecBody [3]float64 `json:"accel_spec_body"`
	VelN          float64    `json:"x_vel"`
	VelE          float64    `json:"y_vel"`
	VelD          float64    `json:"z_vel"`
	PosN          float64    `json:"x_pos"`
	PosE          float64    `json:"y_pos"`
	PosD          float64    `json:"z_pos"`

	VelVariance [3]float64 `json:"vel_variance"`
	PosVariance [3]float64 `json:"pos_variance"`

	Q [4]float64 `json:"q"`

	RollRate  float64 `json:"roll_rate"`
	PitchRate float64 `json:"pitch_rate"`
	YawRate   float64 `json:"yaw_rate"`
}

// EstimatorStatus is the diagnostic snapshot: covariance diagonal,
// raw state, and placeholder fault/test-ratio fields mirroring the
// original's estimator_status_s layout.
type EstimatorStatus struct {
	TimestampUs uint64 `json:"timestamp"`

	NStates int        `json:"n_states"`
	States  [16]float64 `json:"states"`

	// Covariances holds diag(P), one entry per error-state component.
	Covariances [15]float64 `json:"covariances"`

	PosHorizAccuracy float64 `json:"pos_horiz_accuracy"`
	PosVertAccuracy  float64 `json:"pos_vert_accuracy"`

	GPSCheckFailFlags  uint32 `json:"gps_check_fail_flags"`
	ControlModeFlags   uint32 `json:"control_mode_flags"`
	FilterFaultFlags   uint32 `json:"filter_fault_flags"`
	InnovationCheckBit uint32 `json:"innovation_check_flags"`

	MagTestRatio  float64 `json:"mag_test_ratio"`
	VelTestRatio  float64 `json:"vel_test_ratio"`
	PosTestRatio  float64 `json:"pos_test_ratio"`
	HgtTestRatio  float64 `json:"hgt_test_ratio"`
	TasTestRatio  float64 `json:"tas_test_ratio"`
	HaglTestRatio float64 `json:"hagl_test_ratio"`
}
