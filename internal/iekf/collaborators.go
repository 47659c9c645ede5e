package iekf

// Origin latches a horizontal and a vertical reference the first time
// a valid GPS fix arrives (I5) and converts between the (lat, lon,
// alt) global frame and the local NED tangent frame the filter
// operates in. The implementation lives outside this package (§6);
// the core only depends on this interface.
type Origin interface {
	XYInitialized() bool
	AltInitialized() bool

	XYInitialize(latDeg, lonDeg float64, timestampUs uint64)
	AltInitialize(altM float64, timestampUs uint64)

	GlobalToLocal(latDeg, lonDeg, altM float64) (n, e, d float64)
	LocalToGlobal(n, e, d float64) (latDeg, lonDeg, altM float64)

	LatDeg() float64
	LonDeg() float64
	Alt() float64
	XYTimestampUs() uint64
}

// FaultSink is the single collaborator the χ² gate reports to. It is
// advisory only: exceeding a gate never blocks the update (§4.8, §9).
type FaultSink interface {
	Warn(tag string)
}

// NopFaultSink discards every warning. Useful for tests that don't
// care about gate diagnostics.
type NopFaultSink struct{}

// Warn implements FaultSink.
func (NopFaultSink) Warn(string) {}
