package iekf

// betaTable holds the 95th-percentile chi-squared threshold for each
// innovation dimension k in 1..6 (C8). Index 0 is unused so the table
// can be indexed directly by k.
var betaTable = [7]float64{
	0,
	3.84,
	5.99,
	7.81,
	9.49,
	11.07,
	12.59,
}

// gateFailed reports whether the normalized innovation beta exceeds
// the table entry for dimension k. The gate is advisory (§4.8): callers
// log the result through FaultSink but never skip the update because
// of it.
func gateFailed(k int, beta float64) bool {
	return beta > betaTable[k]
}
