package iekf

import "testing"

func newTestFilter() *Filter {
	return New(nil, NopFaultSink{})
}

func TestNewInitialCondition(t *testing.T) {
	f := newTestFilter()

	q := f.Quaternion()
	if q != [4]float64{1, 0, 0, 0} {
		t.Fatalf("expected identity quaternion, got %v", q)
	}
	if f.AccelScale() != 1 {
		t.Fatalf("expected accel_scale = 1, got %v", f.AccelScale())
	}
	if v := f.Velocity(); v != [3]float64{0, 0, 0} {
		t.Fatalf("expected zero velocity, got %v", v)
	}
	if p := f.Position(); p != [3]float64{0, 0, 0} {
		t.Fatalf("expected zero position, got %v", p)
	}
}

func TestNewCovarianceSeed(t *testing.T) {
	f := newTestFilter()
	diag := f.CovarianceDiag()

	want := map[int]float64{
		xeRotN:       10,
		xeRotE:       10,
		xeRotD:       100,
		xeVelN:       1e9,
		xeGyroBiasN:  1e-3,
		xeAccelScale: 1e-1,
		xePosN:       1e9,
		xeTerrainAlt: 1e9,
		xeBaroBias:   1e9,
	}
	for idx, v := range want {
		if diag[idx] != v {
			t.Fatalf("P diag[%d] = %v, want %v", idx, diag[idx], v)
		}
	}
}
