package iekf

import (
	"math"
	"testing"
)

func TestBoundXClampsAccelScale(t *testing.T) {
	f := newTestFilter()
	f.x[xAccelScale] = 5
	f.boundX()
	if f.x[xAccelScale] != xUpperBound[xAccelScale] {
		t.Fatalf("accel_scale = %v, want clamped to %v", f.x[xAccelScale], xUpperBound[xAccelScale])
	}

	f.x[xAccelScale] = -5
	f.boundX()
	if f.x[xAccelScale] != xLowerBound[xAccelScale] {
		t.Fatalf("accel_scale = %v, want clamped to %v", f.x[xAccelScale], xLowerBound[xAccelScale])
	}
}

func TestBoundXRepairsNonFinite(t *testing.T) {
	f := newTestFilter()
	f.x[xPosN] = math.NaN()
	f.x[xPosE] = math.Inf(1)
	f.boundX()
	if f.x[xPosN] != 0 || f.x[xPosE] != 0 {
		t.Fatalf("non-finite entries not repaired: pos_n=%v pos_e=%v", f.x[xPosN], f.x[xPosE])
	}
}

func TestBoundXFreezesGyroBias(t *testing.T) {
	f := newTestFilter()
	f.x[xGyroBiasBX] = 0.5
	f.boundX()
	if f.x[xGyroBiasBX] != 0 {
		t.Fatalf("gyro bias bound should freeze at 0, got %v", f.x[xGyroBiasBX])
	}
}
