package iekf

import "testing"

func TestGateFailedThreshold(t *testing.T) {
	if gateFailed(3, betaTable[3]-0.01) {
		t.Fatal("beta just under threshold should not fail the gate")
	}
	if !gateFailed(3, betaTable[3]+0.01) {
		t.Fatal("beta just over threshold should fail the gate")
	}
}
