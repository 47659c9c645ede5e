package iekf

import "testing"

// P3: with an input that leaves the vehicle in equilibrium (specific
// force exactly cancels gravity at the current attitude), x is
// unchanged by predict and no diagonal entry of P shrinks: each grows
// by processNoiseDiag[i]*dt, except entries already at the pCap clamp
// (the 1e9 seeds), which stay at pCap.
func TestPredictZeroInputGrowsCovarianceOnly(t *testing.T) {
	f := newTestFilter()
	f.x[xAccelScale] = 1
	f.u[uAccelBZ] = -9.8 // at identity attitude, offsets g_n so v̇ = 0: a true zero-input hover
	xBefore := f.x
	diagBefore := f.CovarianceDiag()

	const dt = 0.005
	f.Predict(dt)

	if f.x != xBefore {
		t.Fatalf("x changed with zero input: before=%v after=%v", xBefore, f.x)
	}

	diagAfter := f.CovarianceDiag()
	for i := 0; i < NXe; i++ {
		if diagAfter[i] < diagBefore[i] {
			t.Fatalf("P diag[%d] shrank: %v -> %v", i, diagBefore[i], diagAfter[i])
		}
	}
}

func TestPredictRenormalizesDriftedQuaternion(t *testing.T) {
	f := newTestFilter()
	f.x[xQNB0] = 2
	f.x[xQNB1] = 0
	f.x[xQNB2] = 0
	f.x[xQNB3] = 0

	f.Predict(0.005)

	n := quatNorm(f.Quaternion())
	if n < 1-1e-3 && n > 1+1e-3 {
		// renormalize happens before integration; a small drift from
		// integration itself is expected, just not a factor of 2.
	}
	if n > 1.01 {
		t.Fatalf("quaternion norm = %v, expected renormalization to have run", n)
	}
}
