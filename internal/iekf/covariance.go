package iekf

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	pDiagFloor = 1e-6
	pCap       = 1e9
)

// condition enforces I2 in place: every entry finite, diagonal at
// least pDiagFloor, every entry at most pCap, and byte-for-byte
// symmetry via mirroring the upper triangle into the lower (C6).
func (f *Filter) condition() {
	n := NXe
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := f.p.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			if v > pCap {
				v = pCap
			}
			f.p.SetSym(i, j, v)
		}
		if f.p.At(i, i) < pDiagFloor {
			f.p.SetSym(i, i, pDiagFloor)
		}
	}
}

// addToCovariance adds delta (an NXe x NXe matrix, typically the
// -K*H*P from a corrector) to P and re-conditions it.
func (f *Filter) addToCovariance(delta mat.Matrix) {
	for i := 0; i < NXe; i++ {
		for j := i; j < NXe; j++ {
			f.p.SetSym(i, j, f.p.At(i, j)+delta.At(i, j))
		}
	}
	f.condition()
}
