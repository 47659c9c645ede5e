package iekf

import "gonum.org/v1/gonum/mat"

// correctionResult bundles the outputs of a single linear
// measurement update: the error-state correction, the covariance
// change dP = -K H P (already negated, so callers add it to P), and
// the normalized innovation used for gating.
type correctionResult struct {
	dxe  [NXe]float64
	dp   *mat.Dense
	beta float64
}

// kalmanUpdate runs the shared linear correction every corrector in
// §4.4 reduces to: S = H P Hᵀ + R, K = P Hᵀ S⁻¹, dxe = K r,
// dP = -K H P, beta = rᵀ S⁻¹ r (C4).
//
// h is k x NXe, r is k x k symmetric, res is the k-length residual.
func kalmanUpdate(p *mat.SymDense, h mat.Matrix, r mat.Symmetric, res []float64) correctionResult {
	k, _ := h.Dims()

	var ph mat.Dense
	ph.Mul(p, h.T()) // NXe x k

	var s mat.Dense
	s.Mul(h, &ph) // k x k
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			s.Set(i, j, s.At(i, j)+r.At(i, j))
		}
	}

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		// Singular innovation covariance: skip the update by
		// returning a zero correction rather than propagating NaNs.
		return correctionResult{dp: mat.NewDense(NXe, NXe, nil)}
	}

	var kGain mat.Dense
	kGain.Mul(&ph, &sInv) // NXe x k

	resVec := mat.NewVecDense(k, res)

	var dxeVec mat.VecDense
	dxeVec.MulVec(&kGain, resVec)

	var dxe [NXe]float64
	for i := 0; i < NXe; i++ {
		dxe[i] = dxeVec.AtVec(i)
	}

	var kh mat.Dense
	kh.Mul(&kGain, h) // NXe x NXe

	var dp mat.Dense
	dp.Mul(&kh, p)
	dp.Scale(-1, &dp)

	var sInvRes mat.VecDense
	sInvRes.MulVec(&sInv, resVec)
	beta := mat.Dot(resVec, &sInvRes)

	return correctionResult{dxe: dxe, dp: &dp, beta: beta}
}
