package iekf

import "math"

// quaternions here are [4]float64{w, x, y, z}, scalar-first, exactly
// as the nominal state stores q_nb. Kept as plain float math rather
// than gonum's num/quat: the filter needs a hat()/skew helper and a
// body<->nav vector-rotate convenience that quat.Number doesn't
// provide, and the original C++ (Quaternion<float>/Vector3<float>) is
// itself just inline float arithmetic -- there is nothing generic to
// gain from a wrapper type here.

func quatNorm(q [4]float64) float64 {
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
}

func quatNormalize(q [4]float64) [4]float64 {
	n := quatNorm(q)
	if n == 0 {
		return [4]float64{1, 0, 0, 0}
	}
	return [4]float64{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

// quatMul computes a*b (Hamilton product).
func quatMul(a, b [4]float64) [4]float64 {
	return [4]float64{
		a[0]*b[0] - a[1]*b[1] - a[2]*b[2] - a[3]*b[3],
		a[0]*b[1] + a[1]*b[0] + a[2]*b[3] - a[3]*b[2],
		a[0]*b[2] - a[1]*b[3] + a[2]*b[0] + a[3]*b[1],
		a[0]*b[3] + a[1]*b[2] - a[2]*b[1] + a[3]*b[0],
	}
}

func quatConj(q [4]float64) [4]float64 {
	return [4]float64{q[0], -q[1], -q[2], -q[3]}
}

// quatConjugateRotate returns q*v*q_conj, i.e. rotates v (a pure
// quaternion, zero scalar part) by q. Used both for q_nb.conjugate(v)
// (body->nav, q is q_nb) and q_nb*.conjugate(v) style expressions
// (nav->body, pass quatConj(q_nb)).
func quatConjugateRotate(q [4]float64, v [3]float64) [3]float64 {
	vq := [4]float64{0, v[0], v[1], v[2]}
	r := quatMul(quatMul(q, vq), quatConj(q))
	return [3]float64{r[1], r[2], r[3]}
}

// scale3 multiplies a vector by a scalar.
func scale3(v [3]float64, s float64) [3]float64 {
	return [3]float64{v[0] * s, v[1] * s, v[2] * s}
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func add3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func norm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func unit3(v [3]float64) [3]float64 {
	n := norm3(v)
	if n == 0 {
		return v
	}
	return scale3(v, 1/n)
}

// hat returns the skew-symmetric cross-product matrix [v]_x such
// that hat(v)*w == v cross w, as a flat row-major 3x3.
func hat(v [3]float64) [3][3]float64 {
	return [3][3]float64{
		{0, -v[2], v[1]},
		{v[2], 0, -v[0]},
		{-v[1], v[0], 0},
	}
}

// eulerYawZ returns the Z-Euler (yaw) angle of a body->nav quaternion
// using the standard ZYX convention.
func eulerYawZ(q [4]float64) float64 {
	w, x, y, z := q[0], q[1], q[2], q[3]
	return math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
}
