package rigid

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// VecToSo3 returns the skew-symmetric matrix [w].
func VecToSo3(w Vec3) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -w[2], w[1],
		w[2], 0, -w[0],
		-w[1], w[0], 0,
	})
}

// So3ToVec extracts w from a skew-symmetric matrix [w].
func So3ToVec(so3 mat.Matrix) Vec3 {
	return Vec3{so3.At(2, 1), so3.At(0, 2), so3.At(1, 0)}
}

// AxisAng3 splits exponential coordinates into a unit axis and an angle.
func AxisAng3(expc Vec3) (Vec3, float64) {
	theta := expc.Norm()
	return expc.Normalize(), theta
}

// Rodrigues returns the rotation of theta radians about axis w. The axis
// is normalised first; a zero axis or zero angle yields the identity.
func Rodrigues(w Vec3, theta float64) *mat.Dense {
	if NearZero(w.Norm()) || theta == 0 {
		return Identity(3)
	}
	return expUnitSo3(VecToSo3(w.Normalize()), theta)
}

// expUnitSo3 evaluates I + sin(θ)[ŵ] + (1-cos(θ))[ŵ]² for a unit-axis [ŵ].
func expUnitSo3(what *mat.Dense, theta float64) *mat.Dense {
	var sq mat.Dense
	sq.Mul(what, what)

	R := Identity(3)
	var term mat.Dense
	term.Scale(math.Sin(theta), what)
	R.Add(R, &term)
	term.Scale(1-math.Cos(theta), &sq)
	R.Add(R, &term)
	return R
}

// MatrixExp3 computes exp([w]θ) from the so(3) matrix [w]θ.
func MatrixExp3(so3 mat.Matrix) *mat.Dense {
	omgtheta := So3ToVec(so3)
	if NearZero(omgtheta.Norm()) {
		return Identity(3)
	}
	_, theta := AxisAng3(omgtheta)
	var what mat.Dense
	what.Scale(1/theta, so3)
	return expUnitSo3(&what, theta)
}

// MatrixLog3 computes the so(3) matrix [w]θ with exp([w]θ) = R, θ in [0, π].
// θ = atan2(‖R-Rᵀ‖/2√2, (tr R - 1)/2). Past a right angle the axis is read
// from the symmetric part of R and signed by the skew part.
func MatrixLog3(R mat.Matrix) *mat.Dense {
	var skew mat.Dense
	skew.Sub(R, R.T())
	s := mat.Norm(&skew, 2) / (2 * math.Sqrt2)
	c := (mat.Trace(R) - 1) / 2
	theta := math.Atan2(s, c)

	if theta < 1e-12 {
		skew.Scale(0.5, &skew)
		return &skew
	}
	if c >= 0 {
		skew.Scale(theta/(2*math.Sin(theta)), &skew)
		return &skew
	}

	// (R + Rᵀ)/2 - cI = (1 - c) ŵŵᵀ
	k := 0
	for i := 1; i < 3; i++ {
		if R.At(i, i) > R.At(k, k) {
			k = i
		}
	}
	var w Vec3
	for i := 0; i < 3; i++ {
		w[i] = (R.At(i, k) + R.At(k, i)) / 2
	}
	w[k] -= c
	w = w.Normalize()
	if w[0]*skew.At(2, 1)+w[1]*skew.At(0, 2)+w[2]*skew.At(1, 0) < 0 {
		w = w.Scale(-1)
	}
	return VecToSo3(w.Scale(theta))
}

// RotationLogarithm returns the exponential coordinates wθ of R.
func RotationLogarithm(R mat.Matrix) Vec3 {
	return So3ToVec(MatrixLog3(R))
}

// IsRotation reports whether R is orthonormal with determinant +1 within tol.
func IsRotation(R mat.Matrix, tol float64) bool {
	r, c := R.Dims()
	if r != 3 || c != 3 {
		return false
	}
	var rtr mat.Dense
	rtr.Mul(R.T(), R)
	if !mat.EqualApprox(&rtr, Identity(3), tol) {
		return false
	}
	return math.Abs(mat.Det(R)-1) <= tol
}
