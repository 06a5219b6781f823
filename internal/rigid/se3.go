package rigid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RpToTrans builds the homogeneous transform [[R, p], [0, 1]].
func RpToTrans(R mat.Matrix, p Vec3) *mat.Dense {
	T := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			T.Set(i, j, R.At(i, j))
		}
		T.Set(i, 3, p[i])
	}
	T.Set(3, 3, 1)
	return T
}

// Translation returns a pure translation transform.
func Translation(p Vec3) *mat.Dense {
	return RpToTrans(Identity(3), p)
}

// TransToRp splits a homogeneous transform into its rotation and position.
func TransToRp(T mat.Matrix) (*mat.Dense, Vec3) {
	R := mat.NewDense(3, 3, nil)
	R.Copy(T)
	return R, Vec3{T.At(0, 3), T.At(1, 3), T.At(2, 3)}
}

// TransInv inverts a rigid transform using its structure: [[Rᵀ, -Rᵀp], [0, 1]].
func TransInv(T mat.Matrix) *mat.Dense {
	R, p := TransToRp(T)
	var rt mat.Dense
	rt.CloneFrom(R.T())
	return RpToTrans(&rt, mulVec3(&rt, p).Scale(-1))
}

// VecToSe3 returns the 4x4 se(3) matrix [V].
func VecToSe3(V Twist) *mat.Dense {
	out := mat.NewDense(4, 4, nil)
	out.Slice(0, 3, 0, 3).(*mat.Dense).Copy(VecToSo3(V.Angular()))
	out.Set(0, 3, V[3])
	out.Set(1, 3, V[4])
	out.Set(2, 3, V[5])
	return out
}

// Se3ToVec extracts the twist from an se(3) matrix.
func Se3ToVec(se3 mat.Matrix) Twist {
	return Twist{
		se3.At(2, 1), se3.At(0, 2), se3.At(1, 0),
		se3.At(0, 3), se3.At(1, 3), se3.At(2, 3),
	}
}

// Adjoint returns the 6x6 adjoint representation [[R, 0], [[p]R, R]] of T.
func Adjoint(T mat.Matrix) *mat.Dense {
	R, p := TransToRp(T)
	var pR mat.Dense
	pR.Mul(VecToSo3(p), R)

	ad := mat.NewDense(6, 6, nil)
	ad.Slice(0, 3, 0, 3).(*mat.Dense).Copy(R)
	ad.Slice(3, 6, 0, 3).(*mat.Dense).Copy(&pR)
	ad.Slice(3, 6, 3, 6).(*mat.Dense).Copy(R)
	return ad
}

// AdjointTwist maps twist V through the adjoint of T.
func AdjointTwist(T mat.Matrix, V Twist) Twist {
	var out mat.VecDense
	out.MulVec(Adjoint(T), mat.NewVecDense(6, V.Slice()))
	var t Twist
	for i := range t {
		t[i] = out.AtVec(i)
	}
	return t
}

// MatrixExp6 computes exp([S]θ) from the se(3) matrix [S]θ.
func MatrixExp6(se3 mat.Matrix) *mat.Dense {
	so3 := mat.NewDense(3, 3, nil)
	so3.Copy(se3)
	v := Vec3{se3.At(0, 3), se3.At(1, 3), se3.At(2, 3)}

	omgtheta := So3ToVec(so3)
	if NearZero(omgtheta.Norm()) {
		return RpToTrans(Identity(3), v)
	}

	_, theta := AxisAng3(omgtheta)
	var what mat.Dense
	what.Scale(1/theta, so3)
	var sq mat.Dense
	sq.Mul(&what, &what)

	// G(θ) = Iθ + (1-cos θ)[ŵ] + (θ - sin θ)[ŵ]²
	G := Identity(3)
	G.Scale(theta, G)
	var term mat.Dense
	term.Scale(1-math.Cos(theta), &what)
	G.Add(G, &term)
	term.Scale(theta-math.Sin(theta), &sq)
	G.Add(G, &term)

	p := mulVec3(G, v).Scale(1 / theta)
	return RpToTrans(expUnitSo3(&what, theta), p)
}

// ScrewExp computes exp([S]θ) for screw axis S and joint value theta.
func ScrewExp(S Twist, theta float64) *mat.Dense {
	return MatrixExp6(VecToSe3(S.Scale(theta)))
}

// MatrixLog6 computes the se(3) matrix [S]θ with exp([S]θ) = T.
func MatrixLog6(T mat.Matrix) *mat.Dense {
	R, p := TransToRp(T)
	omgmat := MatrixLog3(R)

	out := mat.NewDense(4, 4, nil)
	if mat.Norm(omgmat, 1) == 0 {
		out.Set(0, 3, p[0])
		out.Set(1, 3, p[1])
		out.Set(2, 3, p[2])
		return out
	}

	theta := So3ToVec(omgmat).Norm()

	// G⁻¹(θ)/θ applied to p.
	var sq mat.Dense
	sq.Mul(omgmat, omgmat)
	ginv := Identity(3)
	var term mat.Dense
	term.Scale(-0.5, omgmat)
	ginv.Add(ginv, &term)
	term.Scale((1/theta-1/math.Tan(theta/2)/2)/theta, &sq)
	ginv.Add(ginv, &term)

	out.Slice(0, 3, 0, 3).(*mat.Dense).Copy(omgmat)
	v := mulVec3(ginv, p)
	out.Set(0, 3, v[0])
	out.Set(1, 3, v[1])
	out.Set(2, 3, v[2])
	return out
}

// ValidateSE3 checks that T is a 4x4 rigid transform within tol.
func ValidateSE3(T mat.Matrix, tol float64) error {
	r, c := T.Dims()
	if r != 4 || c != 4 {
		return fmt.Errorf("%w: want 4x4, got %dx%d", ErrShape, r, c)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if v := T.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: entry (%d,%d) is %v", ErrNotSE3, i, j, v)
			}
		}
	}
	if math.Abs(T.At(3, 0))+math.Abs(T.At(3, 1))+math.Abs(T.At(3, 2)) > tol || math.Abs(T.At(3, 3)-1) > tol {
		return fmt.Errorf("%w: bottom row must be [0 0 0 1]", ErrNotSE3)
	}
	R, _ := TransToRp(T)
	if !IsRotation(R, tol) {
		return fmt.Errorf("%w: rotation block is not orthonormal", ErrNotSE3)
	}
	return nil
}

// Position returns the translation part of a homogeneous transform.
func Position(T mat.Matrix) Vec3 {
	return Vec3{T.At(0, 3), T.At(1, 3), T.At(2, 3)}
}

func mulVec3(m mat.Matrix, v Vec3) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = m.At(i, 0)*v[0] + m.At(i, 1)*v[1] + m.At(i, 2)*v[2]
	}
	return out
}
