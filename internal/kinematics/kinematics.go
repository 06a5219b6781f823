// Package kinematics implements product-of-exponentials kinematics for
// serial open chains.
//
// Screw axes are passed as 6xN matrices, one column per joint, ordered
// (ω, v). Space-frame axes are expressed in the fixed base frame with the
// chain at its home configuration; body-frame axes are expressed in the
// end-effector frame at home.
package kinematics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/rigid"
)

// FKinSpace computes T = e^[S1]θ1 ··· e^[Sn]θn M.
func FKinSpace(M, Slist mat.Matrix, theta []float64) (*mat.Dense, error) {
	if err := checkChain(M, Slist, theta); err != nil {
		return nil, err
	}

	T := rigid.Identity(4)
	for i := range theta {
		T.Mul(T, rigid.ScrewExp(rigid.TwistFromColumn(Slist, i), theta[i]))
	}
	T.Mul(T, M)
	return T, nil
}

// FKinBody computes T = M e^[B1]θ1 ··· e^[Bn]θn.
func FKinBody(M, Blist mat.Matrix, theta []float64) (*mat.Dense, error) {
	if err := checkChain(M, Blist, theta); err != nil {
		return nil, err
	}

	T := mat.DenseCopyOf(M)
	for i := range theta {
		T.Mul(T, rigid.ScrewExp(rigid.TwistFromColumn(Blist, i), theta[i]))
	}
	return T, nil
}

// JacobianSpace returns the 6xN space Jacobian at theta. Column i is
// Ad(e^[S1]θ1 ··· e^[S(i-1)]θ(i-1)) Si.
func JacobianSpace(Slist mat.Matrix, theta []float64) (*mat.Dense, error) {
	if err := checkAxes(Slist, theta); err != nil {
		return nil, err
	}

	n := len(theta)
	J := mat.NewDense(6, n, nil)
	T := rigid.Identity(4)
	for i := 0; i < n; i++ {
		if i > 0 {
			T.Mul(T, rigid.ScrewExp(rigid.TwistFromColumn(Slist, i-1), theta[i-1]))
		}
		setColumn(J, i, rigid.AdjointTwist(T, rigid.TwistFromColumn(Slist, i)))
	}
	return J, nil
}

// JacobianBody returns the 6xN body Jacobian at theta. Column i is
// Ad(e^-[Bn]θn ··· e^-[B(i+1)]θ(i+1)) Bi.
func JacobianBody(Blist mat.Matrix, theta []float64) (*mat.Dense, error) {
	if err := checkAxes(Blist, theta); err != nil {
		return nil, err
	}

	n := len(theta)
	J := mat.NewDense(6, n, nil)
	T := rigid.Identity(4)
	for i := n - 1; i >= 0; i-- {
		if i < n-1 {
			T.Mul(T, rigid.ScrewExp(rigid.TwistFromColumn(Blist, i+1), -theta[i+1]))
		}
		setColumn(J, i, rigid.AdjointTwist(T, rigid.TwistFromColumn(Blist, i)))
	}
	return J, nil
}

func setColumn(J *mat.Dense, j int, V rigid.Twist) {
	for i := 0; i < 6; i++ {
		J.Set(i, j, V[i])
	}
}

func checkAxes(axes mat.Matrix, theta []float64) error {
	r, c := axes.Dims()
	if r != 6 {
		return fmt.Errorf("%w: screw axes need 6 rows, got %d", ErrDimension, r)
	}
	if c != len(theta) {
		return fmt.Errorf("%w: %d screw axes for %d joint values", ErrDimension, c, len(theta))
	}
	return nil
}

func checkChain(M, axes mat.Matrix, theta []float64) error {
	if r, c := M.Dims(); r != 4 || c != 4 {
		return fmt.Errorf("%w: home pose must be 4x4, got %dx%d", ErrDimension, r, c)
	}
	return checkAxes(axes, theta)
}
