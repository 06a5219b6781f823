package finger

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/kinematics"
	"github.com/san-kum/fingerkin/internal/rigid"
)

// Solution is the result of an inverse kinematics solve.
type Solution struct {
	JointAngles  []float64
	Iterations   int
	AngularError float64
	LinearError  float64
}

// ForwardKinematicsSpace returns the fingertip pose from the current joint
// angles using the space-frame product of exponentials.
func (m *Model) ForwardKinematicsSpace() (*mat.Dense, error) {
	T, err := kinematics.FKinSpace(m.home, m.screwSpace, m.jointAngles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimension, err)
	}
	return T, nil
}

// ForwardKinematicsBody returns the fingertip pose from the current joint
// angles using the body-frame product of exponentials.
func (m *Model) ForwardKinematicsBody() (*mat.Dense, error) {
	T, err := kinematics.FKinBody(m.home, m.screwBody, m.jointAngles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimension, err)
	}
	return T, nil
}

// TipPosition returns the fingertip position from space-frame forward kinematics.
func (m *Model) TipPosition() (rigid.Vec3, error) {
	T, err := m.ForwardKinematicsSpace()
	if err != nil {
		return rigid.Vec3{}, err
	}
	return rigid.Position(T), nil
}

// InverseKinematicsSpace solves for joint angles reaching target, starting
// from the current joint angles. The model is left unchanged.
func (m *Model) InverseKinematicsSpace(target mat.Matrix) (Solution, error) {
	if err := checkTarget(target); err != nil {
		return Solution{}, err
	}
	theta, report, err := kinematics.IKinSpace(m.screwSpace, m.home, target, m.jointAngles, m.ik)
	return solution(theta, report, err)
}

// InverseKinematicsBody is InverseKinematicsSpace using the body-frame
// twist error and Jacobian.
func (m *Model) InverseKinematicsBody(target mat.Matrix) (Solution, error) {
	if err := checkTarget(target); err != nil {
		return Solution{}, err
	}
	theta, report, err := kinematics.IKinBody(m.screwBody, m.home, target, m.jointAngles, m.ik)
	return solution(theta, report, err)
}

func checkTarget(target mat.Matrix) error {
	if r, c := target.Dims(); r != 4 || c != 4 {
		return fmt.Errorf("%w: target pose must be 4x4, got %dx%d", ErrInvalidDimension, r, c)
	}
	if err := rigid.ValidateSE3(target, poseTol); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPose, err)
	}
	return nil
}

func solution(theta []float64, report kinematics.Report, err error) (Solution, error) {
	sol := Solution{
		JointAngles:  theta,
		Iterations:   report.Iterations,
		AngularError: report.AngularError,
		LinearError:  report.LinearError,
	}
	switch {
	case err == nil:
		return sol, nil
	case errors.Is(err, kinematics.ErrConvergence):
		return sol, fmt.Errorf("%w: %w", ErrConvergenceFailure, err)
	default:
		return sol, fmt.Errorf("%w: %w", ErrInvalidDimension, err)
	}
}

// CalculateFingerSpaceJacobian computes the 6xn space Jacobian at the
// current joint angles, caches it and returns a copy.
func (m *Model) CalculateFingerSpaceJacobian() (*mat.Dense, error) {
	J, err := kinematics.JacobianSpace(m.screwSpace, m.jointAngles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimension, err)
	}
	m.spaceJacobian = J
	return mat.DenseCopyOf(J), nil
}

// CalculateFingerBodyJacobian computes the 6xn body Jacobian at the current
// joint angles, caches it and returns a copy.
func (m *Model) CalculateFingerBodyJacobian() (*mat.Dense, error) {
	J, err := kinematics.JacobianBody(m.screwBody, m.jointAngles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimension, err)
	}
	m.bodyJacobian = J
	return mat.DenseCopyOf(J), nil
}

// FingerSpaceJacobian returns the most recently calculated space Jacobian,
// or zeros if none has been calculated.
func (m *Model) FingerSpaceJacobian() *mat.Dense {
	return mat.DenseCopyOf(m.spaceJacobian)
}

// FingerBodyJacobian returns the most recently calculated body Jacobian,
// or zeros if none has been calculated.
func (m *Model) FingerBodyJacobian() *mat.Dense {
	return mat.DenseCopyOf(m.bodyJacobian)
}

// Manipulability returns sqrt(det(Jp Jpᵀ)) for the fingertip linear
// velocity Jacobian Jp restricted to the flexion plane (x, y). A
// single-joint finger uses Jpᵀ Jp instead. The cached Jacobians are not
// touched.
func (m *Model) Manipulability() (float64, error) {
	Jb, err := kinematics.JacobianBody(m.screwBody, m.jointAngles)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDimension, err)
	}
	T, err := m.ForwardKinematicsBody()
	if err != nil {
		return 0, err
	}
	R, _ := rigid.TransToRp(T)

	var Jv mat.Dense
	Jv.Mul(R, Jb.Slice(3, 6, 0, m.numJoints))
	Jp := Jv.Slice(0, 2, 0, m.numJoints)

	var gram mat.Dense
	if m.numJoints >= 2 {
		gram.Mul(Jp, Jp.T())
	} else {
		gram.Mul(Jp.T(), Jp)
	}
	return math.Sqrt(math.Max(0, mat.Det(&gram))), nil
}
