package kinematics

import (
	"errors"
	"fmt"
)

var (
	// ErrDimension indicates screw axes, joint values or transforms whose
	// shapes do not agree.
	ErrDimension = errors.New("kinematics: dimension mismatch")

	// ErrConvergence indicates the inverse kinematics iteration ran out of
	// steps before meeting its tolerances.
	ErrConvergence = errors.New("kinematics: inverse kinematics did not converge")
)

// ConvergenceError carries the state of a failed inverse kinematics solve.
type ConvergenceError struct {
	Iterations   int
	AngularError float64
	LinearError  float64
	Last         []float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s after %d iterations (|w|=%.3g, |v|=%.3g)",
		ErrConvergence, e.Iterations, e.AngularError, e.LinearError)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}
