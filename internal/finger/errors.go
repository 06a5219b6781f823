package finger

import "errors"

var (
	// ErrInvalidDimension indicates an input whose length or shape does not
	// match the joint or tendon count of the model.
	ErrInvalidDimension = errors.New("finger: invalid dimension")

	// ErrConvergenceFailure indicates inverse kinematics did not reach its
	// tolerances within the iteration budget.
	ErrConvergenceFailure = errors.New("finger: inverse kinematics convergence failure")

	// ErrNonPositiveLength indicates a link length that is zero or negative.
	ErrNonPositiveLength = errors.New("finger: link lengths must be positive")

	// ErrInvalidPose indicates a home or target pose that is not a rigid transform.
	ErrInvalidPose = errors.New("finger: pose is not a valid rigid transform")

	// ErrInvalidValue indicates NaN or Inf in an input.
	ErrInvalidValue = errors.New("finger: value is NaN or Inf")
)
