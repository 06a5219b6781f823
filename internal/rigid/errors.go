package rigid

import "errors"

var (
	// ErrNotSE3 indicates a 4x4 matrix that is not a rigid transform.
	ErrNotSE3 = errors.New("rigid: matrix is not a valid SE(3) transform")

	// ErrShape indicates a matrix with unexpected dimensions.
	ErrShape = errors.New("rigid: unexpected matrix shape")
)
