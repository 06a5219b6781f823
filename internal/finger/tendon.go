package finger

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/kinematics"
)

// TendonExcursions returns s = Rθ, the displacement of every tendon from
// its length at zero joint angles.
func (m *Model) TendonExcursions() []float64 {
	var s mat.VecDense
	s.MulVec(m.routing, mat.NewVecDense(m.numJoints, cloneSlice(m.jointAngles)))
	return vecSlice(&s)
}

// JointTorques maps tendon tensions f to joint torques τ = Rᵀf.
func (m *Model) JointTorques(tensions []float64) ([]float64, error) {
	if len(tensions) != m.numTendons {
		return nil, fmt.Errorf("%w: tensions want %d values, got %d", ErrInvalidDimension, m.numTendons, len(tensions))
	}
	if err := checkFinite(tensions); err != nil {
		return nil, err
	}
	var tau mat.VecDense
	tau.MulVec(m.routing.T(), mat.NewVecDense(m.numTendons, cloneSlice(tensions)))
	return vecSlice(&tau), nil
}

// TendonTensions returns the minimum-norm tensions f with Rᵀf = τ. The
// result may contain negative entries; tendons can only pull, so callers
// add an internal tension from the null space of Rᵀ when that matters.
func (m *Model) TendonTensions(torques []float64) ([]float64, error) {
	if len(torques) != m.numJoints {
		return nil, fmt.Errorf("%w: torques want %d values, got %d", ErrInvalidDimension, m.numJoints, len(torques))
	}
	if err := checkFinite(torques); err != nil {
		return nil, err
	}
	var f mat.VecDense
	f.MulVec(kinematics.PseudoInverse(m.routing.T()), mat.NewVecDense(m.numJoints, cloneSlice(torques)))
	return vecSlice(&f), nil
}

func vecSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
