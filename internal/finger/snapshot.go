package finger

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/kinematics"
)

// Snapshot is a serialisable copy of a model's configuration. Matrices are
// stored row-major.
type Snapshot struct {
	NumJoints   int                `json:"num_joints" cbor:"1,keyasint"`
	NumTendons  int                `json:"num_tendons" cbor:"2,keyasint"`
	JointAngles []float64          `json:"joint_angles" cbor:"3,keyasint"`
	LinkLengths []float64          `json:"link_lengths" cbor:"4,keyasint"`
	Home        []float64          `json:"home" cbor:"5,keyasint"`
	ScrewSpace  []float64          `json:"screw_space" cbor:"6,keyasint"`
	ScrewBody   []float64          `json:"screw_body" cbor:"7,keyasint"`
	Routing     []float64          `json:"routing" cbor:"8,keyasint"`
	IK          kinematics.Options `json:"ik" cbor:"9,keyasint"`
}

func (m *Model) Snapshot() Snapshot {
	return Snapshot{
		NumJoints:   m.numJoints,
		NumTendons:  m.numTendons,
		JointAngles: cloneSlice(m.jointAngles),
		LinkLengths: cloneSlice(m.linkLengths),
		Home:        rowMajor(m.home),
		ScrewSpace:  rowMajor(m.screwSpace),
		ScrewBody:   rowMajor(m.screwBody),
		Routing:     rowMajor(m.routing),
		IK:          m.ik,
	}
}

// FromSnapshot rebuilds a model, validating every field through the setters.
func FromSnapshot(s Snapshot) (*Model, error) {
	m, err := New(s.NumJoints, s.NumTendons)
	if err != nil {
		return nil, err
	}
	if err := m.SetLinkLengths(s.LinkLengths); err != nil {
		return nil, err
	}
	if err := m.SetJointAngles(s.JointAngles); err != nil {
		return nil, err
	}

	home, err := denseFrom(s.Home, 4, 4, "home")
	if err != nil {
		return nil, err
	}
	if err := m.SetHomePositionBodyFrame(home); err != nil {
		return nil, err
	}

	space, err := denseFrom(s.ScrewSpace, 6, s.NumJoints, "screw_space")
	if err != nil {
		return nil, err
	}
	if err := m.SetHomePositionScrewAxesSpace(space); err != nil {
		return nil, err
	}

	body, err := denseFrom(s.ScrewBody, 6, s.NumJoints, "screw_body")
	if err != nil {
		return nil, err
	}
	if err := m.SetHomePositionScrewAxesBody(body); err != nil {
		return nil, err
	}

	routing, err := denseFrom(s.Routing, s.NumTendons, s.NumJoints, "routing")
	if err != nil {
		return nil, err
	}
	if err := m.SetTendonRoutingMatrix(routing); err != nil {
		return nil, err
	}

	m.SetIKOptions(s.IK)
	return m, nil
}

func rowMajor(d *mat.Dense) []float64 {
	r, c := d.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, d.At(i, j))
		}
	}
	return out
}

func denseFrom(data []float64, r, c int, field string) (*mat.Dense, error) {
	if len(data) != r*c {
		return nil, fmt.Errorf("%w: %s wants %d values, got %d", ErrInvalidDimension, field, r*c, len(data))
	}
	return mat.NewDense(r, c, cloneSlice(data)), nil
}
