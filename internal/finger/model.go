package finger

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/kinematics"
	"github.com/san-kum/fingerkin/internal/rigid"
)

const (
	DefaultJoints  = 3
	DefaultTendons = DefaultJoints + 1

	// DefaultLinkLength is used for every link of a model built with New.
	DefaultLinkLength = 0.03

	// DefaultPulleyRadius is the moment arm, in metres, of the default routing.
	DefaultPulleyRadius = 0.005

	poseTol = 1e-6
)

// DefaultLinkLengths describes an index finger: metacarpal offset, then
// proximal, middle and distal phalanges.
var DefaultLinkLengths = []float64{0.05, 0.045, 0.025, 0.02}

type Model struct {
	numJoints  int
	numTendons int

	jointAngles []float64
	linkLengths []float64

	home       *mat.Dense // 4x4
	screwSpace *mat.Dense // 6xn
	screwBody  *mat.Dense // 6xn
	routing    *mat.Dense // m x n

	spaceJacobian *mat.Dense
	bodyJacobian  *mat.Dense

	ik kinematics.Options
}

// NewDefault returns a three-joint, four-tendon finger with the
// DefaultLinkLengths, zero joint angles and planar flexion geometry.
func NewDefault() *Model {
	m, err := New(DefaultJoints, DefaultTendons)
	if err != nil {
		panic(err)
	}
	if err := m.SetLinkLengths(DefaultLinkLengths); err != nil {
		panic(err)
	}
	return m
}

// New returns a finger with numJoints revolute flexion joints and
// numTendons tendons. Links default to DefaultLinkLength. With
// numTendons == numJoints+1 the routing matrix is the classic n+1 layout;
// otherwise it starts zeroed.
func New(numJoints, numTendons int) (*Model, error) {
	if numJoints < 1 {
		return nil, fmt.Errorf("%w: need at least one joint, got %d", ErrInvalidDimension, numJoints)
	}
	if numTendons < 1 {
		return nil, fmt.Errorf("%w: need at least one tendon, got %d", ErrInvalidDimension, numTendons)
	}

	m := &Model{
		numJoints:     numJoints,
		numTendons:    numTendons,
		jointAngles:   make([]float64, numJoints),
		routing:       defaultRouting(numTendons, numJoints, DefaultPulleyRadius),
		spaceJacobian: mat.NewDense(6, numJoints, nil),
		bodyJacobian:  mat.NewDense(6, numJoints, nil),
		ik:            kinematics.DefaultOptions(),
	}

	lengths := make([]float64, numJoints+1)
	for i := range lengths {
		lengths[i] = DefaultLinkLength
	}
	if err := m.SetLinkLengths(lengths); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) NumJoints() int  { return m.numJoints }
func (m *Model) NumTendons() int { return m.numTendons }

func (m *Model) SetJointAngles(angles []float64) error {
	if len(angles) != m.numJoints {
		return fmt.Errorf("%w: joint angles want %d values, got %d", ErrInvalidDimension, m.numJoints, len(angles))
	}
	if err := checkFinite(angles); err != nil {
		return err
	}
	copy(m.jointAngles, angles)
	return nil
}

func (m *Model) JointAngles() []float64 {
	return cloneSlice(m.jointAngles)
}

// SetLinkLengths replaces the link lengths (numJoints+1 values, base link
// first) and re-derives the home pose and both screw-axis sets for a planar
// finger flexing about z. Custom axes set earlier are overwritten.
func (m *Model) SetLinkLengths(lengths []float64) error {
	if len(lengths) != m.numJoints+1 {
		return fmt.Errorf("%w: link lengths want %d values, got %d", ErrInvalidDimension, m.numJoints+1, len(lengths))
	}
	if err := checkFinite(lengths); err != nil {
		return err
	}
	for i, l := range lengths {
		if l <= 0 {
			return fmt.Errorf("%w: link %d is %g", ErrNonPositiveLength, i, l)
		}
	}

	m.linkLengths = cloneSlice(lengths)
	m.home, m.screwSpace, m.screwBody = planarGeometry(m.linkLengths)
	return nil
}

func (m *Model) LinkLengths() []float64 {
	return cloneSlice(m.linkLengths)
}

// SetHomePositionBodyFrame sets the fingertip pose M at zero joint angles.
func (m *Model) SetHomePositionBodyFrame(pose mat.Matrix) error {
	if r, c := pose.Dims(); r != 4 || c != 4 {
		return fmt.Errorf("%w: home pose must be 4x4, got %dx%d", ErrInvalidDimension, r, c)
	}
	if err := rigid.ValidateSE3(pose, poseTol); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPose, err)
	}
	m.home = mat.DenseCopyOf(pose)
	return nil
}

func (m *Model) HomePosition() *mat.Dense {
	return mat.DenseCopyOf(m.home)
}

// SetHomePositionScrewAxesBody sets the 6xn body-frame screw axes, one
// column per joint.
func (m *Model) SetHomePositionScrewAxesBody(axes mat.Matrix) error {
	if err := m.checkAxes(axes); err != nil {
		return err
	}
	m.screwBody = mat.DenseCopyOf(axes)
	return nil
}

// SetHomePositionScrewAxesSpace sets the 6xn space-frame screw axes, one
// column per joint.
func (m *Model) SetHomePositionScrewAxesSpace(axes mat.Matrix) error {
	if err := m.checkAxes(axes); err != nil {
		return err
	}
	m.screwSpace = mat.DenseCopyOf(axes)
	return nil
}

func (m *Model) ScrewAxesBody() *mat.Dense  { return mat.DenseCopyOf(m.screwBody) }
func (m *Model) ScrewAxesSpace() *mat.Dense { return mat.DenseCopyOf(m.screwSpace) }

// SetTendonRoutingMatrix sets the tendons x joints routing matrix.
func (m *Model) SetTendonRoutingMatrix(routing mat.Matrix) error {
	r, c := routing.Dims()
	if r != m.numTendons || c != m.numJoints {
		return fmt.Errorf("%w: routing matrix must be %dx%d, got %dx%d",
			ErrInvalidDimension, m.numTendons, m.numJoints, r, c)
	}
	if err := checkFinite(mat.DenseCopyOf(routing).RawMatrix().Data); err != nil {
		return err
	}
	m.routing = mat.DenseCopyOf(routing)
	return nil
}

func (m *Model) TendonRoutingMatrix() *mat.Dense {
	return mat.DenseCopyOf(m.routing)
}

// SetIKOptions sets the inverse kinematics tolerances and iteration budget.
func (m *Model) SetIKOptions(opts kinematics.Options) {
	m.ik = opts
}

func (m *Model) IKOptions() kinematics.Options {
	return m.ik
}

// Clone returns a deep copy of the model, including cached Jacobians.
func (m *Model) Clone() *Model {
	return &Model{
		numJoints:     m.numJoints,
		numTendons:    m.numTendons,
		jointAngles:   cloneSlice(m.jointAngles),
		linkLengths:   cloneSlice(m.linkLengths),
		home:          mat.DenseCopyOf(m.home),
		screwSpace:    mat.DenseCopyOf(m.screwSpace),
		screwBody:     mat.DenseCopyOf(m.screwBody),
		routing:       mat.DenseCopyOf(m.routing),
		spaceJacobian: mat.DenseCopyOf(m.spaceJacobian),
		bodyJacobian:  mat.DenseCopyOf(m.bodyJacobian),
		ik:            m.ik,
	}
}

func (m *Model) checkAxes(axes mat.Matrix) error {
	r, c := axes.Dims()
	if r != 6 || c != m.numJoints {
		return fmt.Errorf("%w: screw axes must be 6x%d, got %dx%d", ErrInvalidDimension, m.numJoints, r, c)
	}
	return checkFinite(mat.DenseCopyOf(axes).RawMatrix().Data)
}

func checkFinite(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: element %d", ErrInvalidValue, i)
		}
	}
	return nil
}

func cloneSlice(s []float64) []float64 {
	c := make([]float64, len(s))
	copy(c, s)
	return c
}
