package finger

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/rigid"
)

var flexionAxis = rigid.Vec3{0, 0, 1}

// planarGeometry lays the finger out along +x with every joint flexing
// about z. Joint i sits at the end of link i; the tip at the end of the
// last link.
func planarGeometry(lengths []float64) (home, space, body *mat.Dense) {
	n := len(lengths) - 1
	total := 0.0
	for _, l := range lengths {
		total += l
	}

	home = rigid.Translation(rigid.Vec3{total, 0, 0})
	space = mat.NewDense(6, n, nil)
	body = mat.NewDense(6, n, nil)

	x := 0.0
	for i := 0; i < n; i++ {
		x += lengths[i]
		setColumn(space, i, rigid.RevoluteAxis(flexionAxis, rigid.Vec3{x, 0, 0}))
		setColumn(body, i, rigid.RevoluteAxis(flexionAxis, rigid.Vec3{x - total, 0, 0}))
	}
	return home, space, body
}

// defaultRouting builds the n+1 layout when tendons == joints+1: flexor k
// spans joints 0..k and the last tendon is a common extensor. Any other
// tendon count yields a zero matrix.
func defaultRouting(tendons, joints int, radius float64) *mat.Dense {
	r := mat.NewDense(tendons, joints, nil)
	if tendons != joints+1 {
		return r
	}
	for k := 0; k < joints; k++ {
		for j := 0; j <= k; j++ {
			r.Set(k, j, radius)
		}
	}
	for j := 0; j < joints; j++ {
		r.Set(joints, j, -radius)
	}
	return r
}

// JointPositions returns the base origin, every joint and the fingertip in
// the flexion plane, computed from the link lengths and joint angles.
func (m *Model) JointPositions() []rigid.Vec3 {
	points := make([]rigid.Vec3, 0, m.numJoints+2)
	p := rigid.Vec3{}
	points = append(points, p)

	p = p.Add(rigid.Vec3{m.linkLengths[0], 0, 0})
	points = append(points, p)

	phi := 0.0
	for i := 0; i < m.numJoints; i++ {
		phi += m.jointAngles[i]
		l := m.linkLengths[i+1]
		p = p.Add(rigid.Vec3{l * math.Cos(phi), l * math.Sin(phi), 0})
		points = append(points, p)
	}
	return points
}

// Reach is the fingertip distance from the base when fully extended.
func (m *Model) Reach() float64 {
	total := 0.0
	for _, l := range m.linkLengths {
		total += l
	}
	return total
}

func setColumn(dst *mat.Dense, j int, V rigid.Twist) {
	for i := 0; i < 6; i++ {
		dst.Set(i, j, V[i])
	}
}
