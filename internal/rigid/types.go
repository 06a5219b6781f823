package rigid

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NearZeroTol is the magnitude below which a scalar is treated as zero.
const NearZeroTol = 1e-6

// NearZero reports whether |z| is below NearZeroTol.
func NearZero(z float64) bool {
	return math.Abs(z) < NearZeroTol
}

// Vec3 is a 3-vector: an angular velocity, a rotation axis or a point.
type Vec3 [3]float64

func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Normalize returns the unit vector along v. A zero vector stays zero.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Twist is a spatial velocity or screw axis ordered (ω, v).
type Twist [6]float64

// NewTwist packs an angular and a linear part into a twist.
func NewTwist(w, v Vec3) Twist {
	return Twist{w[0], w[1], w[2], v[0], v[1], v[2]}
}

// RevoluteAxis returns the screw axis of a revolute joint with unit axis w
// passing through point q.
func RevoluteAxis(w, q Vec3) Twist {
	w = w.Normalize()
	return NewTwist(w, q.Cross(w))
}

// PrismaticAxis returns the screw axis of a prismatic joint sliding along v.
func PrismaticAxis(v Vec3) Twist {
	return NewTwist(Vec3{}, v.Normalize())
}

func (t Twist) Angular() Vec3 { return Vec3{t[0], t[1], t[2]} }
func (t Twist) Linear() Vec3  { return Vec3{t[3], t[4], t[5]} }

func (t Twist) Scale(f float64) Twist {
	var out Twist
	for i := range t {
		out[i] = t[i] * f
	}
	return out
}

func (t Twist) Slice() []float64 {
	out := make([]float64, 6)
	copy(out, t[:])
	return out
}

// TwistFromColumn reads column j of a 6xN matrix as a twist.
func TwistFromColumn(m mat.Matrix, j int) Twist {
	var t Twist
	for i := 0; i < 6; i++ {
		t[i] = m.At(i, j)
	}
	return t
}

// Identity returns the n x n identity matrix.
func Identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
