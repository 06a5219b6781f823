package kinematics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/rigid"
)

const (
	DefaultEOmg          = 1e-6
	DefaultEV            = 1e-6
	DefaultMaxIterations = 100

	// singular values below pinvRcond times the largest are dropped.
	pinvRcond = 1e-10
)

// Options bounds the Newton-Raphson inverse kinematics iteration.
// Zero fields take the package defaults.
type Options struct {
	EOmg          float64 `yaml:"eomg" json:"eomg"`
	EV            float64 `yaml:"ev" json:"ev"`
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
}

func DefaultOptions() Options {
	return Options{
		EOmg:          DefaultEOmg,
		EV:            DefaultEV,
		MaxIterations: DefaultMaxIterations,
	}
}

func (o Options) withDefaults() Options {
	if o.EOmg <= 0 {
		o.EOmg = DefaultEOmg
	}
	if o.EV <= 0 {
		o.EV = DefaultEV
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Report describes how an inverse kinematics solve ended.
type Report struct {
	Iterations   int
	AngularError float64
	LinearError  float64
}

func (r Report) within(o Options) bool {
	return r.AngularError <= o.EOmg && r.LinearError <= o.EV
}

// IKinBody solves for joint values placing the end effector at T, starting
// from theta0 and iterating θ ← θ + Jb⁺ Vb on the body-frame twist error.
func IKinBody(Blist, M, T mat.Matrix, theta0 []float64, opts Options) ([]float64, Report, error) {
	twist := func(theta []float64) (rigid.Twist, error) {
		Tsb, err := FKinBody(M, Blist, theta)
		if err != nil {
			return rigid.Twist{}, err
		}
		return bodyError(Tsb, T), nil
	}
	jac := func(theta []float64) (*mat.Dense, error) {
		return JacobianBody(Blist, theta)
	}
	return newton(T, theta0, opts, twist, jac)
}

// IKinSpace is the space-frame counterpart of IKinBody: the twist error is
// mapped to the space frame through Ad(Tsb) and paired with Js.
func IKinSpace(Slist, M, T mat.Matrix, theta0 []float64, opts Options) ([]float64, Report, error) {
	twist := func(theta []float64) (rigid.Twist, error) {
		Tsb, err := FKinSpace(M, Slist, theta)
		if err != nil {
			return rigid.Twist{}, err
		}
		return rigid.AdjointTwist(Tsb, bodyError(Tsb, T)), nil
	}
	jac := func(theta []float64) (*mat.Dense, error) {
		return JacobianSpace(Slist, theta)
	}
	return newton(T, theta0, opts, twist, jac)
}

func bodyError(Tsb, T mat.Matrix) rigid.Twist {
	var Tbd mat.Dense
	Tbd.Mul(rigid.TransInv(Tsb), T)
	return rigid.Se3ToVec(rigid.MatrixLog6(&Tbd))
}

func newton(
	T mat.Matrix,
	theta0 []float64,
	opts Options,
	twist func([]float64) (rigid.Twist, error),
	jac func([]float64) (*mat.Dense, error),
) ([]float64, Report, error) {
	if r, c := T.Dims(); r != 4 || c != 4 {
		return nil, Report{}, ErrDimension
	}
	opts = opts.withDefaults()

	theta := make([]float64, len(theta0))
	copy(theta, theta0)

	V, err := twist(theta)
	if err != nil {
		return nil, Report{}, err
	}
	report := Report{AngularError: V.Angular().Norm(), LinearError: V.Linear().Norm()}

	for !report.within(opts) && report.Iterations < opts.MaxIterations {
		J, err := jac(theta)
		if err != nil {
			return nil, report, err
		}

		var step mat.VecDense
		step.MulVec(PseudoInverse(J), mat.NewVecDense(6, V.Slice()))
		for i := range theta {
			theta[i] += step.AtVec(i)
		}
		report.Iterations++

		if V, err = twist(theta); err != nil {
			return nil, report, err
		}
		report.AngularError = V.Angular().Norm()
		report.LinearError = V.Linear().Norm()
	}

	if !report.within(opts) {
		last := make([]float64, len(theta))
		copy(last, theta)
		return theta, report, &ConvergenceError{
			Iterations:   report.Iterations,
			AngularError: report.AngularError,
			LinearError:  report.LinearError,
			Last:         last,
		}
	}
	return theta, report, nil
}

// PseudoInverse returns the Moore-Penrose pseudo-inverse of a via SVD.
func PseudoInverse(a mat.Matrix) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(c, r, nil)

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return out
	}
	s := svd.Values(nil)
	if len(s) == 0 || s[0] == 0 {
		return out
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	sinv := mat.NewDense(len(s), len(s), nil)
	cutoff := pinvRcond * s[0]
	for i, sv := range s {
		if sv > cutoff {
			sinv.Set(i, i, 1/sv)
		}
	}

	var vs mat.Dense
	vs.Mul(&v, sinv)
	out.Mul(&vs, u.T())
	return out
}
