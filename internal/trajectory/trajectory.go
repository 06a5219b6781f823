// Package trajectory generates joint-space trajectories with polynomial
// time scaling.
package trajectory

import (
	"errors"
	"fmt"
)

var (
	ErrDimension = errors.New("trajectory: start and end differ in length")
	ErrSamples   = errors.New("trajectory: need at least two samples and a positive duration")
)

// Method selects the time scaling polynomial.
type Method int

const (
	Cubic Method = iota
	Quintic
)

func (m Method) String() string {
	switch m {
	case Cubic:
		return "cubic"
	case Quintic:
		return "quintic"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod accepts "cubic" or "quintic". An empty name is quintic, the
// configured default.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "cubic":
		return Cubic, nil
	case "quintic", "":
		return Quintic, nil
	default:
		return 0, fmt.Errorf("unknown time scaling: %s", s)
	}
}

// CubicTimeScaling is s(t) = 3(t/Tf)² - 2(t/Tf)³, zero velocity at both ends.
func CubicTimeScaling(Tf, t float64) float64 {
	r := t / Tf
	return 3*r*r - 2*r*r*r
}

// QuinticTimeScaling is s(t) = 10r³ - 15r⁴ + 6r⁵ with r = t/Tf, zero
// velocity and acceleration at both ends.
func QuinticTimeScaling(Tf, t float64) float64 {
	r := t / Tf
	return 10*r*r*r - 15*r*r*r*r + 6*r*r*r*r*r
}

func (m Method) scale(Tf, t float64) float64 {
	if m == Quintic {
		return QuinticTimeScaling(Tf, t)
	}
	return CubicTimeScaling(Tf, t)
}

// Waypoint is one sample of a trajectory.
type Waypoint struct {
	Time   float64
	Angles []float64
}

// JointTrajectory returns n evenly timed waypoints moving in a straight
// line from start to end over Tf seconds.
func JointTrajectory(start, end []float64, Tf float64, n int, method Method) ([]Waypoint, error) {
	if len(start) != len(end) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimension, len(start), len(end))
	}
	if n < 2 || Tf <= 0 {
		return nil, ErrSamples
	}

	dt := Tf / float64(n-1)
	traj := make([]Waypoint, n)
	for i := 0; i < n; i++ {
		t := dt * float64(i)
		s := method.scale(Tf, t)
		angles := make([]float64, len(start))
		for j := range start {
			angles[j] = start[j] + s*(end[j]-start[j])
		}
		traj[i] = Waypoint{Time: t, Angles: angles}
	}
	return traj, nil
}
