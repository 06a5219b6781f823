package sweep

import "github.com/san-kum/fingerkin/internal/rigid"

// Sample is the finger state recorded at one step.
type Sample struct {
	Time           float64
	JointAngles    []float64
	Tip            rigid.Vec3
	Excursions     []float64
	Manipulability float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

// Config drives resolved-rate runs.
type Config struct {
	Dt       float64
	Duration float64
	// Integrator is "rk4" (default) or "euler".
	Integrator string
}

func DefaultConfig() Config {
	return Config{
		Dt:         0.01,
		Duration:   1.0,
		Integrator: "rk4",
	}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}
