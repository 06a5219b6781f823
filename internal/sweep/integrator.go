package sweep

import "fmt"

// stepper advances x by dt along the rate function f.
type stepper interface {
	step(f rateFunc, x []float64, dt float64) ([]float64, error)
}

type rateFunc func([]float64) ([]float64, error)

func newStepper(name string) (stepper, error) {
	switch name {
	case "", "rk4":
		return newRK4(), nil
	case "euler":
		return euler{}, nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}

type euler struct{}

func (euler) step(f rateFunc, x []float64, dt float64) ([]float64, error) {
	dx, err := f(x)
	if err != nil {
		return nil, err
	}
	result := make([]float64, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result, nil
}

type rk4 struct {
	k1, k2, k3, k4 []float64
	scratch        []float64
}

func newRK4() *rk4 {
	return &rk4{}
}

func (r *rk4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make([]float64, n)
		r.k2 = make([]float64, n)
		r.k3 = make([]float64, n)
		r.k4 = make([]float64, n)
		r.scratch = make([]float64, n)
	}
}

func (r *rk4) step(f rateFunc, x []float64, dt float64) ([]float64, error) {
	n := len(x)
	r.ensureScratch(n)

	if err := eval(f, x, r.k1); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	if err := eval(f, r.scratch, r.k2); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	if err := eval(f, r.scratch, r.k3); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	if err := eval(f, r.scratch, r.k4); err != nil {
		return nil, err
	}

	result := make([]float64, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return result, nil
}

func eval(f rateFunc, x, dst []float64) error {
	dx, err := f(x)
	if err != nil {
		return err
	}
	copy(dst, dx)
	return nil
}
