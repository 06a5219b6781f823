// Package sweep drives a finger model through a motion and records the
// fingertip, tendon excursions and manipulability at every step.
package sweep

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/kinematics"
	"github.com/san-kum/fingerkin/internal/rigid"
	"github.com/san-kum/fingerkin/internal/trajectory"
)

// Runner moves the model it wraps; after a run the model holds the joint
// angles of the last sample.
type Runner struct {
	model     *finger.Model
	metrics   []Metric
	observers []Observer
}

func New(model *finger.Model) *Runner {
	return &Runner{
		model:     model,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// RunTrajectory visits every waypoint in order.
func (r *Runner) RunTrajectory(ctx context.Context, traj []trajectory.Waypoint) (*Result, error) {
	if len(traj) == 0 {
		return nil, fmt.Errorf("empty trajectory")
	}

	result := r.newResult(len(traj))
	for _, wp := range traj {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := r.model.SetJointAngles(wp.Angles); err != nil {
			return result, err
		}
		if err := r.record(result, wp.Time); err != nil {
			return result, err
		}
	}
	r.finish(result)
	return result, nil
}

// RunResolvedRate moves the fingertip with the constant body twist V by
// integrating θ̇ = Jb⁺(θ) V with the configured integrator (RK4 by default).
func (r *Runner) RunResolvedRate(ctx context.Context, V rigid.Twist, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	integ, err := newStepper(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := r.newResult(steps + 1)

	rate := resolvedRate(r.model.ScrewAxesBody(), V)
	theta := r.model.JointAngles()
	t := 0.0
	if err := r.record(result, t); err != nil {
		return result, err
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		next, err := integ.step(rate, theta, cfg.Dt)
		if err != nil {
			return result, fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}
		theta = next
		t += cfg.Dt
		if err := r.model.SetJointAngles(theta); err != nil {
			return result, fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}
		if err := r.record(result, t); err != nil {
			return result, err
		}
		result.StepsTaken++
	}

	r.finish(result)
	return result, nil
}

// resolvedRate returns θ ↦ Jb⁺(θ) V for the body screw axes blist.
func resolvedRate(blist mat.Matrix, V rigid.Twist) func([]float64) ([]float64, error) {
	twist := mat.NewVecDense(6, V.Slice())
	return func(theta []float64) ([]float64, error) {
		Jb, err := kinematics.JacobianBody(blist, theta)
		if err != nil {
			return nil, err
		}
		var dtheta mat.VecDense
		dtheta.MulVec(kinematics.PseudoInverse(Jb), twist)
		out := make([]float64, len(theta))
		for i := range out {
			out[i] = dtheta.AtVec(i)
		}
		return out, nil
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func (r *Runner) newResult(capacity int) *Result {
	for _, m := range r.metrics {
		m.Reset()
	}
	return &Result{
		Samples: make([]Sample, 0, capacity),
		Metrics: make(map[string]float64),
	}
}

func (r *Runner) record(result *Result, t float64) error {
	tip, err := r.model.TipPosition()
	if err != nil {
		return err
	}
	w, err := r.model.Manipulability()
	if err != nil {
		return err
	}

	s := Sample{
		Time:           t,
		JointAngles:    r.model.JointAngles(),
		Tip:            tip,
		Excursions:     r.model.TendonExcursions(),
		Manipulability: w,
	}
	for _, m := range r.metrics {
		m.Observe(s)
	}
	for _, o := range r.observers {
		o.OnSample(s)
	}
	result.Samples = append(result.Samples, s)
	return nil
}

func (r *Runner) finish(result *Result) {
	if result.StepsTaken == 0 && len(result.Samples) > 0 {
		result.StepsTaken = len(result.Samples) - 1
	}
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
