package sweep

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/kinematics"
	"github.com/san-kum/fingerkin/internal/rigid"
	"github.com/san-kum/fingerkin/internal/trajectory"
)

type countingObserver struct{ n int }

func (o *countingObserver) OnSample(Sample) { o.n++ }

func TestRunTrajectory(t *testing.T) {
	m := finger.NewDefault()
	traj, err := trajectory.JointTrajectory([]float64{0, 0, 0}, []float64{0.5, 0.8, 0.4}, 1.0, 11, trajectory.Cubic)
	require.NoError(t, err)

	r := New(m)
	for _, metric := range DefaultMetrics() {
		r.AddMetric(metric)
	}
	obs := &countingObserver{}
	r.AddObserver(obs)

	result, err := r.RunTrajectory(context.Background(), traj)
	require.NoError(t, err)

	assert.Len(t, result.Samples, 11)
	assert.Equal(t, 10, result.StepsTaken)
	assert.Equal(t, 11, obs.n)
	assert.Equal(t, []float64{0.5, 0.8, 0.4}, m.JointAngles())

	assert.Positive(t, result.Metrics["tip_path_length"])
	assert.InDelta(t, 0, result.Metrics["min_manipulability"], 1e-12)

	// The common extensor pays out the sum of all joint angles.
	assert.InDelta(t, finger.DefaultPulleyRadius*1.7, result.Metrics["max_tendon_excursion"], 1e-12)
}

func TestRunTrajectoryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	traj, err := trajectory.JointTrajectory([]float64{0, 0, 0}, []float64{1, 1, 1}, 1.0, 5, trajectory.Cubic)
	require.NoError(t, err)

	_, err = New(finger.NewDefault()).RunTrajectory(ctx, traj)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunTrajectoryBadWaypoint(t *testing.T) {
	_, err := New(finger.NewDefault()).RunTrajectory(context.Background(), []trajectory.Waypoint{{Angles: []float64{1}}})
	assert.ErrorIs(t, err, finger.ErrInvalidDimension)
}

func TestRunResolvedRate(t *testing.T) {
	m := finger.NewDefault()
	require.NoError(t, m.SetJointAngles([]float64{0.4, 0.5, 0.3}))
	start, err := m.ForwardKinematicsBody()
	require.NoError(t, err)

	// Pure rotation about the body z axis through the fingertip.
	omega := 0.2
	V := rigid.NewTwist(rigid.Vec3{0, 0, omega}, rigid.Vec3{})
	cfg := Config{Dt: 0.01, Duration: 0.5}

	r := New(m)
	r.AddMetric(NewTipPathLength())
	result, err := r.RunResolvedRate(context.Background(), V, cfg)
	require.NoError(t, err)
	assert.Equal(t, 50, result.StepsTaken)
	assert.Len(t, result.Samples, 51)

	// The tip should stay put while the distal frame turns by ω·T.
	startTip := rigid.Position(start)
	endTip := result.Samples[len(result.Samples)-1].Tip
	assert.InDeltaSlice(t, startTip[:], endTip[:], 1e-6)

	phiStart := 0.4 + 0.5 + 0.3
	angles := m.JointAngles()
	phiEnd := angles[0] + angles[1] + angles[2]
	assert.InDelta(t, omega*cfg.Duration, phiEnd-phiStart, 1e-6)
}

func TestRunResolvedRateEuler(t *testing.T) {
	V := rigid.NewTwist(rigid.Vec3{0, 0, 0.2}, rigid.Vec3{})
	run := func(integrator string) []float64 {
		m := finger.NewDefault()
		require.NoError(t, m.SetJointAngles([]float64{0.4, 0.5, 0.3}))
		_, err := New(m).RunResolvedRate(context.Background(), V, Config{Dt: 0.005, Duration: 0.5, Integrator: integrator})
		require.NoError(t, err)
		return m.JointAngles()
	}
	assert.InDeltaSlice(t, run("rk4"), run("euler"), 1e-3)
}

func TestRunResolvedRateUnknownIntegrator(t *testing.T) {
	_, err := New(finger.NewDefault()).RunResolvedRate(context.Background(), rigid.Twist{}, Config{Dt: 0.1, Duration: 1, Integrator: "verlet"})
	assert.ErrorContains(t, err, "unknown integrator")
}

func TestRunResolvedRateInvalidConfig(t *testing.T) {
	r := New(finger.NewDefault())
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.RunResolvedRate(context.Background(), rigid.Twist{}, tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestMetricsReset(t *testing.T) {
	for _, m := range DefaultMetrics() {
		m.Observe(Sample{Tip: rigid.Vec3{1, 0, 0}, Excursions: []float64{-2}, Manipulability: 3})
		m.Observe(Sample{Tip: rigid.Vec3{2, 0, 0}, Manipulability: 1})
		assert.False(t, math.IsInf(m.Value(), 0), m.Name())
		m.Reset()
		assert.Zero(t, m.Value(), m.Name())
	}
}

func TestResolvedRateDimensionError(t *testing.T) {
	m := finger.NewDefault()
	rate := resolvedRate(m.ScrewAxesBody(), rigid.NewTwist(rigid.Vec3{0, 0, 1}, rigid.Vec3{}))

	dtheta, err := rate([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)
	assert.Len(t, dtheta, 3)

	_, err = rate([]float64{0.1, 0.2})
	assert.ErrorIs(t, err, kinematics.ErrDimension)
}

func TestSteppersPropagateRateErrors(t *testing.T) {
	boom := errors.New("jacobian unavailable")
	tests := []struct {
		integrator string
		failAt     int
	}{
		{"euler", 1},
		{"rk4", 1},
		{"rk4", 3},
	}

	for _, tt := range tests {
		s, err := newStepper(tt.integrator)
		require.NoError(t, err)

		calls := 0
		f := func(x []float64) ([]float64, error) {
			calls++
			if calls == tt.failAt {
				return nil, boom
			}
			return []float64{1}, nil
		}
		got, err := s.step(f, []float64{0}, 0.1)
		assert.ErrorIs(t, err, boom, "%s failing at call %d", tt.integrator, tt.failAt)
		assert.Nil(t, got)
		assert.Equal(t, tt.failAt, calls)
	}
}

func TestSteppersIntegrateConstantRate(t *testing.T) {
	f := func(x []float64) ([]float64, error) { return []float64{2, -1}, nil }
	for _, name := range []string{"euler", "rk4"} {
		s, err := newStepper(name)
		require.NoError(t, err)
		got, err := s.step(f, []float64{1, 1}, 0.5)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{2, 0.5}, got, 1e-12, name)
	}
}
