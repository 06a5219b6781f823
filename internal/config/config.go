package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/kinematics"
	"github.com/san-kum/fingerkin/internal/sweep"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 1.0
	DefaultSamples     = 50
	DefaultTimeScaling = "quintic"
	DefaultIntegrator  = "rk4"
)

type Config struct {
	Name          string      `yaml:"name"`
	Joints        int         `yaml:"joints"`
	Tendons       int         `yaml:"tendons"`
	LinkLengths   []float64   `yaml:"link_lengths"`
	JointAngles   []float64   `yaml:"joint_angles,omitempty"`
	RoutingMatrix [][]float64 `yaml:"routing_matrix,omitempty"`
	IK            IKConfig    `yaml:"ik"`
	Sweep         SweepConfig `yaml:"sweep"`
}

type IKConfig struct {
	EOmg          float64 `yaml:"eomg"`
	EV            float64 `yaml:"ev"`
	MaxIterations int     `yaml:"max_iterations"`
}

type SweepConfig struct {
	Dt          float64   `yaml:"dt"`
	Duration    float64   `yaml:"duration"`
	Samples     int       `yaml:"samples"`
	TimeScaling string    `yaml:"time_scaling"`
	Integrator  string    `yaml:"integrator,omitempty"`
	Target      []float64 `yaml:"target,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "index",
		Joints:      finger.DefaultJoints,
		Tendons:     finger.DefaultTendons,
		LinkLengths: append([]float64(nil), finger.DefaultLinkLengths...),
		IK: IKConfig{
			EOmg:          kinematics.DefaultEOmg,
			EV:            kinematics.DefaultEV,
			MaxIterations: kinematics.DefaultMaxIterations,
		},
		Sweep: SweepConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			Samples:     DefaultSamples,
			TimeScaling: DefaultTimeScaling,
			Integrator:  DefaultIntegrator,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads the YAML file at path on top of a copy of base. Keys
// missing from the file keep their base values; base itself is untouched.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	out := *c
	out.LinkLengths = append([]float64(nil), c.LinkLengths...)
	out.JointAngles = append([]float64(nil), c.JointAngles...)
	out.Sweep.Target = append([]float64(nil), c.Sweep.Target...)
	if c.RoutingMatrix != nil {
		out.RoutingMatrix = make([][]float64, len(c.RoutingMatrix))
		for i, row := range c.RoutingMatrix {
			out.RoutingMatrix[i] = append([]float64(nil), row...)
		}
	}
	return &out
}

// Build constructs a finger model from the configuration.
func (c *Config) Build() (*finger.Model, error) {
	m, err := finger.New(c.Joints, c.Tendons)
	if err != nil {
		return nil, err
	}
	if len(c.LinkLengths) > 0 {
		if err := m.SetLinkLengths(c.LinkLengths); err != nil {
			return nil, fmt.Errorf("link_lengths: %w", err)
		}
	}
	if len(c.JointAngles) > 0 {
		if err := m.SetJointAngles(c.JointAngles); err != nil {
			return nil, fmt.Errorf("joint_angles: %w", err)
		}
	}
	if len(c.RoutingMatrix) > 0 {
		routing, err := denseRows(c.RoutingMatrix)
		if err != nil {
			return nil, fmt.Errorf("routing_matrix: %w", err)
		}
		if err := m.SetTendonRoutingMatrix(routing); err != nil {
			return nil, fmt.Errorf("routing_matrix: %w", err)
		}
	}
	m.SetIKOptions(c.IKOptions())
	return m, nil
}

func (c *Config) IKOptions() kinematics.Options {
	return kinematics.Options{
		EOmg:          c.IK.EOmg,
		EV:            c.IK.EV,
		MaxIterations: c.IK.MaxIterations,
	}
}

func (c *Config) SweepConfig() sweep.Config {
	return sweep.Config{Dt: c.Sweep.Dt, Duration: c.Sweep.Duration, Integrator: c.Sweep.Integrator}
}

func denseRows(rows [][]float64) (*mat.Dense, error) {
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: empty rows", finger.ErrInvalidDimension)
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", finger.ErrInvalidDimension, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}
