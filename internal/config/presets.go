package config

import "sort"

var Presets = map[string]*Config{
	"index": {
		Name: "index", Joints: 3, Tendons: 4,
		LinkLengths: []float64{0.05, 0.045, 0.025, 0.02},
		IK:          IKConfig{EOmg: 1e-6, EV: 1e-6, MaxIterations: 100},
		Sweep:       SweepConfig{Dt: 0.01, Duration: 1.0, Samples: 50, TimeScaling: "quintic", Target: []float64{0.9, 1.1, 0.7}},
	},
	"thumb": {
		Name: "thumb", Joints: 2, Tendons: 3,
		LinkLengths: []float64{0.03, 0.035, 0.03},
		IK:          IKConfig{EOmg: 1e-6, EV: 1e-6, MaxIterations: 100},
		Sweep:       SweepConfig{Dt: 0.01, Duration: 1.0, Samples: 50, TimeScaling: "quintic", Target: []float64{0.8, 0.6}},
	},
	"little": {
		Name: "little", Joints: 3, Tendons: 4,
		LinkLengths: []float64{0.04, 0.032, 0.018, 0.016},
		IK:          IKConfig{EOmg: 1e-6, EV: 1e-6, MaxIterations: 100},
		Sweep:       SweepConfig{Dt: 0.01, Duration: 1.0, Samples: 50, TimeScaling: "cubic", Target: []float64{1.2, 1.4, 0.9}},
	},
	"gripper": {
		Name: "gripper", Joints: 2, Tendons: 2,
		LinkLengths: []float64{0.02, 0.06, 0.04},
		RoutingMatrix: [][]float64{
			{0.008, 0.004},
			{-0.008, -0.004},
		},
		IK:    IKConfig{EOmg: 1e-5, EV: 1e-5, MaxIterations: 200},
		Sweep: SweepConfig{Dt: 0.02, Duration: 2.0, Samples: 40, TimeScaling: "cubic", Target: []float64{0.7, 0.7}},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
