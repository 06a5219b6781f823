package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fingerkin/internal/rigid"
)

func TestParseFloats(t *testing.T) {
	vals, err := parseFloats([]string{"0.1", "-2", "3e-3"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, -2, 0.003}, vals)

	_, err = parseFloats([]string{"1", "x"})
	assert.ErrorContains(t, err, "argument 1")
}

func TestBodyFrame(t *testing.T) {
	tests := []struct {
		frame   string
		body    bool
		wantErr bool
	}{
		{"space", false, false},
		{"", false, false},
		{"body", true, false},
		{"world", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.frame, func(t *testing.T) {
			frame = tt.frame
			body, err := bodyFrame()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, body)
		})
	}
	frame = "space"
}

func TestPlanarPose(t *testing.T) {
	T := planarPose(0.1, 0.05, 0.3)
	require.NoError(t, rigid.ValidateSE3(T, 1e-9))
	p := rigid.Position(T)
	assert.InDeltaSlice(t, []float64{0.1, 0.05, 0}, p[:], 1e-12)
	assert.InDelta(t, 0.3, rigid.RotationLogarithm(T.Slice(0, 3, 0, 3))[2], 1e-9)
}

func TestLoadConfigUnknownPreset(t *testing.T) {
	preset = "pinky"
	defer func() { preset = "" }()
	_, err := loadConfig()
	assert.ErrorContains(t, err, "unknown preset")
}

func TestLoadConfigFileOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: my-thumb\n"), 0644))

	preset, configFile = "thumb", path
	defer func() { preset, configFile = "", "" }()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "my-thumb", cfg.Name)
	assert.Equal(t, 2, cfg.Joints)
	assert.Equal(t, 3, cfg.Tendons)
}

func TestBuildModelWithAngles(t *testing.T) {
	m, cfg, err := buildModel([]string{"0.1", "0.2", "0.3"})
	require.NoError(t, err)
	assert.Equal(t, "index", cfg.Name)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, m.JointAngles())

	_, _, err = buildModel([]string{"0.1"})
	assert.Error(t, err)
}
