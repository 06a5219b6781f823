package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/rigid"
	"github.com/san-kum/fingerkin/internal/sweep"
	"github.com/san-kum/fingerkin/internal/trajectory"
	"github.com/san-kum/fingerkin/internal/workspace"
)

func TestFingerSVG(t *testing.T) {
	m := finger.NewDefault()
	require.NoError(t, m.SetJointAngles([]float64{0.3, 0.5, 0.2}))

	svg := FingerSVG(m.JointPositions(), 400, 300)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Equal(t, 1, strings.Count(svg, "<polyline"))
	assert.Equal(t, m.NumJoints()+2, strings.Count(svg, "<circle"))
}

func TestFingerSVGTooFewPoints(t *testing.T) {
	assert.Empty(t, FingerSVG([]rigid.Vec3{{0, 0, 0}}, 100, 100))
}

func TestFitFrameInsideCanvas(t *testing.T) {
	points := []rigid.Vec3{{0, 0, 0}, {0.1, 0, 0}, {0.12, 0.05, 0}}
	f := fitFrame(points, 200, 200)
	for _, p := range points {
		x, y := f.project(p)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, 200.0)
		assert.GreaterOrEqual(t, y, 0.0)
		assert.LessOrEqual(t, y, 200.0)
	}
}

func TestTipPathSVG(t *testing.T) {
	path := []rigid.Vec3{{0.1, 0, 0}, {0.09, 0.03, 0}, {0.07, 0.06, 0}}
	pose := []rigid.Vec3{{0, 0, 0}, {0.05, 0, 0}, {0.07, 0.06, 0}}

	svg := TipPathSVG(path, pose, 300, 300, "#ff0000")
	assert.Contains(t, svg, `stroke="#ff0000"`)
	assert.Contains(t, svg, " L")
	assert.Contains(t, svg, "<polyline")

	assert.Empty(t, TipPathSVG(path[:1], nil, 300, 300, "#fff"))
}

func sweepSamples(t *testing.T) []sweep.Sample {
	t.Helper()
	traj, err := trajectory.JointTrajectory([]float64{0, 0, 0}, []float64{1, 1, 0.8}, 1, 20, trajectory.Cubic)
	require.NoError(t, err)
	result, err := sweep.New(finger.NewDefault()).RunTrajectory(context.Background(), traj)
	require.NoError(t, err)
	return result.Samples
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPlotTipPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tip.png")
	require.NoError(t, PlotTipPath(sweepSamples(t), path))
	assertNonEmptyFile(t, path)
}

func TestPlotJointAngles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "joints.png")
	require.NoError(t, PlotJointAngles(sweepSamples(t), path))
	assertNonEmptyFile(t, path)
}

func TestPlotWorkspace(t *testing.T) {
	opts := workspace.DefaultOptions()
	opts.Samples = 200
	points, err := workspace.Sample(context.Background(), finger.NewDefault(), opts)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "workspace.png")
	require.NoError(t, PlotWorkspace(points, path))
	assertNonEmptyFile(t, path)
}

func TestPlotNoData(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, PlotTipPath(nil, filepath.Join(dir, "a.png")), ErrNoData)
	assert.ErrorIs(t, PlotJointAngles(nil, filepath.Join(dir, "b.png")), ErrNoData)
	assert.ErrorIs(t, PlotWorkspace(nil, filepath.Join(dir, "c.png")), ErrNoData)
}

func TestGenerateColors(t *testing.T) {
	assert.Nil(t, generateColors(0))
	assert.Len(t, generateColors(4), 4)
}
