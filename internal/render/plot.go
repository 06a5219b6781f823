package render

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/fingerkin/internal/sweep"
	"github.com/san-kum/fingerkin/internal/workspace"
)

var ErrNoData = errors.New("render: nothing to plot")

var (
	tipColor   = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	poseColor  = color.RGBA{R: 0, G: 160, B: 220, A: 255}
	cloudColor = color.RGBA{R: 60, G: 120, B: 200, A: 120}
)

// PlotTipPath writes a PNG (or any format plot.Save infers from the
// extension) of the fingertip path in the flexion plane.
func PlotTipPath(samples []sweep.Sample, path string) error {
	if len(samples) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Fingertip path"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i] = plotter.XY{X: s.Tip[0], Y: s.Tip[1]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("tip line: %w", err)
	}
	line.Color = tipColor
	line.Width = vg.Points(1.5)
	p.Add(line, plotter.NewGrid())
	p.Legend.Add("tip", line)
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save tip plot: %w", err)
	}
	return nil
}

// PlotJointAngles writes one line per joint against time.
func PlotJointAngles(samples []sweep.Sample, path string) error {
	if len(samples) == 0 || len(samples[0].JointAngles) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Joint angles"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "θ (rad)"

	joints := len(samples[0].JointAngles)
	colors := generateColors(joints)
	for j := 0; j < joints; j++ {
		pts := make(plotter.XYs, len(samples))
		for i, s := range samples {
			pts[i] = plotter.XY{X: s.Time, Y: s.JointAngles[j]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("joint %d: %w", j, err)
		}
		line.Color = colors[j]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("θ%d", j), line)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save joint plot: %w", err)
	}
	return nil
}

// PlotWorkspace scatters sampled fingertip positions.
func PlotWorkspace(points []workspace.Point, path string) error {
	if len(points) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Reachable workspace"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	pts := make(plotter.XYs, len(points))
	for i, pt := range points {
		pts[i] = plotter.XY{X: pt.Tip[0], Y: pt.Tip[1]}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("workspace scatter: %w", err)
	}
	scatter.GlyphStyle.Color = cloudColor
	scatter.GlyphStyle.Radius = vg.Points(1)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter, plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save workspace plot: %w", err)
	}
	return nil
}

func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	rf := hueToRGB(p, q, h+1.0/3.0)
	gf := hueToRGB(p, q, h)
	bf := hueToRGB(p, q, h-1.0/3.0)
	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
