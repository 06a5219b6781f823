// Package render draws finger poses and sweep results as SVG and PNG.
package render

import (
	"fmt"
	"strings"

	"github.com/san-kum/fingerkin/internal/rigid"
)

type frame struct {
	minX, minY    float64
	scale         float64
	width, height int
}

// fitFrame maps the x/y extent of points into a width x height canvas with
// a 10% margin and equal axis scaling.
func fitFrame(points []rigid.Vec3, width, height int) frame {
	minX, maxX := points[0][0], points[0][0]
	minY, maxY := points[0][1], points[0][1]
	for _, p := range points {
		minX = min(minX, p[0])
		maxX = max(maxX, p[0])
		minY = min(minY, p[1])
		maxY = max(maxY, p[1])
	}

	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	pad := span * 0.1
	span += 2 * pad

	return frame{
		minX:   minX - (span-(maxX-minX))/2,
		minY:   minY - (span-(maxY-minY))/2,
		scale:  float64(min(width, height)) / span,
		width:  width,
		height: height,
	}
}

func (f frame) project(p rigid.Vec3) (x, y float64) {
	x = (p[0] - f.minX) * f.scale
	y = float64(f.height) - (p[1]-f.minY)*f.scale
	return x, y
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// FingerSVG draws the chain base, joints, tip as a polyline with a dot at
// every point. points is what finger.Model.JointPositions returns.
func FingerSVG(points []rigid.Vec3, width, height int) string {
	if len(points) < 2 {
		return ""
	}
	f := fitFrame(points, width, height)

	var sb strings.Builder
	header(&sb, width, height)

	sb.WriteString(`<polyline fill="none" stroke="#00ccff" stroke-width="4" stroke-linecap="round" points="`)
	for i, p := range points {
		x, y := f.project(p)
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}
	sb.WriteString("\"/>\n")

	for i, p := range points {
		x, y := f.project(p)
		fill := "#ffffff"
		switch i {
		case 0:
			fill = "#888888"
		case len(points) - 1:
			fill = "#ff5555"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>
`, x, y, fill))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TipPathSVG traces the fingertip across a sweep, optionally overlaying
// the final finger pose.
func TipPathSVG(path []rigid.Vec3, pose []rigid.Vec3, width, height int, strokeColor string) string {
	if len(path) < 2 {
		return ""
	}
	all := append(append([]rigid.Vec3(nil), path...), pose...)
	f := fitFrame(all, width, height)

	var sb strings.Builder
	header(&sb, width, height)

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range path {
		x, y := f.project(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")

	if len(pose) >= 2 {
		sb.WriteString(`<polyline fill="none" stroke="#00ccff" stroke-width="3" points="`)
		for i, p := range pose {
			x, y := f.project(p)
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
