package tui

import (
	"strings"

	"github.com/san-kum/fingerkin/internal/rigid"
)

type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = make([]rune, w)
		for j := range cells[i] {
			cells[i][j] = ' '
		}
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.cells[y][x] = r
	}
}

func (c *canvas) line(x1, y1, x2, y2 int, r rune) {
	dx := intAbs(x2 - x1)
	dy := intAbs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.set(x1, y1, r)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (c *canvas) rows() []string {
	out := make([]string, len(c.cells))
	for i, row := range c.cells {
		out[i] = string(row)
	}
	return out
}

// projection maps flexion-plane metres to canvas cells. Terminal cells are
// roughly twice as tall as wide, so x is stretched by two.
type projection struct {
	originX, originY int
	scale            float64
}

func fitProjection(reach float64, w, h int) projection {
	if reach <= 0 {
		reach = 1
	}
	scale := min(float64(w-4)/(2*reach)/2, float64(h-2)/(2*reach))
	return projection{originX: w / 2, originY: h / 2, scale: scale}
}

func (p projection) cell(v rigid.Vec3) (x, y int) {
	x = p.originX + int(v[0]*p.scale*2+0.5)
	y = p.originY - int(v[1]*p.scale+0.5)
	return x, y
}

func (c *canvas) drawFinger(points []rigid.Vec3, p projection) {
	for i := 1; i < len(points); i++ {
		x1, y1 := p.cell(points[i-1])
		x2, y2 := p.cell(points[i])
		c.line(x1, y1, x2, y2, '•')
	}
	for i, pt := range points {
		x, y := p.cell(pt)
		switch i {
		case 0:
			c.set(x, y, '#')
		case len(points) - 1:
			c.set(x, y, 'X')
		default:
			c.set(x, y, 'o')
		}
	}
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	start := max(0, len(data)-width)
	var sb strings.Builder
	for _, v := range data[start:] {
		idx := int((v - minVal) / rang * 7)
		idx = max(0, min(7, idx))
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
