// Package tui is an interactive terminal viewer for a finger model. Joints
// are jogged from the keyboard and inverse kinematics can be run toward a
// fingertip target moved in the flexion plane.
package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/rigid"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	defaultStep   = 0.05
	targetStep    = 0.002
	historyLength = 60
)

type state int

const (
	stateJog state = iota
	stateTarget
)

type Viewer struct {
	state  state
	name   string
	finger *finger.Model

	cursor    int
	step      float64
	bodyFrame bool

	target  rigid.Vec3
	status  string
	failed  bool
	history []float64

	width  int
	height int
}

func New(m *finger.Model, name string) *Viewer {
	v := &Viewer{
		name:    name,
		finger:  m,
		step:    defaultStep,
		history: make([]float64, 0, historyLength),
		width:   80,
		height:  24,
	}
	v.record()
	return v
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	}
	return v, nil
}

func (v Viewer) handleKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	switch v.state {
	case stateTarget:
		return v.targetKey(msg)
	default:
		return v.jogKey(msg)
	}
}

func (v Viewer) jogKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return v, tea.Quit
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < v.finger.NumJoints()-1 {
			v.cursor++
		}
	case "right", "l":
		v.jog(v.step)
	case "left", "h":
		v.jog(-v.step)
	case "+", "=":
		v.step = math.Min(v.step*2, 0.8)
	case "-", "_":
		v.step = math.Max(v.step/2, 0.00625)
	case "f":
		v.bodyFrame = !v.bodyFrame
	case "r":
		v.setAngles(make([]float64, v.finger.NumJoints()))
		v.status = "reset"
	case "t":
		tip, err := v.finger.TipPosition()
		if err != nil {
			v.fail(err)
			break
		}
		v.target = tip
		v.state = stateTarget
		v.status = ""
	}
	return v, nil
}

func (v Viewer) targetKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return v, tea.Quit
	case "esc", "q":
		v.state = stateJog
	case "up", "k":
		v.target[1] += targetStep
	case "down", "j":
		v.target[1] -= targetStep
	case "right", "l":
		v.target[0] += targetStep
	case "left", "h":
		v.target[0] -= targetStep
	case "enter", " ":
		v.solve()
		v.state = stateJog
	}
	return v, nil
}

func (v *Viewer) jog(delta float64) {
	angles := v.finger.JointAngles()
	angles[v.cursor] += delta
	v.setAngles(angles)
}

func (v *Viewer) setAngles(angles []float64) {
	if err := v.finger.SetJointAngles(angles); err != nil {
		v.fail(err)
		return
	}
	v.failed = false
	v.record()
}

// solve keeps the current fingertip orientation and moves its position to
// the target. Only the target changes in the flexion plane.
func (v *Viewer) solve() {
	T, err := v.finger.ForwardKinematicsSpace()
	if err != nil {
		v.fail(err)
		return
	}
	R, _ := rigid.TransToRp(T)
	goal := rigid.RpToTrans(R, v.target)

	var sol finger.Solution
	if v.bodyFrame {
		sol, err = v.finger.InverseKinematicsBody(goal)
	} else {
		sol, err = v.finger.InverseKinematicsSpace(goal)
	}
	if err != nil {
		if errors.Is(err, finger.ErrConvergenceFailure) {
			v.fail(fmt.Errorf("target unreachable after %d iterations", sol.Iterations))
			return
		}
		v.fail(err)
		return
	}
	v.setAngles(sol.JointAngles)
	v.status = fmt.Sprintf("ik converged in %d iterations", sol.Iterations)
}

func (v *Viewer) fail(err error) {
	v.failed = true
	v.status = err.Error()
}

func (v *Viewer) record() {
	w, err := v.finger.Manipulability()
	if err != nil {
		return
	}
	v.history = append(v.history, w)
	if len(v.history) > historyLength {
		v.history = v.history[1:]
	}
}

func (v Viewer) View() string {
	cw := max(v.width-6, 50)
	ch := max(v.height-16, 12)

	c := newCanvas(cw, ch)
	proj := fitProjection(v.finger.Reach(), cw, ch)
	c.drawFinger(v.finger.JointPositions(), proj)
	if v.state == stateTarget {
		x, y := proj.cell(v.target)
		c.set(x, y, '+')
	}

	var b strings.Builder

	mode := green.Render("jog")
	if v.state == stateTarget {
		mode = yellow.Render("target")
	}
	frame := "space"
	if v.bodyFrame {
		frame = "body"
	}
	b.WriteString(fmt.Sprintf("\n   %s  %s  %s\n", cyan.Render(v.name), mode, dim.Render(frame+" frame")))
	b.WriteString(dimmer.Render("   "+strings.Repeat("─", cw)) + "\n")
	for _, row := range c.rows() {
		b.WriteString("   " + row + "\n")
	}
	b.WriteString(dimmer.Render("   "+strings.Repeat("─", cw)) + "\n")

	angles := v.finger.JointAngles()
	for i, a := range angles {
		label := fmt.Sprintf("θ%d", i)
		val := fmt.Sprintf("%8.3f rad %7.1f°", a, a*180/math.Pi)
		if i == v.cursor {
			b.WriteString("   " + cyan.Render("▸ ") + white.Render(label) + " " + magenta.Render(val) + "\n")
		} else {
			b.WriteString("     " + dim.Render(label) + " " + dim.Render(val) + "\n")
		}
	}

	if tip, err := v.finger.TipPosition(); err == nil {
		b.WriteString(fmt.Sprintf("   %s x=%s y=%s z=%s\n", dim.Render("tip"),
			white.Render(fmt.Sprintf("%.4f", tip[0])),
			white.Render(fmt.Sprintf("%.4f", tip[1])),
			white.Render(fmt.Sprintf("%.4f", tip[2]))))
	}
	if v.state == stateTarget {
		b.WriteString(fmt.Sprintf("   %s x=%.4f y=%.4f\n", yellow.Render("target"), v.target[0], v.target[1]))
	}

	excursions := v.finger.TendonExcursions()
	parts := make([]string, len(excursions))
	for i, s := range excursions {
		parts[i] = fmt.Sprintf("%+.4f", s)
	}
	b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("tendons"), strings.Join(parts, " ")))

	b.WriteString(v.jacobianView())

	if len(v.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s %s\n", dim.Render("w"), cyan.Render(sparkline(v.history, 24)),
			dim.Render(fmt.Sprintf("%.2e", v.history[len(v.history)-1]))))
	}

	if v.status != "" {
		style := green
		if v.failed {
			style = red
		}
		b.WriteString("   " + style.Render(v.status) + "\n")
	}

	help := "   ↑↓ joint  ←→ jog  ± step  f frame  t target  r reset  q quit"
	if v.state == stateTarget {
		help = "   ←→↑↓ move target  enter solve  esc back"
	}
	b.WriteString("\n" + dim.Render(help) + "\n")

	return b.String()
}

// jacobianView prints the in-plane rows of the Jacobian in the selected
// frame. Space rows are the velocity of the body point passing through the
// base origin; body rows are the fingertip velocity in the tip frame.
func (v *Viewer) jacobianView() string {
	var (
		J   *mat.Dense
		err error
	)
	if v.bodyFrame {
		J, err = v.finger.CalculateFingerBodyJacobian()
	} else {
		J, err = v.finger.CalculateFingerSpaceJacobian()
	}
	if err != nil {
		return ""
	}

	labels := []string{"vsx", "vsy", "ωz"}
	if v.bodyFrame {
		labels = []string{"vbx", "vby", "ωz"}
	}

	var b strings.Builder
	rows := []int{3, 4, 2}
	for k, r := range rows {
		b.WriteString("   " + dim.Render(fmt.Sprintf("J %-3s", labels[k])))
		for j := 0; j < v.finger.NumJoints(); j++ {
			b.WriteString(fmt.Sprintf(" %+8.4f", J.At(r, j)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func Run(m *finger.Model, name string) error {
	p := tea.NewProgram(New(m, name), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
