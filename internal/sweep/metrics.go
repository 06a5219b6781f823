package sweep

import "math"

// TipPathLength accumulates the distance travelled by the fingertip.
type TipPathLength struct {
	length float64
	last   *Sample
}

func NewTipPathLength() *TipPathLength { return &TipPathLength{} }

func (m *TipPathLength) Name() string { return "tip_path_length" }

func (m *TipPathLength) Observe(s Sample) {
	if m.last != nil {
		m.length += s.Tip.Sub(m.last.Tip).Norm()
	}
	m.last = &s
}

func (m *TipPathLength) Value() float64 { return m.length }

func (m *TipPathLength) Reset() {
	m.length = 0
	m.last = nil
}

// MinManipulability tracks how close the motion came to a singularity.
type MinManipulability struct {
	min     float64
	samples int
}

func NewMinManipulability() *MinManipulability {
	return &MinManipulability{min: math.Inf(1)}
}

func (m *MinManipulability) Name() string { return "min_manipulability" }

func (m *MinManipulability) Observe(s Sample) {
	m.min = math.Min(m.min, s.Manipulability)
	m.samples++
}

func (m *MinManipulability) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.min
}

func (m *MinManipulability) Reset() {
	m.min = math.Inf(1)
	m.samples = 0
}

// MaxTendonExcursion is the largest |s_k| seen over all tendons.
type MaxTendonExcursion struct {
	max float64
}

func NewMaxTendonExcursion() *MaxTendonExcursion { return &MaxTendonExcursion{} }

func (m *MaxTendonExcursion) Name() string { return "max_tendon_excursion" }

func (m *MaxTendonExcursion) Observe(s Sample) {
	for _, e := range s.Excursions {
		m.max = math.Max(m.max, math.Abs(e))
	}
}

func (m *MaxTendonExcursion) Value() float64 { return m.max }

func (m *MaxTendonExcursion) Reset() { m.max = 0 }

// DefaultMetrics returns fresh instances of every sweep metric.
func DefaultMetrics() []Metric {
	return []Metric{
		NewTipPathLength(),
		NewMinManipulability(),
		NewMaxTendonExcursion(),
	}
}
