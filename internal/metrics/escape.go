package metrics

import (
	"math"

	"github.com/san-kum/sitnikov/internal/ode"
)

// Escape records the peak |z| of a run and the first eccentric anomaly
// at which |z| crossed the escape threshold. A crossing is the standard
// diagnostic separating bounded Sitnikov oscillations from trajectories
// that leave the system; Value reports the crossing anomaly, or -1 when
// the body stayed bounded.
type Escape struct {
	name      string
	threshold float64
	maxZ      float64
	escapedAt float64
}

func NewEscape(threshold float64) *Escape {
	m := &Escape{name: "escape", threshold: threshold}
	m.Reset()
	return m
}

func (m *Escape) Name() string { return m.name }

func (m *Escape) Observe(x ode.State, e float64) {
	if len(x) < 1 {
		return
	}
	z := math.Abs(x[0])
	m.maxZ = math.Max(m.maxZ, z)
	if m.escapedAt < 0 && z > m.threshold {
		m.escapedAt = e
	}
}

func (m *Escape) Value() float64 { return m.escapedAt }

// MaxZ returns the peak |z| seen during the run.
func (m *Escape) MaxZ() float64 { return m.maxZ }

func (m *Escape) Reset() {
	m.maxZ = 0
	m.escapedAt = -1
}
