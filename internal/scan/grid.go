package scan

import (
	"math"

	"github.com/san-kum/sitnikov/internal/ode"
)

// Mode selects how the velocity dimension of an initial-condition grid
// is built.
type Mode int

const (
	// FullGrid takes the Cartesian product of the z and v ranges.
	FullGrid Mode = iota
	// FixedVelocity pairs every z value with the single velocity
	// V.Start, collapsing the scan to one parameter.
	FixedVelocity
)

func (m Mode) String() string {
	switch m {
	case FullGrid:
		return "full_grid"
	case FixedVelocity:
		return "fixed_velocity"
	default:
		return "unknown"
	}
}

// Range is a half-open arithmetic sequence [Start, Stop) with the given
// step. Start == Stop yields an empty sequence.
type Range struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Step  float64 `yaml:"step"`
}

// Values expands the range. The element count is fixed up front as
// ceil((Stop-Start)/Step) and each value computed as Start + i*Step, so
// the sequence cannot gain or lose elements to accumulated rounding.
func (r Range) Values() ([]float64, error) {
	if r.Step <= 0 {
		return nil, &ode.ParamError{Name: "step", Value: r.Step, Reason: "range step must be positive"}
	}
	if r.Stop < r.Start {
		return nil, &ode.ParamError{Name: "stop", Value: r.Stop, Reason: "range stop must not precede start"}
	}

	n := int(math.Ceil((r.Stop - r.Start) / r.Step))
	if n <= 0 {
		return []float64{}, nil
	}

	vals := make([]float64, n)
	for i := range vals {
		vals[i] = r.Start + float64(i)*r.Step
	}
	return vals, nil
}

// Condition is one initial condition of the massless body: out-of-plane
// displacement and velocity at E = 0.
type Condition struct {
	Z0 float64
	V0 float64
}

// Spec describes an initial-condition grid over (z0, v0).
type Spec struct {
	Z    Range `yaml:"z"`
	V    Range `yaml:"v"`
	Mode Mode  `yaml:"-"`
}

// Build expands the spec into an ordered grid of initial conditions.
//
// The fixed-velocity branch is taken either when Mode requests it or
// when the velocity range is degenerate (V.Start == V.Stop); in both
// cases every z value is paired with the single velocity V.Start. The
// degenerate-range fallback keeps a zero-width velocity range from
// producing an empty grid when the caller clearly wants a 1D slice.
//
// Otherwise the grid is the full Cartesian product of the two ranges in
// row-major order: all v for the first z, then all v for the second z,
// and so on. Empty ranges produce a valid empty grid.
func (s Spec) Build() ([]Condition, error) {
	zs, err := s.Z.Values()
	if err != nil {
		return nil, err
	}

	if s.Mode == FixedVelocity || s.V.Start == s.V.Stop {
		grid := make([]Condition, len(zs))
		for i, z := range zs {
			grid[i] = Condition{Z0: z, V0: s.V.Start}
		}
		return grid, nil
	}

	vs, err := s.V.Values()
	if err != nil {
		return nil, err
	}

	grid := make([]Condition, 0, len(zs)*len(vs))
	for _, z := range zs {
		for _, v := range vs {
			grid = append(grid, Condition{Z0: z, V0: v})
		}
	}
	return grid, nil
}
