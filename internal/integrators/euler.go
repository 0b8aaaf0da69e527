package integrators

import "github.com/san-kum/sitnikov/internal/ode"

// Euler is the first-order forward Euler method. Too inaccurate for
// production scans; kept as a reference baseline for convergence tests.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (eu *Euler) Step(sys ode.System, x ode.State, e, dE float64) ode.State {
	dx := sys.Derive(x, e)
	result := make(ode.State, len(x))
	for i := range x {
		result[i] = x[i] + dE*dx[i]
	}
	return result
}
