package integrators

import (
	"fmt"

	"github.com/san-kum/sitnikov/internal/ode"
)

// New returns a fresh integrator by name. Each call returns a new value
// because fixed-grid integrators carry scratch state.
func New(name string) (ode.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4", "":
		return NewRK4(), nil
	case "dopri", "rk45":
		return NewDormandPrince(), nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", name)
	}
}
