package physics

import (
	"math"

	"github.com/san-kum/sitnikov/internal/ode"
	"github.com/san-kum/sitnikov/internal/orbit"
)

// Sitnikov implements the out-of-plane motion of the massless body in
// the Sitnikov problem. State: [z, v], where z is the displacement along
// the axis perpendicular to the primaries' orbital plane and v its
// derivative with respect to the eccentric anomaly E.
//
// Using E instead of time as the independent variable folds Kepler's
// equation into the dynamics, so the primaries' separation is a closed
// form and never has to be solved for during integration.
type Sitnikov struct {
	el orbit.Elements
}

func NewSitnikov(el orbit.Elements) *Sitnikov {
	return &Sitnikov{el: el}
}

func (s *Sitnikov) StateDim() int { return 2 }

// Elements returns the orbital elements of the primaries.
func (s *Sitnikov) Elements() orbit.Elements { return s.el }

// Derive evaluates the equation of motion at eccentric anomaly E:
//
//	dz/dE = 2*r*v
//	dv/dE = -2*r*z / (z^2 + r^2)^(3/2)
//
// with r the in-plane barycenter distance. The denominator vanishes only
// at z = 0 and r = 0 simultaneously, which cannot happen for e < 1; the
// Elements constructor rejects e >= 1, so no guard is needed here.
func (s *Sitnikov) Derive(x ode.State, e float64) ode.State {
	z, v := x[0], x[1]
	r := s.el.Separation(e)

	d := z*z + r*r
	return ode.State{
		2 * r * v,
		-2 * r * z / (d * math.Sqrt(d)),
	}
}

// Energy returns the scalar invariant H = v^2/2 - 1/sqrt(z^2 + a^2).
// It is exactly conserved only for circular primaries (e = 0), where
// r is the constant a; for eccentric primaries it oscillates.
func (s *Sitnikov) Energy(x ode.State) float64 {
	if len(x) < 2 {
		return 0
	}
	z, v := x[0], x[1]
	return 0.5*v*v - 1/math.Sqrt(z*z+s.el.A*s.el.A)
}

func (s *Sitnikov) DefaultState() ode.State { return ode.State{0.5, 0.0} }

// GetParams implements ode.Configurable.
func (s *Sitnikov) GetParams() map[string]float64 {
	return map[string]float64{"a": s.el.A, "e": s.el.Ecc}
}

// SetParam implements ode.Configurable. Values are re-validated so a
// runtime adjustment cannot smuggle in a hyperbolic orbit.
func (s *Sitnikov) SetParam(name string, value float64) error {
	a, ecc := s.el.A, s.el.Ecc
	switch name {
	case "a":
		a = value
	case "e":
		ecc = value
	default:
		return &ode.ParamError{Name: name, Value: value, Reason: "unknown parameter"}
	}

	el, err := orbit.NewElements(a, ecc)
	if err != nil {
		return err
	}
	s.el = el
	return nil
}
