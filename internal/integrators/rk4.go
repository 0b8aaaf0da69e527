package integrators

import "github.com/san-kum/sitnikov/internal/ode"

// RK4 is the classical fourth-order Runge-Kutta method on a fixed grid.
// Scratch buffers are reused across steps, so a single RK4 value must
// not be shared between concurrent integrations.
type RK4 struct {
	k1, k2, k3, k4 ode.State
	scratch        ode.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(ode.State, n)
		r.k2 = make(ode.State, n)
		r.k3 = make(ode.State, n)
		r.k4 = make(ode.State, n)
		r.scratch = make(ode.State, n)
	}
}

func (r *RK4) Step(sys ode.System, x ode.State, e, dE float64) ode.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, e))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dE*0.5*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, e+dE*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dE*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, e+dE*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dE*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, e+dE))

	result := make(ode.State, n)
	dE6 := dE / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dE6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
