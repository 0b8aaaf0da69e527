package ode

import "math"

// State is the integration state vector. For the Sitnikov problem it is
// the pair (z, v): out-of-plane displacement and its derivative with
// respect to the eccentric anomaly.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether the state contains only finite values.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// System is an ODE system dX/dE = f(X, E). The independent variable is
// the eccentric anomaly of the primaries, not time.
type System interface {
	Derive(x State, e float64) State
	StateDim() int
}

// Hamiltonian is implemented by systems that expose a conserved (or
// approximately conserved) scalar invariant of the state.
type Hamiltonian interface {
	Energy(x State) float64
}

// Integrator advances a system state by one fixed step.
type Integrator interface {
	Step(sys System, x State, e, dE float64) State
}

// AdaptiveIntegrator additionally supports error-controlled stepping.
// StepAdaptive returns the new state, a suggested next step size, and an
// error when the step cannot be completed within tolerance.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, e, dE, tol float64) (State, float64, error)
}

// Metric accumulates a scalar diagnostic over the samples of a run.
type Metric interface {
	Name() string
	Observe(x State, e float64)
	Value() float64
	Reset()
}

// Observer is notified of every accepted sample of a run.
type Observer interface {
	OnSample(x State, e float64)
}

// Configurable is implemented by systems whose parameters can be
// inspected and adjusted at runtime.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
