package sim

import (
	"context"
	"math"

	"github.com/san-kum/sitnikov/internal/ode"
	"github.com/san-kum/sitnikov/internal/orbit"
)

// Config is the sampling schedule and solver tuning for one run. The
// independent variable is the primaries' eccentric anomaly: samples are
// taken at E_k = k*Step for every E_k below Period*Periods.
type Config struct {
	Period    float64 // eccentric-anomaly period of one primary orbit
	Periods   int     // number of periods to cover
	Step      float64 // sample spacing in E
	Tolerance float64 // local error tolerance for adaptive integrators
	MinStep   float64 // adaptive step collapse threshold

	// ValidateState aborts the run as soon as a sample goes NaN/Inf
	// instead of letting garbage propagate through the rest of the scan.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Period:        orbit.Period,
		Periods:       10,
		Step:          0.05,
		Tolerance:     1e-9,
		MinStep:       1e-10,
		ValidateState: true,
	}
}

func (cfg Config) validate() error {
	if cfg.Period <= 0 {
		return &ode.ParamError{Name: "period", Value: cfg.Period, Reason: "period must be positive"}
	}
	if cfg.Periods <= 0 {
		return &ode.ParamError{Name: "periods", Value: float64(cfg.Periods), Reason: "period count must be positive"}
	}
	if cfg.Step <= 0 {
		return &ode.ParamError{Name: "step", Value: cfg.Step, Reason: "sample step must be positive"}
	}
	return nil
}

// Anomalies expands the schedule into its sample points. The count is
// fixed up front as ceil(span/step) and each point computed as k*Step,
// so repeated runs see bit-identical grids.
func (cfg Config) Anomalies() ([]float64, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	span := cfg.Period * float64(cfg.Periods)
	n := int(math.Ceil(span / cfg.Step))
	es := make([]float64, n)
	for k := range es {
		es[k] = float64(k) * cfg.Step
	}
	return es, nil
}

// Trajectory is the sampled solution for one initial condition: one
// state per anomaly sample, the first being the initial condition
// itself.
type Trajectory struct {
	Anomalies []float64
	States    []ode.State
	Metrics   map[string]float64
}

// Simulator integrates one system over a sampling schedule. It is not
// safe for concurrent use: fixed-grid integrators carry scratch buffers.
type Simulator struct {
	sys        ode.System
	integrator ode.Integrator
	metrics    []ode.Metric
	observers  []ode.Observer
}

func New(sys ode.System, integrator ode.Integrator) *Simulator {
	return &Simulator{sys: sys, integrator: integrator}
}

func (s *Simulator) AddMetric(m ode.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o ode.Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 across the schedule and reports the state at
// exactly the requested sample points. Adaptive integrators substep
// freely inside each sample interval but always land on the boundary;
// a step-size collapse or a non-finite state surfaces as an
// *ode.IntegrationError carrying x0 and the last reached anomaly.
func (s *Simulator) Run(ctx context.Context, x0 ode.State, cfg Config) (*Trajectory, error) {
	es, err := cfg.Anomalies()
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{
		Anomalies: es,
		States:    make([]ode.State, 0, len(es)),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	s.observe(x, 0)
	traj.States = append(traj.States, x.Clone())

	adaptive, isAdaptive := s.integrator.(ode.AdaptiveIntegrator)
	dE := cfg.Step

	for k := 1; k < len(es); k++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if isAdaptive {
			x, dE, err = s.advanceAdaptive(adaptive, x, es[k-1], es[k], dE, cfg)
			if err != nil {
				return nil, s.fail(x0, err)
			}
		} else {
			x = s.integrator.Step(s.sys, x, es[k-1], es[k]-es[k-1])
		}

		if cfg.ValidateState && !x.IsValid() {
			return nil, s.failAt(x0, es[k], ode.ErrUnstable)
		}

		s.observe(x, es[k])
		traj.States = append(traj.States, x.Clone())
	}

	for _, m := range s.metrics {
		traj.Metrics[m.Name()] = m.Value()
	}

	return traj, nil
}

// advanceAdaptive integrates from eccentric anomaly from to to,
// substepping with error control and clamping the final substep onto
// the sample boundary. The returned step size seeds the next interval.
func (s *Simulator) advanceAdaptive(integ ode.AdaptiveIntegrator, x ode.State, from, to, dE float64, cfg Config) (ode.State, float64, error) {
	e := from
	for e < to {
		h := math.Min(dE, to-e)

		xNew, hNext, err := integ.StepAdaptive(s.sys, x, e, h, cfg.Tolerance)
		if err != nil {
			return x, dE, s.at(e, err)
		}
		if hNext < cfg.MinStep {
			return x, dE, s.at(e, ode.ErrStepTooSmall)
		}

		x = xNew
		e += h
		dE = hNext
	}
	return x, dE, nil
}

func (s *Simulator) observe(x ode.State, e float64) {
	for _, m := range s.metrics {
		m.Observe(x, e)
	}
	for _, o := range s.observers {
		o.OnSample(x, e)
	}
}

type anomalyError struct {
	lastE   float64
	wrapped error
}

func (e *anomalyError) Error() string { return e.wrapped.Error() }
func (e *anomalyError) Unwrap() error { return e.wrapped }

func (s *Simulator) at(e float64, err error) error {
	return &anomalyError{lastE: e, wrapped: err}
}

func (s *Simulator) fail(x0 ode.State, err error) error {
	if ae, ok := err.(*anomalyError); ok {
		return s.failAt(x0, ae.lastE, ae.wrapped)
	}
	return s.failAt(x0, math.NaN(), err)
}

func (s *Simulator) failAt(x0 ode.State, lastE float64, cause error) error {
	ie := &ode.IntegrationError{LastE: lastE, Wrapped: cause}
	if len(x0) >= 2 {
		ie.Z0, ie.V0 = x0[0], x0[1]
	}
	return ie
}
