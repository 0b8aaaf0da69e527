package physics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/sitnikov/internal/integrators"
	"github.com/san-kum/sitnikov/internal/ode"
	"github.com/san-kum/sitnikov/internal/orbit"
	"github.com/san-kum/sitnikov/internal/sim"
)

func mustElements(t *testing.T, a, ecc float64) orbit.Elements {
	t.Helper()
	el, err := orbit.NewElements(a, ecc)
	if err != nil {
		t.Fatalf("elements: %v", err)
	}
	return el
}

func TestDeriveKnownValues(t *testing.T) {
	// Circular primaries at a=1: r=1 everywhere.
	s := NewSitnikov(mustElements(t, 1, 0))

	// At z=0 the body feels no restoring force.
	dx := s.Derive(ode.State{0, 0.5}, 0)
	if dx[0] != 1.0 {
		t.Errorf("dz/dE = %g, want 2*r*v = 1", dx[0])
	}
	if dx[1] != 0 {
		t.Errorf("dv/dE = %g, want 0 at z=0", dx[1])
	}

	// Hand-computed point: z=1, v=0, r=1.
	dx = s.Derive(ode.State{1, 0}, 0)
	want := -2.0 / (2 * math.Sqrt2) // -2*r*z/(z²+r²)^(3/2)
	if math.Abs(dx[1]-want) > 1e-15 {
		t.Errorf("dv/dE = %g, want %g", dx[1], want)
	}
}

func TestDeriveOddSymmetry(t *testing.T) {
	s := NewSitnikov(mustElements(t, 1, 0.6))

	for e := 0.0; e < 2*math.Pi; e += 0.31 {
		z, v := 0.8, -0.4
		dx := s.Derive(ode.State{z, v}, e)
		dxNeg := s.Derive(ode.State{-z, -v}, e)
		if dxNeg[0] != -dx[0] || dxNeg[1] != -dx[1] {
			t.Fatalf("E=%g: derivatives not odd: %v vs %v", e, dx, dxNeg)
		}
	}
}

func TestTrajectoryPointReflection(t *testing.T) {
	// For circular primaries, (-z0, -v0) must trace the exact mirror of
	// (z0, v0) through the origin.
	sys := NewSitnikov(mustElements(t, 1, 0))
	cfg := sim.DefaultConfig()
	cfg.Periods = 2

	run := func(x0 ode.State) *sim.Trajectory {
		tr, err := sim.New(sys, integrators.NewRK4()).Run(context.Background(), x0, cfg)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return tr
	}

	tr := run(ode.State{0.7, 0.2})
	mirror := run(ode.State{-0.7, -0.2})

	for k := range tr.States {
		for i := 0; i < 2; i++ {
			if math.Abs(tr.States[k][i]+mirror.States[k][i]) > 1e-12 {
				t.Fatalf("sample %d component %d: %g vs %g not point-reflected",
					k, i, tr.States[k][i], mirror.States[k][i])
			}
		}
	}
}

func TestEnergyConservedCircular(t *testing.T) {
	// With e=0 the separation is constant and the equation reduces to a
	// conservative 1D oscillator: the invariant must hold over a period
	// up to integration error.
	sys := NewSitnikov(mustElements(t, 1, 0))
	cfg := sim.DefaultConfig()
	cfg.Periods = 1
	cfg.Step = 0.01

	x0 := ode.State{0.5, 0.0}
	tr, err := sim.New(sys, integrators.NewRK4()).Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	h0 := sys.Energy(x0)
	for k, st := range tr.States {
		if math.Abs(sys.Energy(st)-h0) > 1e-6 {
			t.Fatalf("sample %d: invariant drifted from %g to %g", k, h0, sys.Energy(st))
		}
	}
}

func TestSetParamValidation(t *testing.T) {
	s := NewSitnikov(mustElements(t, 1, 0.2))

	if err := s.SetParam("e", 0.5); err != nil {
		t.Fatalf("valid eccentricity rejected: %v", err)
	}
	if err := s.SetParam("e", 1.0); err == nil {
		t.Error("e=1 accepted, want rejection")
	}
	if err := s.SetParam("a", -3); err == nil {
		t.Error("negative semi-major axis accepted, want rejection")
	}
	if err := s.SetParam("mass", 1); err == nil {
		t.Error("unknown parameter accepted, want rejection")
	}

	// Failed updates must not corrupt the current elements.
	if got := s.GetParams()["e"]; got != 0.5 {
		t.Errorf("eccentricity after failed updates = %g, want 0.5", got)
	}
}
