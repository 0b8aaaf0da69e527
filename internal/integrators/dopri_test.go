package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/sitnikov/internal/ode"
)

func TestDormandPrinceAccuracy(t *testing.T) {
	sys := &oscillator{}
	integ := NewDormandPrince()

	x := ode.State{1.0, 0.0}
	dE := 0.05
	steps := 200

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dE, dE)
	}

	span := float64(steps) * dE
	if math.Abs(x[0]-math.Cos(span)) > 1e-5 {
		t.Errorf("position error too large: got %.8f, expected %.8f", x[0], math.Cos(span))
	}
}

func TestDormandPrinceStepControl(t *testing.T) {
	sys := &oscillator{}
	integ := NewDormandPrince()
	x := ode.State{1.0, 0.0}

	// A comfortable step within tolerance should grow the suggestion.
	_, next, err := integ.StepAdaptive(sys, x, 0, 1e-4, 1e-9)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if next <= 1e-4 {
		t.Errorf("easy step: suggested %g, want growth beyond 1e-4", next)
	}

	// A huge step under a tight tolerance must shrink the suggestion.
	_, next, err = integ.StepAdaptive(sys, x, 0, 1.0, 1e-12)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if next >= 1.0 {
		t.Errorf("hard step: suggested %g, want reduction below 1.0", next)
	}
}
