package integrators

import (
	"math"

	"github.com/san-kum/sitnikov/internal/ode"
)

// Dormand-Prince 5(4) coefficients
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// DormandPrince is an adaptive 5(4) embedded Runge-Kutta pair. The
// fifth-order solution is propagated; the fourth-order one drives the
// step-size controller.
type DormandPrince struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewDormandPrince() *DormandPrince {
	return &DormandPrince{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (d *DormandPrince) Step(sys ode.System, x ode.State, e, dE float64) ode.State {
	newX, _, _ := d.StepAdaptive(sys, x, e, dE, 1e-9)
	return newX
}

// StepAdaptive advances one attempted step of size dE and returns the
// new state together with the suggested size for the next step. When the
// local error exceeds tol, the suggestion shrinks below dE and the
// caller is expected to retry.
func (d *DormandPrince) StepAdaptive(sys ode.System, x ode.State, e, dE, tol float64) (ode.State, float64, error) {
	n := len(x)

	k1 := sys.Derive(x, e)

	x2 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dE*b21*k1[i]
	}
	k2 := sys.Derive(x2, e+a2*dE)

	x3 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dE*(b31*k1[i]+b32*k2[i])
	}
	k3 := sys.Derive(x3, e+a3*dE)

	x4 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dE*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := sys.Derive(x4, e+a4*dE)

	x5 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dE*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := sys.Derive(x5, e+a5*dE)

	x6 := make(ode.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dE*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := sys.Derive(x6, e+dE)

	xNew := make(ode.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dE*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := sys.Derive(xNew, e+dE)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dE * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(x[i]) + math.Abs(dE*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	errRatio := errMax / tol

	var dENew float64
	if errRatio > 1 {
		scale := math.Max(d.minScale, d.safety*math.Pow(errRatio, -0.25))
		dENew = dE * scale
	} else {
		if errRatio > 0 {
			scale := math.Min(d.maxScale, d.safety*math.Pow(errRatio, -0.2))
			dENew = dE * scale
		} else {
			dENew = dE * d.maxScale
		}
	}

	return xNew, dENew, nil
}
