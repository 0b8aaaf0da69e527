package analysis

import (
	"math"

	"github.com/san-kum/sitnikov/internal/ode"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a system
// using the trajectory separation method, with the eccentric anomaly as
// the independent variable. A positive value indicates chaotic motion.
//
// Two trajectories separated by perturbation in z are advanced in
// lockstep; the mean logarithmic growth rate of their separation is the
// exponent. After every step the perturbed trajectory is renormalized
// back to the initial offset (Benettin's method), keeping the
// difference in the linear regime.
func LyapunovExponent(
	sys ode.System,
	integ ode.Integrator,
	x0 ode.State,
	dE, span float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || dE <= 0 || span <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation

	d0 := perturbation
	e := 0.0
	sumLog := 0.0
	count := 0

	for e < span {
		x = integ.Step(sys, x, e, dE)
		xp = integ.Step(sys, xp, e, dE)
		e += dE

		sep := xp.Sub(x).Norm()
		if sep <= 0 || d0 <= 0 {
			continue
		}

		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dE)
}
