package orbit

import (
	"math"

	"github.com/san-kum/sitnikov/internal/ode"
)

// Period is the eccentric-anomaly period of one primary orbit in
// natural units.
const Period = 2 * math.Pi

// Elements are the orbital elements of the primaries' Keplerian ellipse.
// Both primaries share the same ellipse mirrored through the barycenter,
// so a single pair (a, e) describes the whole configuration.
type Elements struct {
	A   float64 // semi-major axis, > 0
	Ecc float64 // eccentricity, in [0, 1)
}

// NewElements validates and returns orbital elements. Eccentricities at
// or above 1 are rejected: the separation positivity guarantee that keeps
// the Sitnikov equation singularity-free holds only for bound ellipses.
func NewElements(a, ecc float64) (Elements, error) {
	if a <= 0 {
		return Elements{}, &ode.ParamError{Name: "a", Value: a, Reason: "semi-major axis must be positive"}
	}
	if ecc < 0 || ecc >= 1 {
		return Elements{}, &ode.ParamError{Name: "e", Value: ecc, Reason: "eccentricity must be in [0, 1)"}
	}
	return Elements{A: a, Ecc: ecc}, nil
}

// TimeAt returns the time corresponding to eccentric anomaly E via
// Kepler's equation, t = E - e*sin(E). Defined for all real E.
func (el Elements) TimeAt(e float64) float64 {
	return e - el.Ecc*math.Sin(e)
}

// Separation returns the in-plane distance from the barycenter to a
// primary at eccentric anomaly E, r = a*(1 - e*cos(E)). Strictly
// positive for every E when the eccentricity is below 1.
func (el Elements) Separation(e float64) float64 {
	return el.A * (1 - el.Ecc*math.Cos(e))
}

// MeanMotion returns the mean motion in natural units (mu = 1).
func (el Elements) MeanMotion() float64 {
	return math.Sqrt(1 / (el.A * el.A * el.A))
}

// EccentricAnomalyFromMean solves Kepler's equation M = E - e*sin(E) for
// E using Newton-Raphson iteration.
func EccentricAnomalyFromMean(mean, ecc float64) float64 {
	if ecc == 0 {
		return mean
	}

	// Good starting guess for moderate eccentricities.
	e := mean
	if ecc > 0.8 {
		e = math.Pi
	}

	for i := 0; i < 32; i++ {
		f := e - ecc*math.Sin(e) - mean
		fp := 1 - ecc*math.Cos(e)
		delta := f / fp
		e -= delta
		if math.Abs(delta) < 1e-14 {
			break
		}
	}
	return e
}
