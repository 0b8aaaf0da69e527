// Package ode provides the core primitives for numerical integration of
// the Sitnikov equation of motion.
//
// The package defines the fundamental interfaces and types shared by the
// rest of the module:
//
//   - [State]: the (z, v) integration state vector
//   - [System]: an ODE system dX/dE = f(X, E), parameterized by the
//     eccentric anomaly E of the primaries rather than by time
//   - [Integrator] and [AdaptiveIntegrator]: numerical stepping strategies
//   - [Metric] and [Observer]: per-sample diagnostics
//
// Integrators are injected wherever a system is solved, so alternative
// solvers can be substituted without touching the equation of motion.
package ode
