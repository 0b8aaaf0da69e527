// Package physics provides the dynamical model for the restricted
// three-body configuration simulated by this module.
//
// [Sitnikov] implements the [ode.System] interface, defining the
// differential equation governing the massless body's out-of-plane
// oscillation. It also implements [ode.Hamiltonian] (an invariant exact
// for circular primaries) and [ode.Configurable] for runtime parameter
// adjustment.
package physics
