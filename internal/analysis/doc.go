// Package analysis provides numerical diagnostics for integrated
// trajectories: Lyapunov exponent estimation and Poincaré sections.
package analysis
