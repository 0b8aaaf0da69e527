package ode

import (
	"errors"
	"fmt"
)

// Domain errors for integration operations.
var (
	// ErrInvalidParameter indicates a physical or numerical parameter
	// outside its valid range.
	ErrInvalidParameter = errors.New("ode: invalid parameter")

	// ErrUnstable indicates the integration produced a non-finite state.
	ErrUnstable = errors.New("ode: state diverged (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive step size collapsed below
	// the configured minimum.
	ErrStepTooSmall = errors.New("ode: adaptive step below minimum")
)

// ParamError reports a rejected parameter value. It wraps
// ErrInvalidParameter so callers can match with errors.Is.
type ParamError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s=%g (%s)", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }

// IntegrationError reports a failed trajectory integration. It carries
// the offending initial condition and the last eccentric anomaly the
// solver reached before failing.
type IntegrationError struct {
	Z0, V0  float64
	LastE   float64
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed for (z0=%g, v0=%g) at E=%g: %v",
		e.Z0, e.V0, e.LastE, e.Wrapped)
}

func (e *IntegrationError) Unwrap() error { return e.Wrapped }
