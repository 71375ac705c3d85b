// Package fault defines the error kinds surfaced by the integrator.
//
// Callers distinguish the kinds with errors.Is. Unsupported and
// Algorithm failures can be downgraded to a symbolic result by the
// coordinator; NeedAlgebraic triggers a single restart over an
// extended coefficient field.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported marks input outside the elementary transcendental
	// class handled here, such as algebraic functions or free parameters.
	ErrUnsupported = errors.New("unsupported integrand")

	// ErrAlgorithm marks an internal failure of the integration
	// algorithm on input that was accepted for processing.
	ErrAlgorithm = errors.New("integration algorithm failed")

	// ErrNeedAlgebraic reports that finishing the computation requires
	// algebraic numbers in the coefficient field.
	ErrNeedAlgebraic = errors.New("algebraic extension of the constant field required")
)

// Unsupportedf wraps ErrUnsupported with detail.
func Unsupportedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

// Algorithmf wraps ErrAlgorithm with detail.
func Algorithmf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAlgorithm, fmt.Sprintf(format, args...))
}

// TowerAssert is the panic payload for a structurally invalid
// differential tower. It is a programming error, never recovered
// into a degraded result.
type TowerAssert struct {
	Msg string
}

func (t TowerAssert) Error() string { return "malformed tower: " + t.Msg }

// AssertTower panics with a TowerAssert when cond is false.
func AssertTower(cond bool, format string, args ...any) {
	if !cond {
		panic(TowerAssert{Msg: fmt.Sprintf(format, args...)})
	}
}
