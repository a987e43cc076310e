package flight

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a parameter outside its valid range.
	ErrInvalidParameter = errors.New("flight: invalid parameter")

	// ErrIntegrationDivergence indicates the integration produced NaN/Inf
	// values or exceeded its step bound without reaching the ground.
	ErrIntegrationDivergence = errors.New("flight: integration diverged")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
