package impact

import (
	"fmt"

	"github.com/san-kum/birdsim/internal/flight"
)

// DefaultContactTime is the assumed duration of the collision in seconds.
const DefaultContactTime = 0.1

// Force returns the mean force needed to stop a body of mass moving at
// finalSpeed within contactTime: F = m * v / dt.
func Force(finalSpeed, mass, contactTime float64) (float64, error) {
	if contactTime <= 0 {
		return 0, fmt.Errorf("%w: contact time must be positive, got %g", flight.ErrInvalidParameter, contactTime)
	}
	if mass <= 0 {
		return 0, fmt.Errorf("%w: mass must be positive, got %g", flight.ErrInvalidParameter, mass)
	}
	return mass * finalSpeed / contactTime, nil
}

// ForceOf is Force applied to the terminal speed of a completed run.
func ForceOf(res *flight.Result, contactTime float64) (float64, error) {
	return Force(res.FinalSpeed, res.Params.Mass, contactTime)
}
