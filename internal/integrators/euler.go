package integrators

import "github.com/san-kum/birdsim/internal/flight"

// Euler is the fixed-step semi-implicit Euler rule: velocity is advanced
// first and the position update uses the new velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn flight.Dynamics, s flight.State, dt float64) flight.State {
	ax, ay := dyn.Acceleration(s)

	next := s
	next.VX += ax * dt
	next.VY += ay * dt
	next.X += next.VX * dt
	next.Y += next.VY * dt
	return next
}
