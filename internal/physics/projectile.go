package physics

import (
	"math"

	"github.com/san-kum/birdsim/internal/flight"
)

// Projectile is a point mass under uniform gravity and quadratic drag.
type Projectile struct {
	Mass            float64
	AirDensity      float64
	DragCoefficient float64
	Area            float64
	Gravity         float64
}

func NewProjectile() *Projectile {
	return &Projectile{
		Mass:            flight.DefaultMass,
		AirDensity:      flight.DefaultAirDensity,
		DragCoefficient: flight.DefaultDragCoefficient,
		Area:            flight.DefaultArea,
		Gravity:         flight.DefaultGravity,
	}
}

func FromParams(p flight.Params) *Projectile {
	return &Projectile{
		Mass:            p.Mass,
		AirDensity:      p.AirDensity,
		DragCoefficient: p.DragCoefficient,
		Area:            p.Area,
		Gravity:         p.Gravity,
	}
}

// DragForce returns the drag magnitude 0.5 * rho * Cd * A * v^2.
func (p *Projectile) DragForce(speed float64) float64 {
	return 0.5 * p.AirDensity * p.DragCoefficient * p.Area * speed * speed
}

// Acceleration combines gravity with drag opposing the velocity. At zero
// speed the drag direction is undefined and only gravity acts.
func (p *Projectile) Acceleration(s flight.State) (ax, ay float64) {
	ay = -p.Gravity

	speed := s.Speed()
	if speed == 0 {
		return 0, ay
	}

	drag := p.DragForce(speed) / p.Mass
	ax = -drag * (s.VX / speed)
	ay -= drag * (s.VY / speed)
	return ax, ay
}

// TerminalVelocity is the speed at which drag balances gravity, or +Inf
// without drag.
func (p *Projectile) TerminalVelocity() float64 {
	k := 0.5 * p.AirDensity * p.DragCoefficient * p.Area
	if k == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(p.Mass * p.Gravity / k)
}
