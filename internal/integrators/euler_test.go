package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/birdsim/internal/flight"
	"github.com/san-kum/birdsim/internal/physics"
)

type constantAccel struct {
	ax, ay float64
}

func (c constantAccel) Acceleration(s flight.State) (float64, float64) {
	return c.ax, c.ay
}

func TestEulerStepOrder(t *testing.T) {
	integ := NewEuler()
	dyn := constantAccel{ax: 0, ay: -10}

	next := integ.Step(dyn, flight.State{VX: 1, VY: 2}, 0.1)

	// velocity first: vy = 2 - 1 = 1, then y = 0 + 1*0.1
	if math.Abs(next.VY-1) > 1e-12 {
		t.Errorf("vy = %v, want 1", next.VY)
	}
	if math.Abs(next.Y-0.1) > 1e-12 {
		t.Errorf("y = %v, want 0.1", next.Y)
	}
	if math.Abs(next.X-0.1) > 1e-12 {
		t.Errorf("x = %v, want 0.1", next.X)
	}
}

func TestEulerDoesNotMutateInput(t *testing.T) {
	integ := NewEuler()
	s := flight.State{VX: 1, VY: 1}

	_ = integ.Step(constantAccel{ay: -9.8}, s, 0.05)
	if s.VY != 1 || s.Y != 0 {
		t.Errorf("input state mutated: %+v", s)
	}
}

func TestEulerWithDrag(t *testing.T) {
	integ := NewEuler()
	p := physics.NewProjectile()
	dt := 0.05

	s := flight.State{VX: 10, VY: 0}
	next := integ.Step(p, s, dt)

	drag := p.DragForce(10) / p.Mass
	if math.Abs(next.VX-(10-drag*dt)) > 1e-12 {
		t.Errorf("vx = %v, want %v", next.VX, 10-drag*dt)
	}
	if math.Abs(next.VY-(-p.Gravity*dt)) > 1e-12 {
		t.Errorf("vy = %v, want %v", next.VY, -p.Gravity*dt)
	}
}

func TestEulerFreeFallConvergence(t *testing.T) {
	integ := NewEuler()
	dyn := constantAccel{ay: -9.8}

	fall := func(dt float64) float64 {
		s := flight.State{Y: 100}
		steps := int(math.Round(1.0 / dt))
		for i := 0; i < steps; i++ {
			s = integ.Step(dyn, s, dt)
		}
		return s.Y
	}

	exact := 100 - 0.5*9.8
	errCoarse := math.Abs(fall(0.01) - exact)
	errFine := math.Abs(fall(0.001) - exact)

	if errFine >= errCoarse {
		t.Errorf("error did not shrink with dt: %v >= %v", errFine, errCoarse)
	}
	if errCoarse > 0.1 {
		t.Errorf("first-order error too large: %v", errCoarse)
	}
}
