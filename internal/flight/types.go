package flight

import (
	"math"
	"sort"
)

const (
	DefaultMass            = 1.0
	DefaultAngleDeg        = 45.0
	DefaultAirDensity      = 1.225
	DefaultDragCoefficient = 0.47
	DefaultArea            = 0.01
	DefaultTimeStep        = 0.05
	DefaultGravity         = 9.8
)

// Params describes one launch. It is treated as immutable for the
// lifetime of a run.
type Params struct {
	Mass            float64 `json:"mass" yaml:"mass"`
	LaunchForce     float64 `json:"launch_force" yaml:"launch_force"`
	AngleDeg        float64 `json:"angle_deg" yaml:"angle_deg"`
	AirDensity      float64 `json:"air_density" yaml:"air_density"`
	DragCoefficient float64 `json:"drag_coefficient" yaml:"drag_coefficient"`
	Area            float64 `json:"area" yaml:"area"`
	TimeStep        float64 `json:"time_step" yaml:"time_step"`
	Gravity         float64 `json:"gravity" yaml:"gravity"`
}

func DefaultParams() Params {
	return Params{
		Mass:            DefaultMass,
		AngleDeg:        DefaultAngleDeg,
		AirDensity:      DefaultAirDensity,
		DragCoefficient: DefaultDragCoefficient,
		Area:            DefaultArea,
		TimeStep:        DefaultTimeStep,
		Gravity:         DefaultGravity,
	}
}

// Validate reports the first parameter outside its valid range.
// Every returned error wraps ErrInvalidParameter.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"mass", p.Mass},
		{"launch force", p.LaunchForce},
		{"angle", p.AngleDeg},
		{"air density", p.AirDensity},
		{"drag coefficient", p.DragCoefficient},
		{"area", p.Area},
		{"time step", p.TimeStep},
		{"gravity", p.Gravity},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid("%s must be finite, got %v", f.name, f.value)
		}
	}

	switch {
	case p.Mass <= 0:
		return invalid("mass must be positive, got %g", p.Mass)
	case p.TimeStep <= 0:
		return invalid("time step must be positive, got %g", p.TimeStep)
	case p.LaunchForce < 0:
		return invalid("launch force must not be negative, got %g", p.LaunchForce)
	case p.AirDensity <= 0:
		return invalid("air density must be positive, got %g", p.AirDensity)
	case p.DragCoefficient < 0:
		return invalid("drag coefficient must not be negative, got %g", p.DragCoefficient)
	case p.Area <= 0:
		return invalid("area must be positive, got %g", p.Area)
	case p.Gravity <= 0:
		return invalid("gravity must be positive, got %g", p.Gravity)
	}
	return nil
}

// InitialSpeed models the launch force as an impulse: v0 = F / m.
func (p Params) InitialSpeed() float64 {
	return p.LaunchForce / p.Mass
}

func (p Params) AngleRad() float64 {
	return p.AngleDeg * math.Pi / 180
}

// State is the projectile position and velocity.
type State struct {
	X, Y   float64
	VX, VY float64
}

func (s State) Speed() float64 {
	return math.Hypot(s.VX, s.VY)
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.X, s.Y, s.VX, s.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Sample struct {
	Time  float64 `json:"time"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
}

// Trajectory holds samples in strictly increasing time order.
type Trajectory []Sample

// UpTo returns the prefix of samples with Time <= cursor. The returned
// slice shares storage with t and must not be modified.
func (t Trajectory) UpTo(cursor float64) Trajectory {
	n := sort.Search(len(t), func(i int) bool { return t[i].Time > cursor })
	return t[:n:n]
}

// At returns the first sample with Time >= cursor, or false once the
// cursor has passed the end of the trajectory.
func (t Trajectory) At(cursor float64) (Sample, bool) {
	i := sort.Search(len(t), func(i int) bool { return t[i].Time >= cursor })
	if i == len(t) {
		return Sample{}, false
	}
	return t[i], true
}

func (t Trajectory) Last() (Sample, bool) {
	if len(t) == 0 {
		return Sample{}, false
	}
	return t[len(t)-1], true
}

func (t Trajectory) Duration() float64 {
	last, ok := t.Last()
	if !ok {
		return 0
	}
	return last.Time
}

func (t Trajectory) Bounds() (maxX, maxY float64) {
	for _, s := range t {
		maxX = math.Max(maxX, s.X)
		maxY = math.Max(maxY, s.Y)
	}
	return maxX, maxY
}

// Result is a completed run.
type Result struct {
	Params       Params             `json:"params"`
	Trajectory   Trajectory         `json:"trajectory"`
	InitialSpeed float64            `json:"initial_speed"`
	FinalSpeed   float64            `json:"final_speed"`
	Steps        int                `json:"steps"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Dynamics yields the acceleration acting on the projectile in a state.
type Dynamics interface {
	Acceleration(s State) (ax, ay float64)
}

// Stepper advances a state by one fixed time step.
type Stepper interface {
	Step(dyn Dynamics, s State, dt float64) State
}

// Metric accumulates a scalar over the recorded samples of a run.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}
