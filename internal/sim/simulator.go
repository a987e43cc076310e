package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/birdsim/internal/flight"
	"github.com/san-kum/birdsim/internal/integrators"
	"github.com/san-kum/birdsim/internal/metrics"
	"github.com/san-kum/birdsim/internal/physics"
)

// DefaultMaxSteps bounds a single run. Degenerate inputs that never reach
// the ground fail with flight.ErrIntegrationDivergence instead of looping.
const DefaultMaxSteps = 1_000_000

const maxPrealloc = 1 << 16

type Option func(*Simulator)

func WithMaxSteps(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Simulator) { s.log = log }
}

func WithMetrics(ms ...flight.Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, ms...) }
}

// Simulator integrates one launch at a time. It is not safe for concurrent
// use; see Sweep for parallel runs.
type Simulator struct {
	integrator flight.Stepper
	metrics    []flight.Metric
	maxSteps   int
	log        zerolog.Logger
}

func New(integrator flight.Stepper, opts ...Option) *Simulator {
	s := &Simulator{
		integrator: integrator,
		metrics:    make([]flight.Metric, 0),
		maxSteps:   DefaultMaxSteps,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m flight.Metric) { s.metrics = append(s.metrics, m) }

// Integrate runs the default simulator (semi-implicit Euler, default
// metrics) on p.
func Integrate(p flight.Params) (*flight.Result, error) {
	s := New(integrators.NewEuler(), WithMetrics(metrics.Defaults()...))
	return s.Run(context.Background(), p)
}

// Run samples the flight until the first step that takes the projectile
// below ground. That final step is recorded, so every sample but the last
// has y >= 0.
func (s *Simulator) Run(ctx context.Context, p flight.Params) (*flight.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	dyn := physics.FromParams(p)
	dt := p.TimeStep
	v0 := p.InitialSpeed()
	theta := p.AngleRad()

	x := flight.State{
		VX: v0 * math.Cos(theta),
		VY: v0 * math.Sin(theta),
	}

	result := &flight.Result{
		Params:       p,
		Trajectory:   make(flight.Trajectory, 0, estimateSamples(x.VY, p)),
		InitialSpeed: v0,
		Metrics:      make(map[string]float64),
	}

	record := func(step int, x flight.State) {
		sample := flight.Sample{
			Time:  float64(step) * dt,
			X:     x.X,
			Y:     x.Y,
			Speed: x.Speed(),
		}
		result.Trajectory = append(result.Trajectory, sample)
		for _, m := range s.metrics {
			m.Observe(sample)
		}
	}

	step := 0
	for x.Y >= 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record(step, x)

		if step >= s.maxSteps {
			return nil, &flight.SimulationError{
				Step:    step,
				Time:    float64(step) * dt,
				State:   x,
				Wrapped: fmt.Errorf("%w: no ground contact after %d steps", flight.ErrIntegrationDivergence, s.maxSteps),
			}
		}

		next := s.integrator.Step(dyn, x, dt)
		if !next.IsValid() {
			return nil, &flight.SimulationError{
				Step:    step,
				Time:    float64(step) * dt,
				State:   next,
				Wrapped: fmt.Errorf("%w: invalid state (NaN/Inf)", flight.ErrIntegrationDivergence),
			}
		}

		x = next
		step++
	}

	record(step, x)

	result.Steps = step
	result.FinalSpeed = x.Speed()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug().
		Int("steps", step).
		Float64("duration", result.Trajectory.Duration()).
		Float64("final_speed", result.FinalSpeed).
		Msg("flight completed")

	return result, nil
}

// estimateSamples sizes the trajectory from the drag-free flight time.
func estimateSamples(vy float64, p flight.Params) int {
	if vy <= 0 {
		return 2
	}
	n := 2 + 2*vy/p.Gravity/p.TimeStep
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}
