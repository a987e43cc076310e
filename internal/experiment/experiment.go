package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/birdsim/internal/config"
	"github.com/san-kum/birdsim/internal/damage"
	"github.com/san-kum/birdsim/internal/flight"
	"github.com/san-kum/birdsim/internal/impact"
	"github.com/san-kum/birdsim/internal/integrators"
	"github.com/san-kum/birdsim/internal/metrics"
	"github.com/san-kum/birdsim/internal/sim"
)

// Outcome is a launch followed by collision detection and damage.
type Outcome struct {
	Bird        string                `json:"bird"`
	Attack      damage.Mode           `json:"attack"`
	Result      *flight.Result        `json:"result"`
	Obstacles   []impact.Obstacle     `json:"obstacles,omitempty"`
	Collision   *impact.Collision     `json:"collision,omitempty"`
	ContactTime float64               `json:"contact_time"`
	Multiplier  float64               `json:"multiplier"`
	ImpactForce float64               `json:"impact_force"`
	Impacts     []damage.ImpactResult `json:"impacts"`
}

type Experiment struct {
	cfg       *config.Config
	params    flight.Params
	mode      damage.Mode
	obstacles *impact.Registry
	roster    *damage.Roster
	simulator *sim.Simulator
	log       zerolog.Logger
}

// New validates cfg and registers its obstacles and targets. The config
// is copied; later edits to cfg do not affect the experiment.
func New(cfg *config.Config, log zerolog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	mode, err := cfg.AttackMode()
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:       cfg,
		params:    params,
		mode:      mode,
		obstacles: impact.NewRegistry(),
		roster:    damage.NewRoster(),
		log:       log,
		simulator: sim.New(
			integrators.NewEuler(),
			sim.WithMaxSteps(cfg.MaxSteps),
			sim.WithLogger(log),
			sim.WithMetrics(metrics.Defaults()...),
		),
	}

	for _, o := range cfg.Obstacles {
		kind, err := impact.ParseKind(o.Kind)
		if err != nil {
			return nil, err
		}
		if o.Bounds != nil {
			b := *o.Bounds
			if err := e.obstacles.Add(impact.Obstacle{Label: o.Label, Kind: kind, Bounds: &b}); err != nil {
				return nil, err
			}
		}
		if o.Durability > 0 {
			e.roster.Add(damage.NewObstacle(o.Label, o.Durability))
		}
	}
	for _, t := range cfg.Targets {
		e.roster.Add(damage.NewTarget(t.Name, t.Health))
	}

	return e, nil
}

func (e *Experiment) Params() flight.Params { return e.params }

func (e *Experiment) Obstacles() *impact.Registry { return e.obstacles }

func (e *Experiment) Roster() *damage.Roster { return e.roster }

// Shot overrides launch settings for a single run. Nil and empty fields
// keep the experiment's configuration.
type Shot struct {
	Bird   string   `yaml:"bird,omitempty" json:"bird,omitempty"`
	Angle  *float64 `yaml:"angle,omitempty" json:"angle,omitempty"`
	Force  *float64 `yaml:"force,omitempty" json:"force,omitempty"`
	Boost  *float64 `yaml:"boost,omitempty" json:"boost,omitempty"`
	Attack string   `yaml:"attack,omitempty" json:"attack,omitempty"`
}

// Float returns a pointer to v for Shot fields.
func Float(v float64) *float64 { return &v }

func (s Shot) apply(cfg *config.Config) {
	if s.Bird != "" {
		cfg.Bird = s.Bird
		cfg.Mass = 0
	}
	if s.Angle != nil {
		cfg.Angle = *s.Angle
	}
	if s.Force != nil {
		cfg.Force = *s.Force
	}
	if s.Boost != nil {
		cfg.Boost = *s.Boost
	}
	if s.Attack != "" {
		cfg.Attack = s.Attack
	}
}

// Run integrates the configured launch, finds the first collision and
// applies the impact force of the terminal speed to every registered
// entity. Damage accumulates across runs of the same experiment.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	return e.launch(ctx, e.cfg.Bird, e.params, e.mode)
}

// Shoot is Run with per-shot overrides against the same obstacles and
// roster.
func (e *Experiment) Shoot(ctx context.Context, s Shot) (*Outcome, error) {
	cfg := e.cfg.Clone()
	s.apply(cfg)

	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	mode, err := cfg.AttackMode()
	if err != nil {
		return nil, err
	}
	return e.launch(ctx, cfg.Bird, params, mode)
}

func (e *Experiment) launch(ctx context.Context, bird string, params flight.Params, mode damage.Mode) (*Outcome, error) {
	res, err := e.simulator.Run(ctx, params)
	if err != nil {
		return nil, err
	}

	force, err := impact.ForceOf(res, e.cfg.ContactTime)
	if err != nil {
		return nil, err
	}
	mult, err := damage.MultiplierFor(mode)
	if err != nil {
		return nil, fmt.Errorf("attack: %w", err)
	}

	out := &Outcome{
		Bird:        bird,
		Attack:      mode,
		Result:      res,
		Obstacles:   e.obstacles.List(),
		ContactTime: e.cfg.ContactTime,
		Multiplier:  mult,
		ImpactForce: force * mult,
	}
	if c, ok := impact.FindCollision(res.Trajectory, out.Obstacles); ok {
		out.Collision = &c
		e.log.Debug().
			Str("obstacle", c.Obstacle.Label).
			Float64("t", c.Sample.Time).
			Float64("x", c.Sample.X).
			Msg("collision")
	}
	out.Impacts = e.roster.Resolve(out.ImpactForce)

	e.log.Info().
		Str("bird", bird).
		Float64("angle", params.AngleDeg).
		Float64("impact_force", out.ImpactForce).
		Int("impacts", len(out.Impacts)).
		Bool("collided", out.Collision != nil).
		Msg("launch resolved")
	return out, nil
}

// Cleared reports whether every target has been eliminated. A roster
// without targets is never cleared.
func (e *Experiment) Cleared() bool {
	targets := 0
	for _, d := range e.roster.List() {
		if d.Kind != damage.KindTarget {
			continue
		}
		targets++
		if !d.Destroyed() {
			return false
		}
	}
	return targets > 0
}

// Run is a one-shot helper over New and (*Experiment).Run.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Outcome, error) {
	e, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}
