package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/birdsim/internal/damage"
	"github.com/san-kum/birdsim/internal/flight"
	"github.com/san-kum/birdsim/internal/impact"
)

const (
	DefaultBird        = "stella"
	DefaultForce       = 10.0
	DefaultBoost       = 1.0
	DefaultContactTime = impact.DefaultContactTime
)

var (
	ErrUnknownBird   = errors.New("config: unknown bird")
	ErrUnknownPreset = errors.New("config: unknown preset")
	ErrInvalidBoost  = errors.New("config: invalid boost")
)

type Config struct {
	Bird            string           `yaml:"bird"`
	Mass            float64          `yaml:"mass,omitempty"`
	Force           float64          `yaml:"force"`
	Angle           float64          `yaml:"angle"`
	Boost           float64          `yaml:"boost"`
	Attack          string           `yaml:"attack"`
	AirDensity      float64          `yaml:"air_density"`
	DragCoefficient float64          `yaml:"drag_coefficient"`
	Area            float64          `yaml:"area"`
	Dt              float64          `yaml:"dt"`
	Gravity         float64          `yaml:"gravity"`
	ContactTime     float64          `yaml:"contact_time"`
	MaxSteps        int              `yaml:"max_steps,omitempty"`
	Obstacles       []ObstacleConfig `yaml:"obstacles,omitempty"`
	Targets         []TargetConfig   `yaml:"targets,omitempty"`
}

// ObstacleConfig describes an obstacle. Bounds make it collidable,
// a positive durability makes it destructible; either may be omitted.
type ObstacleConfig struct {
	Label      string         `yaml:"label"`
	Kind       string         `yaml:"kind,omitempty"`
	Durability int            `yaml:"durability,omitempty"`
	Bounds     *impact.Bounds `yaml:"bounds,omitempty"`
}

type TargetConfig struct {
	Name   string `yaml:"name"`
	Health int    `yaml:"health"`
}

func DefaultConfig() *Config {
	return &Config{
		Bird:            DefaultBird,
		Force:           DefaultForce,
		Angle:           flight.DefaultAngleDeg,
		Boost:           DefaultBoost,
		Attack:          string(damage.ModeNormal),
		AirDensity:      flight.DefaultAirDensity,
		DragCoefficient: flight.DefaultDragCoefficient,
		Area:            flight.DefaultArea,
		Dt:              flight.DefaultTimeStep,
		Gravity:         flight.DefaultGravity,
		ContactTime:     DefaultContactTime,
	}
}

// Load reads a YAML file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads a YAML file on top of a copy of base. Lists in the file
// replace the base lists.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BirdMass resolves the launch mass: an explicit mass wins over the bird.
func (c *Config) BirdMass() (float64, error) {
	if c.Mass != 0 {
		return c.Mass, nil
	}
	return MassOf(c.Bird)
}

// Params converts the configuration into integrator input. The boost
// multiplies the launch force.
func (c *Config) Params() (flight.Params, error) {
	mass, err := c.BirdMass()
	if err != nil {
		return flight.Params{}, err
	}
	if err := ValidateBoost(c.Boost); err != nil {
		return flight.Params{}, err
	}

	p := flight.Params{
		Mass:            mass,
		LaunchForce:     c.Force * c.Boost,
		AngleDeg:        c.Angle,
		AirDensity:      c.AirDensity,
		DragCoefficient: c.DragCoefficient,
		Area:            c.Area,
		TimeStep:        c.Dt,
		Gravity:         c.Gravity,
	}
	return p, p.Validate()
}

func (c *Config) AttackMode() (damage.Mode, error) {
	return damage.ParseMode(c.Attack)
}

// Validate checks every field that a run depends on.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, err := c.AttackMode(); err != nil {
		return err
	}
	if c.ContactTime <= 0 {
		return fmt.Errorf("%w: contact time must be positive, got %g", flight.ErrInvalidParameter, c.ContactTime)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must not be negative, got %d", flight.ErrInvalidParameter, c.MaxSteps)
	}
	for _, o := range c.Obstacles {
		if _, err := impact.ParseKind(o.Kind); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Obstacles = make([]ObstacleConfig, len(c.Obstacles))
	for i, o := range c.Obstacles {
		out.Obstacles[i] = o
		if o.Bounds != nil {
			b := *o.Bounds
			out.Obstacles[i].Bounds = &b
		}
	}
	out.Targets = append([]TargetConfig(nil), c.Targets...)
	return &out
}
