package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/san-kum/birdsim/internal/config"
	"github.com/san-kum/birdsim/internal/damage"
	"github.com/san-kum/birdsim/internal/flight"
	"github.com/san-kum/birdsim/internal/impact"
)

func classic(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.GetPreset("classic")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRunClassic(t *testing.T) {
	out, err := Run(context.Background(), classic(t), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if out.Collision != nil {
		t.Errorf("classic obstacles have no bounds, got collision with %s", out.Collision.Obstacle.Label)
	}

	want := out.Result.Params.Mass * out.Result.FinalSpeed / config.DefaultContactTime
	if math.Abs(out.ImpactForce-want) > 1e-9 {
		t.Errorf("impact force: expected %f, got %f", want, out.ImpactForce)
	}

	if len(out.Impacts) != 4 {
		t.Fatalf("expected 4 impacts, got %d", len(out.Impacts))
	}
	initial := []int{30, 80, 50, 100}
	dmg := int(out.ImpactForce)
	for i, r := range out.Impacts {
		if r.Initial != initial[i] {
			t.Errorf("impact %d: expected initial %d, got %d", i, initial[i], r.Initial)
		}
		if r.Remaining != initial[i]-dmg {
			t.Errorf("impact %d: expected remaining %d, got %d", i, initial[i]-dmg, r.Remaining)
		}
	}
	if out.Impacts[0].Target != "Obstacle (Wood)" || out.Impacts[0].Status != damage.Destroyed {
		t.Errorf("unexpected first impact %+v", out.Impacts[0])
	}
}

func TestRunAttackMultiplier(t *testing.T) {
	normal, err := Run(context.Background(), classic(t), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	cfg := classic(t)
	cfg.Attack = "explosive"
	explosive, err := Run(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if explosive.Multiplier != 1.5 {
		t.Errorf("expected multiplier 1.5, got %f", explosive.Multiplier)
	}
	if math.Abs(explosive.ImpactForce-1.5*normal.ImpactForce) > 1e-9 {
		t.Errorf("expected %f, got %f", 1.5*normal.ImpactForce, explosive.ImpactForce)
	}
}

func TestRunDetectsCollision(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Obstacles = []config.ObstacleConfig{
		{Label: "far", Bounds: &impact.Bounds{X: 50, Width: 5, Height: 10}},
		{Label: "near", Kind: "wall", Durability: 500, Bounds: &impact.Bounds{X: 2, Width: 1, Height: 10}},
	}

	out, err := Run(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if out.Collision == nil {
		t.Fatal("expected collision")
	}
	if out.Collision.Obstacle.Label != "near" {
		t.Errorf("expected near, got %s", out.Collision.Obstacle.Label)
	}
	if x := out.Collision.Sample.X; x < 2 || x > 3 {
		t.Errorf("collision sample outside wall: x=%f", x)
	}
	if len(out.Impacts) != 1 || out.Impacts[0].Status != damage.Damaged {
		t.Errorf("expected one damaged obstacle, got %+v", out.Impacts)
	}
}

func TestExperimentAccumulatesDamage(t *testing.T) {
	e, err := New(classic(t), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	first, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for i := range first.Impacts {
		if second.Impacts[i].Initial != first.Impacts[i].Remaining {
			t.Errorf("impact %d: second run should start at %d, got %d",
				i, first.Impacts[i].Remaining, second.Impacts[i].Initial)
		}
	}
}

func TestNewCopiesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Obstacles = []config.ObstacleConfig{{Label: "w", Bounds: &impact.Bounds{X: 1, Width: 1, Height: 1}}}

	e, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	cfg.Obstacles[0].Bounds.X = 100
	cfg.Angle = 10

	if got := e.Obstacles().List()[0].Bounds.X; got != 1 {
		t.Errorf("registry shares config bounds: x=%f", got)
	}
	if e.Params().AngleDeg != 45 {
		t.Errorf("params changed with config: %f", e.Params().AngleDeg)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
		target error
	}{
		{"bird", func(c *config.Config) { c.Bird = "chuck" }, config.ErrUnknownBird},
		{"boost", func(c *config.Config) { c.Boost = 0.5 }, config.ErrInvalidBoost},
		{"mode", func(c *config.Config) { c.Attack = "laser" }, damage.ErrUnknownMode},
		{"dt", func(c *config.Config) { c.Dt = -1 }, flight.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(cfg)
			if _, err := New(cfg, zerolog.Nop()); !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestRunMaxSteps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxSteps = 3

	_, err := Run(context.Background(), cfg, zerolog.Nop())
	if !errors.Is(err, flight.ErrIntegrationDivergence) {
		t.Errorf("expected divergence, got %v", err)
	}
}

func TestShootOverridesOneLaunch(t *testing.T) {
	e, err := New(classic(t), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	out, err := e.Shoot(context.Background(), Shot{Bird: "red", Angle: Float(30), Attack: "accelerated"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Bird != "red" || out.Result.Params.Mass != 1.5 || out.Result.Params.AngleDeg != 30 {
		t.Errorf("shot not applied: bird %s params %+v", out.Bird, out.Result.Params)
	}
	if out.Multiplier != 1.3 {
		t.Errorf("expected multiplier 1.3, got %f", out.Multiplier)
	}

	next, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if next.Bird != "stella" || next.Result.Params.AngleDeg != 45 {
		t.Errorf("shot leaked into the base config: %s %+v", next.Bird, next.Result.Params)
	}
	if next.Impacts[3].Initial != out.Impacts[3].Remaining {
		t.Errorf("roster not shared between shots")
	}
}

func TestShootAcceptsZeroOverrides(t *testing.T) {
	e, err := New(classic(t), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	out, err := e.Shoot(context.Background(), Shot{Angle: Float(0), Force: Float(0)})
	if err != nil {
		t.Fatal(err)
	}
	p := out.Result.Params
	if p.AngleDeg != 0 || p.LaunchForce != 0 {
		t.Errorf("zero overrides ignored: %+v", p)
	}
	if out.Result.InitialSpeed != 0 || len(out.Result.Trajectory) != 2 {
		t.Errorf("expected a drop from rest, got %d samples at v0=%f", len(out.Result.Trajectory), out.Result.InitialSpeed)
	}
}

func TestShootRejectsInvalidOverrides(t *testing.T) {
	e, err := New(classic(t), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Shoot(context.Background(), Shot{Boost: Float(7)}); !errors.Is(err, config.ErrInvalidBoost) {
		t.Errorf("expected invalid boost, got %v", err)
	}
	if _, err := e.Shoot(context.Background(), Shot{Attack: "laser"}); !errors.Is(err, damage.ErrUnknownMode) {
		t.Errorf("expected unknown mode, got %v", err)
	}
}

func TestCleared(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Targets = []config.TargetConfig{{Name: "pig", Health: 150}}
	e, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if e.Cleared() {
		t.Fatal("fresh roster should not be cleared")
	}

	for i := 0; i < 3 && !e.Cleared(); i++ {
		if _, err := e.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if !e.Cleared() {
		t.Error("three ~90 N hits should eliminate a 150 health pig")
	}

	empty, err := New(config.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if empty.Cleared() {
		t.Error("roster without targets is never cleared")
	}
}
