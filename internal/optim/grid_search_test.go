package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/san-kum/birdsim/internal/config"
	"github.com/san-kum/birdsim/internal/experiment"
	"github.com/san-kum/birdsim/internal/impact"
	"github.com/san-kum/birdsim/internal/sim"
)

func vacuum() *config.Config {
	cfg := config.DefaultConfig()
	cfg.DragCoefficient = 0
	cfg.Dt = 0.01
	return cfg
}

func builder(cfg *config.Config) func() (*experiment.Experiment, error) {
	return func() (*experiment.Experiment, error) {
		return experiment.New(cfg, zerolog.Nop())
	}
}

func TestGridSearchShots(t *testing.T) {
	g := &GridSearch{Angles: []float64{30, 45}, Forces: []float64{10, 20, 30}}
	shots := g.shots()
	if len(shots) != 6 {
		t.Fatalf("expected 6 shots, got %d", len(shots))
	}
	if shots[0].Boost != nil || *shots[5].Angle != 45 || *shots[5].Force != 30 {
		t.Errorf("unexpected grid %+v", shots)
	}
}

func TestGridSearchZeroAngle(t *testing.T) {
	cfg := vacuum()
	cfg.Angle = 45
	g := &GridSearch{Angles: []float64{0}}

	best, err := g.Search(context.Background(), builder(cfg), LandAt(0))
	if err != nil {
		t.Fatal(err)
	}
	if *best.Shot.Angle != 0 {
		t.Errorf("expected shot angle 0, got %f", *best.Shot.Angle)
	}
	if got := best.Outcome.Result.Params.AngleDeg; got != 0 {
		t.Errorf("simulated angle %f, want 0", got)
	}
}

func TestLandAtPrefersMaxRangeAngle(t *testing.T) {
	g := &GridSearch{Angles: sim.Angles(15, 75, 5)}

	// v0 = 20 m/s in vacuum reaches at most v²/g ≈ 40.8 m at 45°.
	cfg := vacuum()
	cfg.Force = 20
	best, err := g.Search(context.Background(), builder(cfg), LandAt(100))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(*best.Shot.Angle-45) > 5 {
		t.Errorf("expected about 45°, got %f", *best.Shot.Angle)
	}
}

func TestLandAtFindsShortShot(t *testing.T) {
	g := &GridSearch{Forces: []float64{5, 10, 15, 20}}

	// At 45° in vacuum range is v²/g: 10 m/s lands near 10.2 m.
	best, err := g.Search(context.Background(), builder(vacuum()), LandAt(10))
	if err != nil {
		t.Fatal(err)
	}
	if *best.Shot.Force != 10 {
		t.Errorf("expected force 10, got %f", *best.Shot.Force)
	}
	if best.Score > 0.5 {
		t.Errorf("expected landing within 0.5 m, score %f", best.Score)
	}
}

func TestHitObstacle(t *testing.T) {
	cfg := vacuum()
	cfg.Obstacles = []config.ObstacleConfig{
		{Label: "near", Bounds: &impact.Bounds{X: 3, Width: 1, Height: 0.5}},
		{Label: "tower", Bounds: &impact.Bounds{X: 8, Width: 1, Height: 20}},
	}
	g := &GridSearch{Angles: []float64{20, 45, 70}, Forces: []float64{10, 15, 20}}

	best, err := g.Search(context.Background(), builder(cfg), HitObstacle("tower"))
	if err != nil {
		t.Fatal(err)
	}
	if best.Outcome.Collision == nil || best.Outcome.Collision.Obstacle.Label != "tower" {
		t.Fatalf("expected a tower hit, got %+v", best.Outcome.Collision)
	}
	if best.Score != -best.Outcome.ImpactForce {
		t.Errorf("score should be the negated impact force")
	}
}

func TestSearchNoCandidate(t *testing.T) {
	g := &GridSearch{Angles: []float64{45}}
	_, err := g.Search(context.Background(), builder(vacuum()), HitObstacle("missing"))
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}
}

func TestSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := &GridSearch{Angles: []float64{30, 45}}
	_, err := g.Search(ctx, builder(vacuum()), LandAt(10))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled, got %v", err)
	}
}
