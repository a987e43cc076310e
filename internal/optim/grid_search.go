package optim

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/birdsim/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no candidate satisfies the objective")

// Objective scores an outcome; lower is better. ok=false discards the
// candidate.
type Objective func(out *experiment.Outcome) (score float64, ok bool)

// GridSearch tries every combination of shot parameters against a fresh
// experiment, so candidates never share damage state.
type GridSearch struct {
	Angles []float64
	Forces []float64
	Boosts []float64
}

type Candidate struct {
	Shot    experiment.Shot
	Score   float64
	Outcome *experiment.Outcome
}

// Search returns the best candidate. Candidates that fail to simulate are
// skipped; cancellation stops the search.
func (g *GridSearch) Search(
	ctx context.Context,
	build func() (*experiment.Experiment, error),
	objective Objective,
) (Candidate, error) {
	best := Candidate{Score: math.Inf(1)}
	found := false

	for _, shot := range g.shots() {
		if err := ctx.Err(); err != nil {
			return Candidate{}, err
		}

		exp, err := build()
		if err != nil {
			return Candidate{}, err
		}
		out, err := exp.Shoot(ctx, shot)
		if err != nil {
			if ctx.Err() != nil {
				return Candidate{}, ctx.Err()
			}
			continue
		}

		score, ok := objective(out)
		if !ok || score >= best.Score {
			continue
		}
		best = Candidate{Shot: shot, Score: score, Outcome: out}
		found = true
	}

	if !found {
		return Candidate{}, ErrNoCandidate
	}
	return best, nil
}

// shots expands the grid. An empty axis keeps the experiment's value.
func (g *GridSearch) shots() []experiment.Shot {
	axis := func(v []float64) []*float64 {
		if len(v) == 0 {
			return []*float64{nil}
		}
		out := make([]*float64, len(v))
		for i, x := range v {
			out[i] = experiment.Float(x)
		}
		return out
	}

	var out []experiment.Shot
	for _, a := range axis(g.Angles) {
		for _, f := range axis(g.Forces) {
			for _, b := range axis(g.Boosts) {
				out = append(out, experiment.Shot{Angle: a, Force: f, Boost: b})
			}
		}
	}
	return out
}

// HitObstacle accepts shots whose first collision is the labelled obstacle
// and prefers the strongest impact.
func HitObstacle(label string) Objective {
	return func(out *experiment.Outcome) (float64, bool) {
		if out.Collision == nil || out.Collision.Obstacle.Label != label {
			return 0, false
		}
		return -out.ImpactForce, true
	}
}

// LandAt prefers shots whose ground contact is closest to x. Shots that
// collide before landing are discarded.
func LandAt(x float64) Objective {
	return func(out *experiment.Outcome) (float64, bool) {
		if out.Collision != nil {
			return 0, false
		}
		last, ok := out.Result.Trajectory.Last()
		if !ok {
			return 0, false
		}
		return math.Abs(last.X - x), true
	}
}
