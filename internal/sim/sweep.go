package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/birdsim/internal/flight"
	"github.com/san-kum/birdsim/internal/integrators"
	"github.com/san-kum/birdsim/internal/metrics"
)

type SweepConfig struct {
	Workers  int
	MaxSteps int
	Logger   zerolog.Logger
}

type SweepPoint struct {
	AngleDeg float64
	Result   *flight.Result
}

// Sweep integrates base once per launch angle. Each worker owns its
// simulator, metrics and trajectory; points keep the order of angles.
func Sweep(ctx context.Context, base flight.Params, angles []float64, cfg SweepConfig) ([]SweepPoint, error) {
	points := make([]SweepPoint, len(angles))

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for i, angle := range angles {
		g.Go(func() error {
			p := base
			p.AngleDeg = angle

			s := New(integrators.NewEuler(),
				WithMetrics(metrics.Defaults()...),
				WithMaxSteps(cfg.MaxSteps),
				WithLogger(cfg.Logger),
			)
			res, err := s.Run(ctx, p)
			if err != nil {
				return fmt.Errorf("angle %g: %w", angle, err)
			}
			points[i] = SweepPoint{AngleDeg: angle, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Angles returns from, from+step, ... up to and including to.
func Angles(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// Best returns the point with the largest value of metric.
func Best(points []SweepPoint, metric string) (SweepPoint, bool) {
	var best SweepPoint
	found := false
	for _, pt := range points {
		if pt.Result == nil {
			continue
		}
		v, ok := pt.Result.Metrics[metric]
		if !ok {
			continue
		}
		if !found || v > best.Result.Metrics[metric] {
			best = pt
			found = true
		}
	}
	return best, found
}
