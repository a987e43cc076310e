package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/birdsim/internal/config"
	"github.com/san-kum/birdsim/internal/experiment"
)

// Scenario is a scripted sequence of shots against one level. Damage
// carries over from shot to shot.
type Scenario struct {
	Name            string            `yaml:"name"`
	Description     string            `yaml:"description"`
	Level           config.Config     `yaml:"level"`
	Shots           []experiment.Shot `yaml:"shots"`
	StopWhenCleared bool              `yaml:"stop_when_cleared"`
}

// LoadScenario reads a scenario file. Level fields that are not set keep
// their defaults.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scenario := Scenario{Level: *config.DefaultConfig()}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Shots) == 0 {
		return nil, fmt.Errorf("scenario %q has no shots", scenario.Name)
	}

	return &scenario, nil
}

// RunScenario fires every shot in order and returns one outcome per shot
// fired. With StopWhenCleared it stops once all targets are eliminated.
func RunScenario(ctx context.Context, scenario *Scenario, log zerolog.Logger) ([]*experiment.Outcome, error) {
	exp, err := experiment.New(&scenario.Level, log)
	if err != nil {
		return nil, err
	}

	results := make([]*experiment.Outcome, 0, len(scenario.Shots))
	for i, shot := range scenario.Shots {
		out, err := exp.Shoot(ctx, shot)
		if err != nil {
			return results, fmt.Errorf("shot %d: %w", i+1, err)
		}
		results = append(results, out)

		log.Debug().Int("shot", i+1).Int("of", len(scenario.Shots)).Msg("shot fired")

		if scenario.StopWhenCleared && exp.Cleared() {
			log.Info().Int("shots", i+1).Msg("level cleared")
			break
		}
	}

	return results, nil
}

// MonteCarloConfig perturbs the launch uniformly within ±jitter.
type MonteCarloConfig struct {
	Trials      int
	AngleJitter float64
	ForceJitter float64
	Seed        int64
}

// MonteCarloResult counts first collisions per obstacle label.
type MonteCarloResult struct {
	Trials    int
	Hits      map[string]int
	Misses    int
	MeanForce float64
}

func (r MonteCarloResult) HitRate(label string) float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Hits[label]) / float64(r.Trials)
}

// RunMonteCarlo estimates how often a noisy launch hits each obstacle.
// Every trial runs against a fresh level.
func RunMonteCarlo(ctx context.Context, cfg *config.Config, mc MonteCarloConfig, log zerolog.Logger) (MonteCarloResult, error) {
	result := MonteCarloResult{Hits: make(map[string]int)}

	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var forceSum float64
	for trial := 0; trial < mc.Trials; trial++ {
		shot := experiment.Shot{
			Angle: experiment.Float(cfg.Angle + (rng.Float64()-0.5)*2*mc.AngleJitter),
			Force: experiment.Float(math.Max(0, cfg.Force+(rng.Float64()-0.5)*2*mc.ForceJitter)),
		}

		exp, err := experiment.New(cfg, zerolog.Nop())
		if err != nil {
			return result, err
		}
		out, err := exp.Shoot(ctx, shot)
		if err != nil {
			return result, fmt.Errorf("trial %d: %w", trial+1, err)
		}

		result.Trials++
		forceSum += out.ImpactForce
		if out.Collision != nil {
			result.Hits[out.Collision.Obstacle.Label]++
		} else {
			result.Misses++
		}

		if (trial+1)%100 == 0 {
			log.Debug().Int("trials", trial+1).Int("of", mc.Trials).Msg("monte carlo progress")
		}
	}

	if result.Trials > 0 {
		result.MeanForce = forceSum / float64(result.Trials)
	}
	return result, nil
}
