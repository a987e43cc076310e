package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/san-kum/birdsim/internal/impact"
)

var Birds = map[string]float64{
	"blues":  0.7,
	"stella": 1.0,
	"red":    1.5,
}

// Boosts are the allowed launch-force multipliers.
var Boosts = []float64{1.0, 1.2, 1.5, 2.0}

func MassOf(bird string) (float64, error) {
	m, ok := Birds[strings.ToLower(strings.TrimSpace(bird))]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownBird, bird)
	}
	return m, nil
}

// ListBirds returns bird names ordered by mass.
func ListBirds() []string {
	names := make([]string, 0, len(Birds))
	for name := range Birds {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return Birds[names[i]] < Birds[names[j]] })
	return names
}

func ValidateBoost(b float64) error {
	if !slices.Contains(Boosts, b) {
		return fmt.Errorf("%w: %g (allowed %v)", ErrInvalidBoost, b, Boosts)
	}
	return nil
}

func bounds(x, w, h float64) *impact.Bounds {
	return &impact.Bounds{X: x, Width: w, Height: h}
}

var Presets = map[string]func(*Config){
	// Destructible blocks and pigs without geometry: every launch hits them.
	"classic": func(c *Config) {
		c.Obstacles = []ObstacleConfig{
			{Label: "Wood", Durability: 30},
			{Label: "Stone", Durability: 80},
		}
		c.Targets = []TargetConfig{
			{Name: "Green Pig", Health: 50},
			{Name: "Big Pig", Health: 100},
		}
	},
	"realtime": func(c *Config) {
		c.Force = 30
		c.Dt = 0.01
		c.Obstacles = []ObstacleConfig{
			{Label: "wall-1", Kind: string(impact.Wall), Bounds: bounds(20, 5, 10)},
			{Label: "wall-2", Kind: string(impact.Wall), Bounds: bounds(40, 10, 5)},
			{Label: "wall-3", Kind: string(impact.Wall), Bounds: bounds(70, 15, 8)},
		}
	},
	"vacuum": func(c *Config) {
		c.DragCoefficient = 0
	},
}

// GetPreset returns DefaultConfig with the named preset applied.
func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
