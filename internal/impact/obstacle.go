package impact

import (
	"fmt"
	"strings"
	"sync"
)

type Kind string

const (
	Wall  Kind = "wall"
	Pit   Kind = "pit"
	Cloud Kind = "cloud"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Wall, Pit, Cloud:
		return k, nil
	case "":
		return Wall, nil
	default:
		return "", fmt.Errorf("unknown obstacle kind: %s", s)
	}
}

// Bounds is an axis-aligned box standing on the ground: it spans
// [X, X+Width] horizontally and [0, Height] vertically.
type Bounds struct {
	X      float64 `json:"x" yaml:"x"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (b Bounds) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y <= b.Height
}

// Obstacle is a registered obstacle. Obstacles without Bounds take part in
// damage resolution only and never collide.
type Obstacle struct {
	Label  string  `json:"label"`
	Kind   Kind    `json:"kind"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

func NewObstacle(label string, kind Kind, x, width, height float64) Obstacle {
	return Obstacle{
		Label:  label,
		Kind:   kind,
		Bounds: &Bounds{X: x, Width: width, Height: height},
	}
}

func (o Obstacle) Validate() error {
	if o.Bounds == nil {
		return nil
	}
	if o.Bounds.Width < 0 || o.Bounds.Height < 0 {
		return fmt.Errorf("obstacle %q: width and height must not be negative", o.Label)
	}
	return nil
}

// Registry is an ordered set of obstacles. Iteration order is
// registration order and decides ties in FindCollision.
type Registry struct {
	mu        sync.RWMutex
	obstacles []Obstacle
}

func NewRegistry(obstacles ...Obstacle) *Registry {
	return &Registry{obstacles: append([]Obstacle(nil), obstacles...)}
}

func (r *Registry) Add(o Obstacle) error {
	if err := o.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obstacles = append(r.obstacles, o)
	return nil
}

// Remove deletes every obstacle with the given label and reports how many
// were removed.
func (r *Registry) Remove(label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.obstacles[:0]
	removed := 0
	for _, o := range r.obstacles {
		if o.Label == label {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	r.obstacles = kept
	return removed
}

func (r *Registry) Clear() {
	r.mu.Lock()
	r.obstacles = nil
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.obstacles)
}

// List returns a snapshot copy in registration order.
func (r *Registry) List() []Obstacle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Obstacle, len(r.obstacles))
	copy(out, r.obstacles)
	return out
}
