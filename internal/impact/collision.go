package impact

import "github.com/san-kum/birdsim/internal/flight"

// Collision is the first trajectory sample found inside an obstacle.
type Collision struct {
	Index    int           `json:"index"`
	Sample   flight.Sample `json:"sample"`
	Obstacle Obstacle      `json:"obstacle"`
}

// FindCollision scans samples in time order and, for each sample, the
// obstacles in order. The first hit wins; obstacles without bounds are
// skipped.
func FindCollision(traj flight.Trajectory, obstacles []Obstacle) (Collision, bool) {
	for i, s := range traj {
		if o, ok := Hit(s, obstacles); ok {
			return Collision{Index: i, Sample: s, Obstacle: o}, true
		}
	}
	return Collision{}, false
}

// Hit reports the first obstacle containing sample s.
func Hit(s flight.Sample, obstacles []Obstacle) (Obstacle, bool) {
	for _, o := range obstacles {
		if o.Bounds != nil && o.Bounds.Contains(s.X, s.Y) {
			return o, true
		}
	}
	return Obstacle{}, false
}

// Find runs FindCollision against a snapshot of the registry.
func (r *Registry) Find(traj flight.Trajectory) (Collision, bool) {
	return FindCollision(traj, r.List())
}
