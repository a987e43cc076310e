// Package damage models destructible obstacles and targets.
//
// Obstacles and targets share one record, [Damageable], with a kind that
// only changes how results are labelled. Counters never increase: forces
// are truncated toward zero and negative forces apply no damage.
package damage

import (
	"fmt"
	"math"
	"sync"
)

type Kind int

const (
	KindObstacle Kind = iota
	KindTarget
)

func (k Kind) String() string {
	if k == KindTarget {
		return "target"
	}
	return "obstacle"
}

type Status string

const (
	Destroyed  Status = "destroyed"
	Damaged    Status = "damaged"
	Eliminated Status = "eliminated"
	Injured    Status = "injured"
)

// maxDamage caps a single application so the integer conversion of very
// large forces stays defined.
const maxDamage = math.MaxInt32

// Damageable is an entity with an integer durability/health counter.
// Counter updates are serialized per entity.
type Damageable struct {
	Label string
	Kind  Kind

	mu      sync.Mutex
	counter int
}

func NewObstacle(material string, durability int) *Damageable {
	return &Damageable{Label: material, Kind: KindObstacle, counter: durability}
}

func NewTarget(name string, health int) *Damageable {
	return &Damageable{Label: name, Kind: KindTarget, counter: health}
}

func (d *Damageable) Counter() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counter
}

func (d *Damageable) Destroyed() bool {
	return d.Counter() <= 0
}

// ApplyDamage subtracts the truncated force from the counter and reports
// whether the entity is now destroyed (counter <= 0).
func (d *Damageable) ApplyDamage(force float64) (destroyed bool, counter int) {
	_, after := d.apply(force)
	return after <= 0, after
}

func (d *Damageable) apply(force float64) (before, after int) {
	dmg := Truncate(force)

	d.mu.Lock()
	defer d.mu.Unlock()
	before = d.counter
	d.counter -= dmg
	return before, d.counter
}

// DisplayLabel is the label shown in impact tables.
func (d *Damageable) DisplayLabel() string {
	if d.Kind == KindObstacle {
		return fmt.Sprintf("Obstacle (%s)", d.Label)
	}
	return d.Label
}

func (d *Damageable) status(destroyed bool) Status {
	switch {
	case d.Kind == KindTarget && destroyed:
		return Eliminated
	case d.Kind == KindTarget:
		return Injured
	case destroyed:
		return Destroyed
	default:
		return Damaged
	}
}

// Truncate converts a force to whole damage points, truncating toward
// zero. NaN and negative forces yield zero.
func Truncate(force float64) int {
	if math.IsNaN(force) || force <= 0 {
		return 0
	}
	if force >= maxDamage {
		return maxDamage
	}
	return int(force)
}
