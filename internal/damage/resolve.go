package damage

import "sync"

// ImpactResult records one damage application.
type ImpactResult struct {
	Target    string `json:"target"`
	Initial   int    `json:"initial"`
	Remaining int    `json:"remaining"`
	Status    Status `json:"status"`
}

// Resolve applies force to every entity in order.
func Resolve(force float64, entities []*Damageable) []ImpactResult {
	results := make([]ImpactResult, 0, len(entities))
	for _, e := range entities {
		before, after := e.apply(force)
		results = append(results, ImpactResult{
			Target:    e.DisplayLabel(),
			Initial:   before,
			Remaining: after,
			Status:    e.status(after <= 0),
		})
	}
	return results
}

// Roster is an ordered registry of damageable entities.
type Roster struct {
	mu       sync.RWMutex
	entities []*Damageable
}

func NewRoster(entities ...*Damageable) *Roster {
	return &Roster{entities: append([]*Damageable(nil), entities...)}
}

func (r *Roster) Add(e *Damageable) {
	r.mu.Lock()
	r.entities = append(r.entities, e)
	r.mu.Unlock()
}

// Remove deletes every entity with the given label and reports how many
// were removed.
func (r *Roster) Remove(label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entities[:0]
	removed := 0
	for _, e := range r.entities {
		if e.Label == label {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entities = kept
	return removed
}

func (r *Roster) Clear() {
	r.mu.Lock()
	r.entities = nil
	r.mu.Unlock()
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// List returns the entities in registration order. The slice is a copy;
// the entities are shared.
func (r *Roster) List() []*Damageable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Damageable, len(r.entities))
	copy(out, r.entities)
	return out
}

// Resolve applies force to every registered entity.
func (r *Roster) Resolve(force float64) []ImpactResult {
	return Resolve(force, r.List())
}
