package metrics

import (
	"math"

	"github.com/san-kum/birdsim/internal/flight"
)

// MaxHeight tracks the highest recorded y.
type MaxHeight struct {
	name string
	max  float64
	seen bool
}

func NewMaxHeight() *MaxHeight {
	return &MaxHeight{name: "max_height"}
}

func (m *MaxHeight) Name() string { return m.name }

func (m *MaxHeight) Observe(s flight.Sample) {
	if !m.seen || s.Y > m.max {
		m.max = s.Y
	}
	m.seen = true
}

func (m *MaxHeight) Value() float64 { return m.max }

func (m *MaxHeight) Reset() {
	m.max = 0
	m.seen = false
}

// ApexTime is the time at which MaxHeight was reached.
type ApexTime struct {
	name string
	max  float64
	time float64
	seen bool
}

func NewApexTime() *ApexTime {
	return &ApexTime{name: "apex_time"}
}

func (a *ApexTime) Name() string { return a.name }

func (a *ApexTime) Observe(s flight.Sample) {
	if !a.seen || s.Y > a.max {
		a.max = s.Y
		a.time = s.Time
	}
	a.seen = true
}

func (a *ApexTime) Value() float64 { return a.time }

func (a *ApexTime) Reset() {
	a.max, a.time = 0, 0
	a.seen = false
}

// PeakSpeed tracks the fastest recorded speed.
type PeakSpeed struct {
	name string
	max  float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(s flight.Sample) {
	p.max = math.Max(p.max, s.Speed)
}

func (p *PeakSpeed) Value() float64 { return p.max }

func (p *PeakSpeed) Reset() { p.max = 0 }
