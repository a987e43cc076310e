package metrics

import "github.com/san-kum/birdsim/internal/flight"

// Range is the horizontal distance of the last recorded sample.
type Range struct {
	name string
	x    float64
}

func NewRange() *Range {
	return &Range{name: "range"}
}

func (r *Range) Name() string { return r.name }

func (r *Range) Observe(s flight.Sample) { r.x = s.X }

func (r *Range) Value() float64 { return r.x }

func (r *Range) Reset() { r.x = 0 }

// FlightTime is the time of the last recorded sample.
type FlightTime struct {
	name string
	t    float64
}

func NewFlightTime() *FlightTime {
	return &FlightTime{name: "flight_time"}
}

func (f *FlightTime) Name() string { return f.name }

func (f *FlightTime) Observe(s flight.Sample) { f.t = s.Time }

func (f *FlightTime) Value() float64 { return f.t }

func (f *FlightTime) Reset() { f.t = 0 }

// Defaults returns a fresh set of the metrics reported for every run.
func Defaults() []flight.Metric {
	return []flight.Metric{
		NewMaxHeight(),
		NewApexTime(),
		NewRange(),
		NewFlightTime(),
		NewPeakSpeed(),
	}
}
