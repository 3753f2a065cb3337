package metrics

import "github.com/tufankoc/acik-kaynak-roket/internal/telemetry"

// Metric folds a stream of telemetry frames into one number.
type Metric interface {
	Name() string
	Observe(s telemetry.Snapshot)
	Value() float64
	Reset()
}

// Defaults is the metric set reported for every run.
func Defaults() []Metric {
	return []Metric{
		NewApogee(),
		NewMaxQ(),
		NewBurnTime(),
		NewPeakG(),
		NewMaxSpeed(),
		NewMaxQDwell(),
		NewControlEffort(),
		NewEnergy(),
	}
}

// Set feeds every frame it receives to its metrics. It satisfies
// telemetry.Sink so it can ride along with the other sinks of a run.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	if len(ms) == 0 {
		ms = Defaults()
	}
	return &Set{metrics: ms}
}

func (s *Set) Publish(snap telemetry.Snapshot) {
	for _, m := range s.metrics {
		m.Observe(snap)
	}
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Values returns the current value of each metric keyed by name.
func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
