package metrics

import (
	"math"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

// Energy is the peak specific mechanical energy (J/kg): kinetic plus the
// potential against local gravity.
type Energy struct {
	name string
	peak float64
}

func NewEnergy() *Energy {
	return &Energy{name: "specific_energy_jkg"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s telemetry.Snapshot) {
	_, g := flight.Atmosphere(s.State.Altitude)
	v := s.State.Velocity
	e.peak = math.Max(e.peak, 0.5*v*v+g*s.State.Altitude)
}

func (e *Energy) Value() float64 { return e.peak }

func (e *Energy) Reset() { e.peak = 0 }
