package metrics

import (
	"math"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

// Apogee is the highest altitude reached, in metres.
type Apogee struct {
	peak float64
}

func NewApogee() *Apogee { return &Apogee{} }

func (a *Apogee) Name() string { return "apogee_m" }

func (a *Apogee) Observe(s telemetry.Snapshot) {
	a.peak = math.Max(a.peak, s.State.Altitude)
}

func (a *Apogee) Value() float64 { return a.peak }
func (a *Apogee) Reset()         { a.peak = 0 }

// MaxSpeed is the largest vertical speed in either direction.
type MaxSpeed struct {
	peak float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed_mps" }

func (m *MaxSpeed) Observe(s telemetry.Snapshot) {
	m.peak = math.Max(m.peak, math.Abs(s.State.Velocity))
}

func (m *MaxSpeed) Value() float64 { return m.peak }
func (m *MaxSpeed) Reset()         { m.peak = 0 }

// PeakG is the largest net acceleration magnitude in units of G0.
type PeakG struct {
	peak float64
}

func NewPeakG() *PeakG { return &PeakG{} }

func (p *PeakG) Name() string { return "peak_g" }

func (p *PeakG) Observe(s telemetry.Snapshot) {
	p.peak = math.Max(p.peak, math.Abs(s.GForce()))
}

func (p *PeakG) Value() float64 { return p.peak }
func (p *PeakG) Reset()         { p.peak = 0 }

// BurnTime is the mission time at engine cutoff, or the current mission
// time while the engine is still burning.
type BurnTime struct {
	t float64
}

func NewBurnTime() *BurnTime { return &BurnTime{} }

func (b *BurnTime) Name() string { return "burn_time_s" }

func (b *BurnTime) Observe(s telemetry.Snapshot) {
	for _, e := range s.Events {
		if e.Kind == flight.EventMECO {
			b.t = e.MissionTime
			return
		}
	}
	if s.Phase == flight.PhasePowered {
		b.t = s.State.MissionTime
	}
}

func (b *BurnTime) Value() float64 { return b.t }
func (b *BurnTime) Reset()         { b.t = 0 }
