package metrics

import "github.com/tufankoc/acik-kaynak-roket/internal/telemetry"

// MaxQ is the peak dynamic pressure of the run in pascals.
type MaxQ struct {
	peak float64
}

func NewMaxQ() *MaxQ { return &MaxQ{} }

func (m *MaxQ) Name() string { return "max_q_pa" }

func (m *MaxQ) Observe(s telemetry.Snapshot) {
	if s.State.PeakDynamicPressure > m.peak {
		m.peak = s.State.PeakDynamicPressure
	}
}

func (m *MaxQ) Value() float64 { return m.peak }
func (m *MaxQ) Reset()         { m.peak = 0 }

// MaxQDwell is the fraction of stepped frames spent above the max-Q threshold.
type MaxQDwell struct {
	inside  int
	samples int
}

func NewMaxQDwell() *MaxQDwell { return &MaxQDwell{} }

func (d *MaxQDwell) Name() string { return "max_q_dwell" }

func (d *MaxQDwell) Observe(s telemetry.Snapshot) {
	if s.Step == 0 {
		return
	}
	d.samples++
	if s.MaxQ {
		d.inside++
	}
}

func (d *MaxQDwell) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return float64(d.inside) / float64(d.samples)
}

func (d *MaxQDwell) Reset() {
	d.inside = 0
	d.samples = 0
}
