package control

import "github.com/tufankoc/acik-kaynak-roket/internal/flight"

// Manual is the operator's throttle lever, held as an integer percentage.
type Manual struct {
	percent int
}

func NewManual(percent int) *Manual {
	m := &Manual{}
	m.Set(percent)
	return m
}

// Set moves the lever, clamped to [0, 100].
func (m *Manual) Set(percent int) {
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}
	m.percent = percent
}

// Nudge moves the lever by delta percent.
func (m *Manual) Nudge(delta int) { m.Set(m.percent + delta) }

func (m *Manual) Percent() int { return m.percent }

// Throttle returns the lever position as a fraction.
func (m *Manual) Throttle(flight.VehicleState) float64 {
	return float64(m.percent) / 100
}
