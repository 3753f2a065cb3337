package control

import "github.com/tufankoc/acik-kaynak-roket/internal/flight"

// Fixed holds one throttle fraction for the whole run.
type Fixed struct {
	fraction float64
}

func NewFixed(fraction float64) *Fixed {
	return &Fixed{fraction: clamp(fraction)}
}

func (f *Fixed) Throttle(flight.VehicleState) float64 {
	return f.fraction
}
