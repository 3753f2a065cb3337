package mission

import "github.com/tufankoc/acik-kaynak-roket/internal/flight"

// ThrottleSource supplies the throttle fraction in [0, 1]. It is sampled once
// per step, before integration.
type ThrottleSource interface {
	Throttle(state flight.VehicleState) float64
}

// ThrottleFunc adapts a function to ThrottleSource.
type ThrottleFunc func(flight.VehicleState) float64

func (f ThrottleFunc) Throttle(s flight.VehicleState) float64 { return f(s) }
