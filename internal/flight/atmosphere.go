package flight

import "math"

const (
	// G0 is standard gravity in m/s².
	G0 = 9.80665
	// EarthRadius is the mean Earth radius in metres.
	EarthRadius = 6371000.0
	// SeaLevelDensity is air density at zero altitude in kg/m³.
	SeaLevelDensity = 1.225
	// ScaleHeight is the e-folding height of the density profile in metres.
	ScaleHeight = 8500.0
)

// Atmosphere returns air density (kg/m³) and gravitational acceleration (m/s²)
// at the given altitude in metres.
func Atmosphere(altitude float64) (density, gravity float64) {
	r := EarthRadius / (EarthRadius + altitude)
	gravity = G0 * r * r
	density = SeaLevelDensity * math.Exp(-altitude/ScaleHeight)
	return density, gravity
}

// DynamicPressure is 0.5·ρ·v² in pascals.
func DynamicPressure(density, velocity float64) float64 {
	return 0.5 * density * velocity * velocity
}
