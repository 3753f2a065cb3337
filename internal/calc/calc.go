// Package calc holds the stateless rocketry calculators.
package calc

import (
	"math"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
)

const (
	SeaLevelPressure = 101325.0
	// ScaleHeightKm is the scale height the readout uses, in kilometres.
	ScaleHeightKm = 8.5

	OrbitalSpeed = 7000.0
	EscapeSpeed  = 11000.0
)

// DeltaV is the ideal rocket equation, isp·G0·ln(wet/dry). Non-positive
// inputs or wet <= dry give 0.
func DeltaV(isp, wet, dry float64) float64 {
	if !(isp > 0 && wet > 0 && dry > 0) || wet <= dry {
		return 0
	}
	return isp * flight.G0 * math.Log(wet/dry)
}

// TWR is thrust over sea-level weight. mass is in kilograms.
func TWR(thrust, mass float64) float64 {
	if !(mass > 0) || !(thrust > 0) {
		return 0
	}
	return thrust / (mass * flight.G0)
}

type TWRClass int

// NoReading is the class of a ratio computed from missing thrust or mass.
const (
	NoReading TWRClass = iota
	Grounded
	Marginal
	FlightReady
)

func (c TWRClass) String() string {
	switch c {
	case NoReading:
		return "-"
	case Grounded:
		return "GROUNDED"
	case Marginal:
		return "MARGINAL"
	}
	return "FLIGHT READY"
}

func ClassifyTWR(twr float64) TWRClass {
	switch {
	case !(twr > 0):
		return NoReading
	case twr < 1:
		return Grounded
	case twr < 1.2:
		return Marginal
	}
	return FlightReady
}

type AtmosphereReading struct {
	Pressure float64 `json:"pressure_pa"`
	Density  float64 `json:"density_kgm3"`
}

// Atmosphere reads the exponential atmosphere at altKm kilometres. Below
// sea level the curve is extrapolated.
func Atmosphere(altKm float64) AtmosphereReading {
	if math.IsNaN(altKm) {
		altKm = 0
	}
	f := math.Exp(-altKm / ScaleHeightKm)
	return AtmosphereReading{
		Pressure: SeaLevelPressure * f,
		Density:  flight.SeaLevelDensity * f,
	}
}

type Regime int

const (
	Suborbital Regime = iota
	Orbital
	Escape
)

func (r Regime) String() string {
	switch r {
	case Suborbital:
		return "SUBORBITAL"
	case Orbital:
		return "ORBITAL"
	}
	return "ESCAPE"
}

// OrbitRegime classifies a horizontal speed in m/s.
func OrbitRegime(speed float64) Regime {
	switch {
	case speed < OrbitalSpeed:
		return Suborbital
	case speed < EscapeSpeed:
		return Orbital
	}
	return Escape
}
