package flight

import "math"

const (
	// MaxThrust is the full-throttle engine thrust in newtons.
	MaxThrust = 5e6
	// SpecificImpulse of the engine in seconds.
	SpecificImpulse = 300.0
	// StructureFraction is structure mass as a fraction of fuel mass.
	StructureFraction = 0.1

	kgPerTonne = 1000.0
)

// RunConfiguration holds the immutable launch parameters of one run.
type RunConfiguration struct {
	FuelMass        float64 `json:"fuel_mass" yaml:"fuel_mass"`
	PayloadMass     float64 `json:"payload_mass" yaml:"payload_mass"`
	StructureMass   float64 `json:"structure_mass" yaml:"structure_mass"`
	MaxThrust       float64 `json:"max_thrust" yaml:"max_thrust"`
	SpecificImpulse float64 `json:"specific_impulse" yaml:"specific_impulse"`
}

// NewRunConfiguration builds a configuration from fuel and payload in tonnes.
// Negative or non-finite tonnage counts as zero.
func NewRunConfiguration(fuelTonnes, payloadTonnes float64) RunConfiguration {
	fuel := nonNegative(fuelTonnes) * kgPerTonne
	return RunConfiguration{
		FuelMass:        fuel,
		PayloadMass:     nonNegative(payloadTonnes) * kgPerTonne,
		StructureMass:   StructureFraction * fuel,
		MaxThrust:       MaxThrust,
		SpecificImpulse: SpecificImpulse,
	}
}

// DryMass is payload plus structure.
func (c RunConfiguration) DryMass() float64 { return c.PayloadMass + c.StructureMass }

// WetMass is the liftoff mass.
func (c RunConfiguration) WetMass() float64 { return c.FuelMass + c.DryMass() }

// MassFlow returns propellant consumption in kg/s at the given thrust.
func (c RunConfiguration) MassFlow(thrust float64) float64 {
	if c.SpecificImpulse <= 0 {
		return 0
	}
	return thrust / (c.SpecificImpulse * G0)
}

// VehicleState is the mutable flight record. The zero value is the idle state.
type VehicleState struct {
	Altitude            float64 `json:"altitude"`
	Velocity            float64 `json:"velocity"`
	Acceleration        float64 `json:"acceleration"`
	FuelMass            float64 `json:"fuel_mass"`
	TotalMass           float64 `json:"total_mass"`
	MissionTime         float64 `json:"mission_time"`
	PeakDynamicPressure float64 `json:"peak_dynamic_pressure"`
}

// NewVehicleState returns the state at ignition for cfg.
func NewVehicleState(cfg RunConfiguration) VehicleState {
	return VehicleState{
		FuelMass:  cfg.FuelMass,
		TotalMass: cfg.WetMass(),
	}
}

// FuelPercent is remaining fuel as a percentage of the loaded fuel, in [0, 100].
func (s VehicleState) FuelPercent(cfg RunConfiguration) float64 {
	if cfg.FuelMass <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, s.FuelMass/cfg.FuelMass*100))
}

// GForce is acceleration in multiples of standard gravity.
func (s VehicleState) GForce() float64 { return s.Acceleration / G0 }

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
