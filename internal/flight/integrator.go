package flight

import "math"

const (
	// MaxStep caps a single integration step in seconds.
	MaxStep = 0.1
	// MaxQThreshold marks the high dynamic pressure band in pascals.
	MaxQThreshold = 5000.0
	// CrashSpeed is the touchdown speed in m/s above which contact is a crash.
	CrashSpeed = 10.0
	// ApogeeFloor is the altitude in metres below which apogee is not reported.
	ApogeeFloor = 100.0
	// DragFactor is the lumped Cd·A term in m².
	DragFactor = 0.5
)

// StepResult describes what a single step did.
type StepResult struct {
	Phase           Phase
	Dt              float64
	Throttle        float64
	Thrust          float64
	Drag            float64
	DynamicPressure float64
	MaxQ            bool
	ImpactSpeed     float64
	Events          []Event
}

// Integrator advances a VehicleState with a semi-implicit Euler scheme.
// It keeps the Max-Q band flag between steps, so use one Integrator per run.
type Integrator struct {
	Config        RunConfiguration
	MaxStep       float64
	MaxQThreshold float64
	CrashSpeed    float64
	ApogeeFloor   float64

	inMaxQ bool
}

func NewIntegrator(cfg RunConfiguration) *Integrator {
	return &Integrator{
		Config:        cfg,
		MaxStep:       MaxStep,
		MaxQThreshold: MaxQThreshold,
		CrashSpeed:    CrashSpeed,
		ApogeeFloor:   ApogeeFloor,
	}
}

// Reset clears the Max-Q band flag.
func (in *Integrator) Reset() {
	in.inMaxQ = false
}

// Step advances s by min(rawDt, MaxStep) seconds at the given throttle fraction
// and returns the resulting phase. Steps on a terminal phase are no-ops.
func (in *Integrator) Step(s *VehicleState, phase Phase, rawDt, throttle float64) StepResult {
	if phase.Terminal() {
		return StepResult{Phase: phase}
	}

	dt := clampStep(rawDt, in.MaxStep)
	throttle = clampUnit(throttle)
	res := StepResult{Phase: PhaseCoast, Dt: dt, Throttle: throttle}

	density, gravity := Atmosphere(s.Altitude)

	res.Drag = 0.5 * density * s.Velocity * s.Velocity * DragFactor * sign(s.Velocity)

	q := DynamicPressure(density, s.Velocity)
	res.DynamicPressure = q
	s.PeakDynamicPressure = math.Max(s.PeakDynamicPressure, q)
	res.MaxQ = q > in.MaxQThreshold
	switch {
	case res.MaxQ && !in.inMaxQ:
		res.Events = append(res.Events, in.event(EventMaxQEntered, s))
	case !res.MaxQ && in.inMaxQ:
		res.Events = append(res.Events, in.event(EventMaxQExited, s))
	}
	in.inMaxQ = res.MaxQ

	if s.FuelMass > 0 {
		res.Phase = PhasePowered
		res.Thrust = in.Config.MaxThrust * throttle
		burned := math.Min(in.Config.MassFlow(res.Thrust)*dt, s.FuelMass)
		s.FuelMass -= burned
		s.TotalMass -= burned
		if s.FuelMass <= 0 {
			s.FuelMass = 0
			res.Phase = PhaseCoast
			res.Events = append(res.Events, in.event(EventMECO, s))
		}
	}

	if s.TotalMass > 0 {
		s.Acceleration = (res.Thrust - s.TotalMass*gravity - res.Drag) / s.TotalMass
	} else {
		s.Acceleration = -gravity
	}

	prevVelocity := s.Velocity
	s.Velocity += s.Acceleration * dt
	s.Altitude += s.Velocity * dt
	s.MissionTime += dt

	if s.Altitude < 0 {
		res.ImpactSpeed = math.Abs(s.Velocity)
		s.Altitude = 0
		s.Velocity = 0
		s.Acceleration = 0
		if res.ImpactSpeed > in.CrashSpeed {
			res.Phase = PhaseCrashed
			res.Events = append(res.Events, in.event(EventCrashed, s))
		} else {
			res.Phase = PhaseLanded
			res.Events = append(res.Events, in.event(EventLanded, s))
		}
		in.inMaxQ = false
		return res
	}

	if prevVelocity > 0 && s.Velocity < 0 && s.Altitude > in.ApogeeFloor {
		res.Events = append(res.Events, in.event(EventApogee, s))
	}

	return res
}

func (in *Integrator) event(kind EventKind, s *VehicleState) Event {
	return Event{Kind: kind, MissionTime: s.MissionTime, Altitude: s.Altitude, Velocity: s.Velocity}
}

func clampStep(rawDt, maxStep float64) float64 {
	if math.IsNaN(rawDt) || rawDt < 0 {
		return 0
	}
	if maxStep > 0 && rawDt > maxStep {
		return maxStep
	}
	return rawDt
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
