package control

import "github.com/tufankoc/acik-kaynak-roket/internal/flight"

// PID commands throttle to hold a target vertical velocity. Bias is added to
// the loop output before clamping.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Bias     float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Compute returns the raw loop output for velocity at mission time t.
func (p *PID) Compute(velocity, t float64) float64 {
	err := p.Target - velocity

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.Kp * err
	}

	dt := t - p.prevT
	if dt > 0 {
		derivative := (err - p.prevErr) / dt
		u := p.Kp*err + p.Ki*(p.integral+err*dt) + p.Kd*derivative

		// no integration while saturated
		if out := p.Bias + u; out > 0 && out < 1 {
			p.integral += err * dt
		}

		p.prevErr = err
		p.prevT = t

		return u
	}
	return p.Kp*err + p.Ki*p.integral
}

func (p *PID) Throttle(s flight.VehicleState) float64 {
	return clamp(p.Bias + p.Compute(s.Velocity, s.MissionTime))
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
		"Bias":   p.Bias,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	case "Bias":
		p.Bias = value
	}
}

func clamp(u float64) float64 {
	if u != u || u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}
