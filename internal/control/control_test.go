package control

import (
	"errors"
	"math"
	"testing"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
)

func TestManual(t *testing.T) {
	m := NewManual(120)
	if m.Percent() != 100 {
		t.Errorf("expected clamp to 100, got %d", m.Percent())
	}
	m.Nudge(-30)
	if got := m.Throttle(flight.VehicleState{}); got != 0.7 {
		t.Errorf("expected 0.7, got %f", got)
	}
	m.Nudge(-200)
	if m.Percent() != 0 {
		t.Errorf("expected clamp to 0, got %d", m.Percent())
	}
}

func TestFixed(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{0.5, 0.5},
		{2, 1},
		{-1, 0},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := NewFixed(tt.in).Throttle(flight.VehicleState{}); got != tt.expected {
			t.Errorf("NewFixed(%v): expected %f, got %f", tt.in, tt.expected, got)
		}
	}
}

func TestPIDDirection(t *testing.T) {
	pid := NewPID(0.1, 0, 0, 100)

	if u := pid.Compute(0, 0); u <= 0 {
		t.Error("PID should command more throttle below the target velocity")
	}
	pid.Reset()
	if u := pid.Compute(200, 0); u >= 0 {
		t.Error("PID should command less throttle above the target velocity")
	}
}

func TestPIDHoldsVelocity(t *testing.T) {
	cfg := flight.NewRunConfiguration(50, 5)
	s := flight.NewVehicleState(cfg)
	in := flight.NewIntegrator(cfg)

	pid := NewPID(0.02, 0.005, 0, 100)
	pid.Bias = 0.15

	phase := flight.PhasePowered
	for i := 0; i < 1200; i++ {
		phase = in.Step(&s, phase, 0.05, pid.Throttle(s)).Phase
		if phase.Terminal() {
			t.Fatalf("vehicle returned to the ground at step %d", i)
		}
	}

	if math.Abs(s.Velocity-100) > 5 {
		t.Errorf("expected velocity near 100 m/s, got %f", s.Velocity)
	}
}

func TestPIDParams(t *testing.T) {
	pid := NewPID(1, 2, 3, 4)
	pid.SetParam("Target", 50)
	pid.SetParam("Bias", 0.2)
	pid.SetParam("unknown", 9)

	params := pid.GetParams()
	if params["Target"] != 50 || params["Bias"] != 0.2 || params["Kd"] != 3 {
		t.Errorf("unexpected params %v", params)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	src, err := r.Get("pid", map[string]float64{"kp": 0.1, "target": 80, "bias": 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pid, ok := src.(*PID)
	if !ok {
		t.Fatalf("expected *PID, got %T", src)
	}
	if pid.Target != 80 || pid.Bias != 0.1 {
		t.Errorf("unexpected pid %+v", pid)
	}

	src, _ = r.Get("fixed", map[string]float64{"percent": 60})
	if got := src.Throttle(flight.VehicleState{}); got != 0.6 {
		t.Errorf("expected 0.6, got %f", got)
	}

	if _, err := r.Get("lqr", nil); !errors.Is(err, ErrUnknownController) {
		t.Errorf("expected ErrUnknownController, got %v", err)
	}

	names := r.Names()
	if len(names) != 3 || names[0] != "fixed" || names[2] != "pid" {
		t.Errorf("unexpected names %v", names)
	}
}
