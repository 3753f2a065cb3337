package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
	"github.com/tufankoc/acik-kaynak-roket/internal/sim"
)

func TestSchedule(t *testing.T) {
	s := NewSchedule([]ThrottleStep{
		{At: 10, Percent: 40},
		{At: 2, Percent: 100},
		{At: 20, Percent: 150},
	})

	tests := []struct {
		t        float64
		expected int
	}{
		{0, 0},
		{2, 100},
		{9.9, 100},
		{10, 40},
		{25, 100},
	}

	for _, tt := range tests {
		if got := s.Percent(tt.t); got != tt.expected {
			t.Errorf("Percent(%v): expected %d, got %d", tt.t, tt.expected, got)
		}
	}

	if got := s.Throttle(flight.VehicleState{MissionTime: 5}); got != 1 {
		t.Errorf("expected throttle 1, got %f", got)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hop.yaml")
	data := `
name: hop
description: short hop and cutoff
fuel: "5"
payload: "0.5"
throttle:
  - at: 0
    percent: 100
  - at: 2.5
    percent: 0
dt: 0.05
duration: 30
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "hop" || len(sc.Throttle) != 2 || sc.Dt != 0.05 {
		t.Errorf("unexpected scenario %+v", sc)
	}
	if in := sc.Inputs(); in.Throttle != "100" || in.Fuel != "5" {
		t.Errorf("unexpected inputs %+v", in)
	}
}

func TestLoadScenarioDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.yaml")
	if err := os.WriteFile(path, []byte("name: bare\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Dt != sim.DefaultDt || sc.Duration != sim.DefaultMaxDuration {
		t.Errorf("expected default dt and duration, got %f and %f", sc.Dt, sc.Duration)
	}
}

func TestRunScenarioCutoff(t *testing.T) {
	sc := &Scenario{
		Name:    "cutoff",
		Fuel:    "10",
		Payload: "1",
		Throttle: []ThrottleStep{
			{At: 0, Percent: 100},
			{At: 0.45, Percent: 0},
		},
		Dt:       0.1,
		Duration: 1,
	}

	result, err := RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := result.Snapshots[1].Throttle; got != 1 {
		t.Errorf("expected full throttle on the first step, got %f", got)
	}
	if got := result.Snapshots[8].Throttle; got != 0 {
		t.Errorf("expected cutoff by step 8, got %f", got)
	}
	if result.Outcome != sim.OutcomeTimeout {
		t.Errorf("expected timeout, got %s", result.Outcome)
	}
}

func TestRunScenarioNoThrust(t *testing.T) {
	sc := &Scenario{Name: "idle", Fuel: "10", Dt: 0.1, Duration: 5}

	result, err := RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Outcome != sim.OutcomeLanded {
		t.Errorf("expected landed, got %s", result.Outcome)
	}
}

func TestRunScenarioInvalid(t *testing.T) {
	_, err := RunScenario(context.Background(), &Scenario{Name: "broken", Dt: 0, Duration: 1})
	if !errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &Sweep{
		Fuel:     "10",
		Payload:  "1",
		From:     0,
		To:       100,
		Step:     50,
		Dt:       0.1,
		Duration: 1,
		Workers:  2,
	}

	results, err := RunSweep(context.Background(), sweep)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, want := range []int{0, 50, 100} {
		if results[i].Throttle != want {
			t.Errorf("result %d: expected throttle %d, got %d", i, want, results[i].Throttle)
		}
	}
	if results[0].Outcome != sim.OutcomeLanded {
		t.Errorf("expected zero throttle to land, got %s", results[0].Outcome)
	}
	if results[2].Apogee <= results[1].Apogee {
		t.Errorf("expected more throttle to climb higher, got %f and %f", results[1].Apogee, results[2].Apogee)
	}

	best, ok := Best(results)
	if !ok || best.Throttle != 100 {
		t.Errorf("expected best throttle 100, got %+v", best)
	}
}

func TestRunSweepInvalid(t *testing.T) {
	tests := []struct {
		name  string
		sweep Sweep
	}{
		{"zero step", Sweep{From: 0, To: 100, Step: 0, Dt: 0.1, Duration: 1}},
		{"reversed", Sweep{From: 80, To: 20, Step: 10, Dt: 0.1, Duration: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RunSweep(context.Background(), &tt.sweep); !errors.Is(err, ErrInvalidSweep) {
				t.Errorf("expected ErrInvalidSweep, got %v", err)
			}
		})
	}
}

func TestBestSkipsCrashes(t *testing.T) {
	results := []SweepResult{
		{Throttle: 100, Apogee: 900, Outcome: sim.OutcomeCrashed},
		{Throttle: 40, Apogee: 10, Outcome: sim.OutcomeLanded},
	}
	best, ok := Best(results)
	if !ok || best.Throttle != 40 {
		t.Errorf("expected the landed run, got %+v", best)
	}

	if _, ok := Best(results[:1]); ok {
		t.Error("expected no best result when every run crashed")
	}
}
