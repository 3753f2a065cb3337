package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
	"github.com/tufankoc/acik-kaynak-roket/internal/sim"
)

var ErrInvalidSweep = errors.New("automation: invalid sweep")

// Scenario is a scripted flight: a vehicle plus a throttle schedule.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Fuel        string         `yaml:"fuel"`
	Payload     string         `yaml:"payload"`
	Throttle    []ThrottleStep `yaml:"throttle"`
	Dt          float64        `yaml:"dt"`
	Duration    float64        `yaml:"duration"`
}

// ThrottleStep sets the throttle to Percent from mission time At onwards.
type ThrottleStep struct {
	At      float64 `yaml:"at"`
	Percent int     `yaml:"percent"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scenario := Scenario{Dt: sim.DefaultDt, Duration: sim.DefaultMaxDuration}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	return &scenario, nil
}

func (s *Scenario) Inputs() mission.Inputs {
	return mission.Inputs{
		Fuel:     s.Fuel,
		Payload:  s.Payload,
		Throttle: strconv.Itoa(NewSchedule(s.Throttle).Percent(0)),
	}
}

// RunScenario flies the scenario headless.
func RunScenario(ctx context.Context, scenario *Scenario, opts ...mission.Option) (*sim.Result, error) {
	opts = append(opts, mission.WithThrottle(NewSchedule(scenario.Throttle)))
	ctrl := mission.New(opts...)

	runner := sim.NewRunner(scenario.Dt, scenario.Duration)
	result, err := runner.Run(ctx, ctrl, scenario.Inputs())
	if err != nil {
		return result, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	return result, nil
}

// Schedule is a step function of throttle over mission time. Before the
// first step the throttle is zero.
type Schedule struct {
	steps []ThrottleStep
}

func NewSchedule(steps []ThrottleStep) *Schedule {
	sorted := make([]ThrottleStep, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &Schedule{steps: sorted}
}

// Percent returns the scheduled throttle percentage at mission time t.
func (s *Schedule) Percent(t float64) int {
	p := 0
	for _, st := range s.steps {
		if st.At > t {
			break
		}
		p = st.Percent
	}
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func (s *Schedule) Throttle(state flight.VehicleState) float64 {
	return float64(s.Percent(state.MissionTime)) / 100
}

// Sweep flies one vehicle at every throttle setting from From to To
// percent in Step increments.
type Sweep struct {
	Fuel     string
	Payload  string
	From     int
	To       int
	Step     int
	Dt       float64
	Duration float64
	// Workers bounds concurrent runs. Zero means no limit.
	Workers int
}

// SweepResult summarizes one run of a sweep.
type SweepResult struct {
	Throttle int         `json:"throttle"`
	Apogee   float64     `json:"apogee_m"`
	MaxQ     float64     `json:"max_q_pa"`
	BurnTime float64     `json:"burn_time_s"`
	PeakG    float64     `json:"peak_g"`
	Outcome  sim.Outcome `json:"outcome"`
}

func (s *Sweep) settings() ([]int, error) {
	if s.Step <= 0 {
		return nil, fmt.Errorf("%w: step must be positive, got %d", ErrInvalidSweep, s.Step)
	}
	from, to := clampPercent(s.From), clampPercent(s.To)
	if from > to {
		return nil, fmt.Errorf("%w: from %d is above to %d", ErrInvalidSweep, s.From, s.To)
	}

	var out []int
	for p := from; p <= to; p += s.Step {
		out = append(out, p)
	}
	return out, nil
}

// RunSweep runs the sweep concurrently. Results are ordered by throttle.
func RunSweep(ctx context.Context, sweep *Sweep) ([]SweepResult, error) {
	settings, err := sweep.settings()
	if err != nil {
		return nil, err
	}

	jobs := make([]sim.Job, len(settings))
	for i, p := range settings {
		jobs[i] = sim.Job{Inputs: mission.Inputs{
			Fuel:     sweep.Fuel,
			Payload:  sweep.Payload,
			Throttle: strconv.Itoa(p),
		}}
	}

	runner := sim.NewRunner(sweep.Dt, sweep.Duration)
	runs, err := runner.RunBatch(ctx, jobs, sweep.Workers)
	if err != nil {
		return nil, fmt.Errorf("throttle sweep: %w", err)
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{
			Throttle: settings[i],
			Apogee:   r.Metrics["apogee_m"],
			MaxQ:     r.Metrics["max_q_pa"],
			BurnTime: r.Metrics["burn_time_s"],
			PeakG:    r.Metrics["peak_g"],
			Outcome:  r.Outcome,
		}
	}
	return results, nil
}

// Best returns the sweep result with the highest apogee that did not crash.
func Best(results []SweepResult) (SweepResult, bool) {
	var best SweepResult
	found := false
	for _, r := range results {
		if r.Outcome == sim.OutcomeCrashed {
			continue
		}
		if !found || r.Apogee > best.Apogee {
			best = r
			found = true
		}
	}
	return best, found
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
