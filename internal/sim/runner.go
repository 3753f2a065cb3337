package sim

import (
	"context"
	"fmt"

	"github.com/tufankoc/acik-kaynak-roket/internal/metrics"
	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultMaxDuration = 3600.0
)

// Runner steps a mission with a fixed dt, without any wall clock.
type Runner struct {
	Dt          float64
	MaxDuration float64
	metrics     []metrics.Metric
	observers   []telemetry.Sink
}

func NewRunner(dt, maxDuration float64) *Runner {
	return &Runner{Dt: dt, MaxDuration: maxDuration}
}

// AddMetric replaces the default metric set with the added metrics.
func (r *Runner) AddMetric(m metrics.Metric)   { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o telemetry.Sink) { r.observers = append(r.observers, o) }

// Run launches ctrl with in and steps until touchdown, MaxDuration of mission
// time, or ctx is done. On cancellation the partial result is returned with
// ctx.Err().
func (r *Runner) Run(ctx context.Context, ctrl *mission.Controller, in mission.Inputs) (*Result, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if !ctrl.Launch(in) {
		return nil, ErrRunActive
	}

	var set *metrics.Set
	if len(r.metrics) > 0 {
		set = metrics.NewSet(r.metrics...)
		set.Reset()
	} else {
		set = metrics.NewSet()
	}
	sink := telemetry.Multi(append([]telemetry.Sink{set}, r.observers...)...)

	steps := int(r.MaxDuration / r.Dt)
	result := &Result{
		Snapshots: make([]telemetry.Snapshot, 0, min(steps+1, 4096)),
	}

	record := func() {
		snap := ctrl.Snapshot()
		sink.Publish(snap)
		result.Final = snap
		snap.AltitudeHistory = nil
		snap.VelocityHistory = nil
		result.Snapshots = append(result.Snapshots, snap)
	}
	finish := func(o Outcome) *Result {
		result.Outcome = o
		result.Metrics = set.Values()
		return result
	}

	record()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			ctrl.Abort()
			return finish(OutcomeCanceled), ctx.Err()
		default:
		}

		running := ctrl.Step(r.Dt)
		result.Steps++
		record()

		if !running {
			if ctrl.Lifecycle() == telemetry.LifecycleCrashed {
				return finish(OutcomeCrashed), nil
			}
			return finish(OutcomeLanded), nil
		}
	}

	ctrl.Abort()
	return finish(OutcomeTimeout), nil
}

func (r *Runner) validate() error {
	if !(r.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, r.Dt)
	}
	if !(r.MaxDuration > 0) {
		return fmt.Errorf("%w: max duration must be positive, got %f", ErrInvalidConfig, r.MaxDuration)
	}
	return nil
}
