package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tufankoc/acik-kaynak-roket/internal/telemetry"

// OtelSink records snapshots as OpenTelemetry instruments.
type OtelSink struct {
	altitude metric.Float64Gauge
	velocity metric.Float64Gauge
	peakQ    metric.Float64Gauge
	steps    metric.Int64Counter
	events   metric.Int64Counter
}

// NewOtelSink builds the instruments on meter, or on the global meter
// provider when meter is nil.
func NewOtelSink(meter metric.Meter) (*OtelSink, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	s := &OtelSink{}
	var err error

	if s.altitude, err = meter.Float64Gauge("rocket.altitude",
		metric.WithDescription("Current altitude"),
		metric.WithUnit("m"),
	); err != nil {
		return nil, fmt.Errorf("failed to create altitude gauge: %w", err)
	}
	if s.velocity, err = meter.Float64Gauge("rocket.velocity",
		metric.WithDescription("Current vertical velocity"),
		metric.WithUnit("m/s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create velocity gauge: %w", err)
	}
	if s.peakQ, err = meter.Float64Gauge("rocket.peak_dynamic_pressure",
		metric.WithDescription("Peak dynamic pressure of the run"),
		metric.WithUnit("Pa"),
	); err != nil {
		return nil, fmt.Errorf("failed to create peak-q gauge: %w", err)
	}
	if s.steps, err = meter.Int64Counter("rocket.steps",
		metric.WithDescription("Integration steps published"),
	); err != nil {
		return nil, fmt.Errorf("failed to create steps counter: %w", err)
	}
	if s.events, err = meter.Int64Counter("rocket.events",
		metric.WithDescription("Flight events by kind"),
	); err != nil {
		return nil, fmt.Errorf("failed to create events counter: %w", err)
	}

	return s, nil
}

func (s *OtelSink) Publish(snap Snapshot) {
	ctx := context.Background()
	phase := metric.WithAttributes(attribute.String("phase", snap.Phase.String()))

	s.altitude.Record(ctx, snap.State.Altitude, phase)
	s.velocity.Record(ctx, snap.State.Velocity, phase)
	s.peakQ.Record(ctx, snap.State.PeakDynamicPressure)
	s.steps.Add(ctx, 1, phase)
	for _, e := range snap.Events {
		s.events.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", e.Kind.String())))
	}
}
