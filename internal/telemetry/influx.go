package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
)

const (
	flightMeasurement = "flight"
	eventMeasurement  = "flight_event"
)

// InfluxOptions locate the InfluxDB bucket that receives flight points.
type InfluxOptions struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// InfluxSink writes one point per snapshot and one per event through a
// non-blocking write API.
type InfluxSink struct {
	writer influxdb2_api.WriteAPI
	logger zerolog.Logger
	now    func() time.Time
	start  time.Time
	run    int
}

func NewInfluxSink(writer influxdb2_api.WriteAPI, logger zerolog.Logger) *InfluxSink {
	s := &InfluxSink{
		writer: writer,
		logger: logger,
		now:    time.Now,
		run:    -1,
	}

	errorsCh := writer.Errors()
	go func() {
		for writeErr := range errorsCh {
			s.logger.Error().Err(writeErr).Msg("Error sending flight data to InfluxDB")
		}
	}()

	return s
}

// DialInflux connects to InfluxDB and returns a sink for opts.Bucket. The
// returned close function flushes pending points.
func DialInflux(ctx context.Context, opts InfluxOptions, logger zerolog.Logger) (*InfluxSink, func(), error) {
	client := influxdb2.NewClientWithOptions(
		opts.URL,
		opts.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		if err == nil {
			err = fmt.Errorf("server not ready")
		}
		return nil, nil, fmt.Errorf("failed to reach InfluxDB at %s: %w", opts.URL, err)
	}

	writer := client.WriteAPI(opts.Org, opts.Bucket)
	logger.Info().Str("url", opts.URL).Str("bucket", opts.Bucket).Msg("InfluxDB sink initialized")

	closeFn := func() {
		writer.Flush()
		client.Close()
	}
	return NewInfluxSink(writer, logger), closeFn, nil
}

func (s *InfluxSink) Publish(snap Snapshot) {
	if snap.Run != s.run {
		s.run = snap.Run
		s.start = s.now()
	}
	ts := s.start.Add(time.Duration(snap.State.MissionTime * float64(time.Second)))

	s.writer.WritePoint(FlightPoint(snap, ts))
	for _, e := range snap.Events {
		s.writer.WritePoint(EventPoint(snap.Run, e, s.start))
	}
}

// FlightPoint converts a snapshot into a line-protocol point.
func FlightPoint(snap Snapshot, ts time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		flightMeasurement,
		map[string]string{
			"run":   strconv.Itoa(snap.Run),
			"phase": snap.Phase.String(),
		},
		map[string]interface{}{
			"altitude":         snap.State.Altitude,
			"velocity":         snap.State.Velocity,
			"acceleration":     snap.State.Acceleration,
			"fuel_mass":        snap.State.FuelMass,
			"total_mass":       snap.State.TotalMass,
			"dynamic_pressure": snap.DynamicPressure,
			"peak_q":           snap.State.PeakDynamicPressure,
			"throttle":         snap.Throttle,
			"thrust":           snap.Thrust,
		},
		ts,
	)
}

// EventPoint converts a flight event into a point stamped relative to start.
func EventPoint(run int, e flight.Event, start time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement(eventMeasurement).
		AddTag("run", strconv.Itoa(run)).
		AddTag("kind", e.Kind.String()).
		AddField("altitude", e.Altitude).
		AddField("velocity", e.Velocity).
		AddField("mission_time", e.MissionTime).
		SetTime(start.Add(time.Duration(e.MissionTime * float64(time.Second))))
}
