package telemetry

import (
	"github.com/rs/zerolog"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
)

// LogSink logs flight events. Plain frames are logged at trace level only.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("subsys", "telemetry").Logger()}
}

func (s *LogSink) Publish(snap Snapshot) {
	s.logger.Trace().
		Int("run", snap.Run).
		Float64("t", snap.State.MissionTime).
		Float64("altitude", snap.State.Altitude).
		Float64("velocity", snap.State.Velocity).
		Msg("frame")

	for _, e := range snap.Events {
		var ev *zerolog.Event
		switch e.Kind {
		case flight.EventCrashed:
			ev = s.logger.Warn().Float64("impactSpeed", snap.ImpactSpeed)
		case flight.EventLanded:
			ev = s.logger.Info().Float64("impactSpeed", snap.ImpactSpeed)
		case flight.EventMaxQEntered, flight.EventMaxQExited:
			ev = s.logger.Debug().Float64("q", snap.DynamicPressure)
		default:
			ev = s.logger.Info()
		}
		ev.Int("run", snap.Run).
			Str("event", e.Kind.String()).
			Float64("t", e.MissionTime).
			Float64("altitude", e.Altitude).
			Float64("velocity", e.Velocity).
			Msg("Flight event")
	}
}
