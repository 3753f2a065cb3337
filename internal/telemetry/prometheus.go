package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink mirrors the latest snapshot into gauges.
type PrometheusSink struct {
	altitude        prometheus.Gauge
	velocity        prometheus.Gauge
	acceleration    prometheus.Gauge
	mass            prometheus.Gauge
	fuel            prometheus.Gauge
	dynamicPressure prometheus.Gauge
	peakQ           prometheus.Gauge
	throttle        prometheus.Gauge
	missionTime     prometheus.Gauge
	lifecycle       prometheus.Gauge
	events          *prometheus.CounterVec
}

// NewPrometheusSink registers the rocket gauges on reg.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	s := &PrometheusSink{
		altitude:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_altitude_meters", Help: "Current altitude"}),
		velocity:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_velocity_mps", Help: "Current vertical velocity"}),
		acceleration:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_acceleration_mps2", Help: "Current vertical acceleration"}),
		mass:            prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_mass_kg", Help: "Current total mass"}),
		fuel:            prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_fuel_percent", Help: "Remaining fuel as a percentage of the load"}),
		dynamicPressure: prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_dynamic_pressure_pascals", Help: "Current dynamic pressure"}),
		peakQ:           prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_peak_dynamic_pressure_pascals", Help: "Peak dynamic pressure of the run"}),
		throttle:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_throttle_ratio", Help: "Commanded throttle fraction"}),
		missionTime:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_mission_time_seconds", Help: "Elapsed mission time"}),
		lifecycle:       prometheus.NewGauge(prometheus.GaugeOpts{Name: "rocket_lifecycle_state", Help: "0 idle, 1 running, 2 landed, 3 crashed"}),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rocket_flight_events_total",
				Help: "Flight events by kind",
			},
			[]string{"kind"},
		),
	}

	collectors := []prometheus.Collector{
		s.altitude, s.velocity, s.acceleration, s.mass, s.fuel,
		s.dynamicPressure, s.peakQ, s.throttle, s.missionTime, s.lifecycle, s.events,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register rocket metrics: %w", err)
		}
	}
	return s, nil
}

func (s *PrometheusSink) Publish(snap Snapshot) {
	s.altitude.Set(snap.State.Altitude)
	s.velocity.Set(snap.State.Velocity)
	s.acceleration.Set(snap.State.Acceleration)
	s.mass.Set(snap.State.TotalMass)
	s.fuel.Set(snap.FuelPercent())
	s.dynamicPressure.Set(snap.DynamicPressure)
	s.peakQ.Set(snap.State.PeakDynamicPressure)
	s.throttle.Set(snap.Throttle)
	s.missionTime.Set(snap.State.MissionTime)
	s.lifecycle.Set(float64(snap.Lifecycle))
	for _, e := range snap.Events {
		s.events.WithLabelValues(e.Kind.String()).Inc()
	}
}
