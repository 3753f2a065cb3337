package telemetry

import (
	"fmt"
	"math"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
)

// Lifecycle is the mission lifecycle state as seen by displays.
type Lifecycle int

const (
	LifecycleIdle Lifecycle = iota
	LifecycleRunning
	LifecycleLanded
	LifecycleCrashed
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleIdle:
		return "idle"
	case LifecycleRunning:
		return "running"
	case LifecycleLanded:
		return "landed"
	case LifecycleCrashed:
		return "crashed"
	}
	return "unknown"
}

func (l Lifecycle) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Terminal reports whether the run has ended on the ground.
func (l Lifecycle) Terminal() bool {
	return l == LifecycleLanded || l == LifecycleCrashed
}

// Snapshot is one published telemetry frame.
type Snapshot struct {
	Run             int                     `json:"run"`
	Step            int                     `json:"step"`
	Lifecycle       Lifecycle               `json:"lifecycle"`
	Phase           flight.Phase            `json:"phase"`
	State           flight.VehicleState     `json:"state"`
	Config          flight.RunConfiguration `json:"config"`
	Throttle        float64                 `json:"throttle"`
	Thrust          float64                 `json:"thrust"`
	Drag            float64                 `json:"drag"`
	DynamicPressure float64                 `json:"dynamic_pressure"`
	MaxQ            bool                    `json:"max_q"`
	ImpactSpeed     float64                 `json:"impact_speed,omitempty"`
	Events          []flight.Event          `json:"events,omitempty"`
	Status          Status                  `json:"status"`
	AltitudeHistory []float64               `json:"altitude_history"`
	VelocityHistory []float64               `json:"velocity_history"`
}

// Clock renders mission elapsed time as "T+ HH:MM:SS", or "T- 00:00:00" when idle.
func (s Snapshot) Clock() string {
	if s.Lifecycle == LifecycleIdle {
		return "T- 00:00:00"
	}
	return MissionClock(s.State.MissionTime)
}

// FuelPercent is remaining fuel in [0, 100].
func (s Snapshot) FuelPercent() float64 {
	return s.State.FuelPercent(s.Config)
}

// GForce is acceleration in multiples of standard gravity.
func (s Snapshot) GForce() float64 {
	return s.State.GForce()
}

func (s Snapshot) AltitudeDisplay() string {
	return fmt.Sprintf("%05d", roundInt(s.State.Altitude))
}

func (s Snapshot) VelocityDisplay() string {
	return fmt.Sprintf("%04d", roundInt(s.State.Velocity))
}

func (s Snapshot) GForceDisplay() string {
	return fmt.Sprintf("%.1f", s.GForce())
}

func (s Snapshot) PeakQDisplay() string {
	return fmt.Sprintf("%d", roundInt(s.State.PeakDynamicPressure))
}

func (s Snapshot) FuelDisplay() string {
	return fmt.Sprintf("%d%%", roundInt(s.FuelPercent()))
}

// MissionClock formats seconds as "T+ HH:MM:SS".
func MissionClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	elapsed := int(math.Floor(seconds))
	return fmt.Sprintf("T+ %02d:%02d:%02d", elapsed/3600, elapsed/60%60, elapsed%60)
}

func roundInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
