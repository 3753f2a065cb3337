package sim

import (
	"errors"

	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

var (
	// ErrInvalidConfig is wrapped by every Runner validation failure.
	ErrInvalidConfig = errors.New("sim: invalid config")
	// ErrRunActive is returned when the controller is already flying.
	ErrRunActive = errors.New("sim: controller already has an active run")
)

// Outcome is how a headless run ended.
type Outcome int

const (
	OutcomeLanded Outcome = iota
	OutcomeCrashed
	OutcomeTimeout
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLanded:
		return "landed"
	case OutcomeCrashed:
		return "crashed"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeCanceled:
		return "canceled"
	}
	return "unknown"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result holds every frame of a run. Frames in Snapshots carry no chart
// history; Final carries the full frame.
type Result struct {
	Snapshots []telemetry.Snapshot `json:"snapshots"`
	Final     telemetry.Snapshot   `json:"final"`
	Metrics   map[string]float64   `json:"metrics"`
	Steps     int                  `json:"steps"`
	Outcome   Outcome              `json:"outcome"`
}

// Apogee is a shortcut for the apogee metric.
func (r *Result) Apogee() float64 { return r.Metrics["apogee_m"] }
