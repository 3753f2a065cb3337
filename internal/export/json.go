package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
	"github.com/tufankoc/acik-kaynak-roket/internal/sim"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

type Sample struct {
	Time            float64 `json:"t"`
	Altitude        float64 `json:"altitude"`
	Velocity        float64 `json:"velocity"`
	Acceleration    float64 `json:"acceleration"`
	FuelMass        float64 `json:"fuel_mass"`
	Throttle        float64 `json:"throttle"`
	DynamicPressure float64 `json:"dynamic_pressure"`
}

type ExportData struct {
	Config  flight.RunConfiguration `json:"config"`
	Outcome sim.Outcome             `json:"outcome"`
	Status  telemetry.Status        `json:"status"`
	Steps   int                     `json:"steps"`
	Final   flight.VehicleState     `json:"final"`
	Events  []flight.Event          `json:"events"`
	Metrics map[string]float64      `json:"metrics"`
	Samples []Sample                `json:"samples"`
}

// NewExportData flattens a run into its exported form.
func NewExportData(result *sim.Result) ExportData {
	data := ExportData{
		Config:  result.Final.Config,
		Outcome: result.Outcome,
		Status:  result.Final.Status,
		Steps:   result.Steps,
		Final:   result.Final.State,
		Events:  make([]flight.Event, 0),
		Metrics: result.Metrics,
		Samples: make([]Sample, len(result.Snapshots)),
	}

	for i, s := range result.Snapshots {
		data.Samples[i] = Sample{
			Time:            s.State.MissionTime,
			Altitude:        s.State.Altitude,
			Velocity:        s.State.Velocity,
			Acceleration:    s.State.Acceleration,
			FuelMass:        s.State.FuelMass,
			Throttle:        s.Throttle,
			DynamicPressure: s.DynamicPressure,
		}
		data.Events = append(data.Events, s.Events...)
	}
	return data
}

func WriteJSON(w io.Writer, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(result))
}

func ExportJSON(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, result)
}
