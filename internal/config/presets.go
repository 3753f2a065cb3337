package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

var Presets = map[string]*Config{
	"demo": {
		Name: "demo", Fuel: "10", Payload: "1", Throttle: "100", Controller: "manual",
		Dt: DefaultDt, Duration: DefaultDuration,
	},
	"heavy": {
		Name: "heavy", Fuel: "300", Payload: "20", Throttle: "100", Controller: "manual",
		Dt: DefaultDt, Duration: DefaultDuration,
	},
	"hop": {
		Name: "hop", Fuel: "2", Payload: "0.5", Throttle: "50", Controller: "manual",
		Dt: DefaultDt, Duration: DefaultDuration,
	},
	"short-burn": {
		Name: "short-burn", Fuel: "1", Payload: "0", Throttle: "100", Controller: "manual",
		Dt: DefaultDt, Duration: DefaultDuration,
	},
	"hover": {
		Name: "hover", Fuel: "50", Payload: "5", Throttle: "100", Controller: "pid",
		Dt: DefaultDt, Duration: 120,
		ControllerParams: ControllerConfig{Kp: DefaultKp, Ki: DefaultKi, Target: 0, Bias: DefaultBias},
	},
	"climb": {
		Name: "climb", Fuel: "50", Payload: "5", Throttle: "100", Controller: "pid",
		Dt: DefaultDt, Duration: DefaultDuration,
		ControllerParams: ControllerConfig{Kp: DefaultKp, Ki: DefaultKi, Target: DefaultTarget, Bias: DefaultBias},
	},
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	c := *cfg
	return &c, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
