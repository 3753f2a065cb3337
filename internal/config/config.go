package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
)

const (
	DefaultFuel     = "10"
	DefaultPayload  = "1"
	DefaultThrottle = "100"
	DefaultDt       = 1.0 / 60
	DefaultDuration = 3600.0
	DefaultKp       = 0.02
	DefaultKi       = 0.005
	DefaultTarget   = 100.0
	DefaultBias     = 0.15
)

// Config is a mission profile. Masses and throttle stay strings so they go
// through the same tolerant parsing as operator input.
type Config struct {
	Name             string           `yaml:"name,omitempty"`
	Fuel             string           `yaml:"fuel"`
	Payload          string           `yaml:"payload"`
	Throttle         string           `yaml:"throttle"`
	Controller       string           `yaml:"controller"`
	Dt               float64          `yaml:"dt"`
	Duration         float64          `yaml:"duration"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
}

type ControllerConfig struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Target float64 `yaml:"target"`
	Bias   float64 `yaml:"bias"`
}

func DefaultConfig() *Config {
	return &Config{
		Fuel:       DefaultFuel,
		Payload:    DefaultPayload,
		Throttle:   DefaultThrottle,
		Controller: "manual",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		ControllerParams: ControllerConfig{
			Kp:     DefaultKp,
			Ki:     DefaultKi,
			Target: DefaultTarget,
			Bias:   DefaultBias,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Inputs() mission.Inputs {
	return mission.Inputs{Fuel: c.Fuel, Payload: c.Payload, Throttle: c.Throttle}
}

// GetControllerParams returns the parameters for control.Registry.Get.
func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"percent": float64(mission.ParseThrottlePercent(c.Throttle)),
		"kp":      c.ControllerParams.Kp,
		"ki":      c.ControllerParams.Ki,
		"kd":      c.ControllerParams.Kd,
		"target":  c.ControllerParams.Target,
		"bias":    c.ControllerParams.Bias,
	}
}
