package mission

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Inputs are the raw operator entries.
type Inputs struct {
	Fuel     string `json:"fuel" yaml:"fuel"`
	Payload  string `json:"payload" yaml:"payload"`
	Throttle string `json:"throttle" yaml:"throttle"`
}

// Normalized are the parsed inputs. Anything unparseable is zero.
type Normalized struct {
	FuelTonnes      float64 `json:"fuel_tonnes"`
	PayloadTonnes   float64 `json:"payload_tonnes"`
	ThrottlePercent int     `json:"throttle_percent"`
}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

func ParseInputs(in Inputs) Normalized {
	return Normalized{
		FuelTonnes:      ParseNumber(in.Fuel),
		PayloadTonnes:   ParseNumber(in.Payload),
		ThrottlePercent: ParseThrottlePercent(in.Throttle),
	}
}

// ParseNumber reads the leading decimal number of s. Empty, malformed,
// negative and out-of-range values read as 0.
func ParseNumber(s string) float64 {
	m := numberPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseThrottlePercent reads an integer percentage clamped to [0, 100].
// Fractions are truncated.
func ParseThrottlePercent(s string) int {
	v := ParseNumber(s)
	if v > 100 {
		return 100
	}
	return int(v)
}
