package mission

import (
	"strings"
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in       string
		expected float64
	}{
		{"10", 10},
		{" 2.5 ", 2.5},
		{"", 0},
		{"abc", 0},
		{"12abc", 12},
		{"-4", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e3", 1000},
		{"+7", 7},
		{".5", 0.5},
		{"5.", 5},
		{"3e", 3},
		{"1e400", 0},
		{"9e999", 0},
		{"0x1p4", 0},
		{"Infinity", 0},
	}

	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.expected {
			t.Errorf("ParseNumber(%q): expected %f, got %f", tt.in, tt.expected, got)
		}
	}
}

func TestParseNumberLongInput(t *testing.T) {
	long := strings.Repeat("1", 40000) + "x"

	start := time.Now()
	if got := ParseNumber(long); got != 0 {
		t.Errorf("expected overflowing input to read as 0, got %f", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected a single pass over the input, took %s", elapsed)
	}
}

func TestParseThrottlePercent(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"100", 100},
		{"75.9", 75},
		{"150", 100},
		{"-20", 0},
		{"1e300", 100},
		{"x", 0},
	}

	for _, tt := range tests {
		if got := ParseThrottlePercent(tt.in); got != tt.expected {
			t.Errorf("ParseThrottlePercent(%q): expected %d, got %d", tt.in, tt.expected, got)
		}
	}
}
