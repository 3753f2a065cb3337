package export

import (
	"fmt"
	"strings"
)

const (
	ChartWidth  = 300
	ChartHeight = 100
	// ChartSlots is the number of samples spanning the chart width.
	ChartSlots = 100

	AltitudeFloor = 1000.0
	VelocityFloor = 100.0

	AltitudeStroke = "#00f2ff"
	VelocityStroke = "#ffd700"
)

// SVGPath maps samples onto the strip chart box. The vertical scale is the
// largest of floor and the samples, so small flights do not fill the chart.
// Sample i sits at x = i/ChartSlots·ChartWidth.
func SVGPath(values []float64, floor float64) string {
	top := floor
	for _, v := range values {
		if v > top {
			top = v
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("M0,%d", ChartHeight))
	for i, v := range values {
		x := float64(i) / ChartSlots * ChartWidth
		y := ChartHeight - v/top*ChartHeight
		sb.WriteString(fmt.Sprintf(" L%s,%s", trim(x), trim(y)))
	}
	return sb.String()
}

// ChartSVG renders altitude and velocity histories as one SVG document.
func ChartSVG(altitude, velocity []float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" preserveAspectRatio="none">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, ChartWidth, ChartHeight, ChartWidth, ChartHeight))
	sb.WriteString(fmt.Sprintf(`<path id="altitude" fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, AltitudeStroke, SVGPath(altitude, AltitudeFloor)))
	sb.WriteString(fmt.Sprintf(`<path id="velocity" fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, VelocityStroke, SVGPath(velocity, VelocityFloor)))
	sb.WriteString("</svg>")
	return sb.String()
}

func trim(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
