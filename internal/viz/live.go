package viz

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

const (
	canvasWidth  = 12
	canvasHeight = 18
	chartWidth   = 50
	chartHeight  = 6
	// LeverStep is the throttle change per key press, in percent.
	LeverStep = 5
	frameRate = 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live mission view. Every tick steps the controller with the
// wall-clock time since the previous tick.
type Model struct {
	ctrl     *mission.Controller
	inputs   mission.Inputs
	canvas   *Canvas
	last     time.Time
	width    int
	showHelp bool
}

// NewModel builds the view for ctrl. in are the vehicle inputs used on
// launch; the lever starts at in.Throttle.
func NewModel(ctrl *mission.Controller, in mission.Inputs) Model {
	ctrl.Lever().Set(mission.ParseThrottlePercent(in.Throttle))
	return Model{
		ctrl:   ctrl,
		inputs: in,
		canvas: NewCanvas(canvasWidth, canvasHeight),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the mission.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "enter":
			m.press()
		case "up", "k":
			m.ctrl.Lever().Nudge(LeverStep)
		case "down", "j":
			m.ctrl.Lever().Nudge(-LeverStep)
		case "r":
			m.ctrl.Reset()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			m.ctrl.Step(now.Sub(m.last).Seconds())
		}
		m.last = now
		return m, tick()
	}
	return m, nil
}

// press launches with the current lever position so the operator can set
// the throttle before liftoff.
func (m *Model) press() {
	m.inputs.Throttle = strconv.Itoa(m.ctrl.Lever().Percent())
	m.ctrl.Press(m.inputs)
}

// View renders the TUI interface.
func (m Model) View() string {
	theme := CurrentTheme
	snap := m.ctrl.Snapshot()

	var s strings.Builder
	s.WriteString(GradientText("ROCKETLAB", theme.Primary, theme.Secondary))
	s.WriteString("  " + ToneStyle(snap.Status.Tone).Render(snap.Status.Text))
	s.WriteString("  " + valueStyle(theme).Render(snap.Clock()) + "\n\n")

	rocket := panelStyle(theme).Render(m.drawRocket(snap))
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		rocket,
		panelStyle(theme).Render(m.telemetryPanel(snap, theme)),
		panelStyle(theme).Render(m.charts(snap, theme)),
	)
	s.WriteString(body + "\n")

	s.WriteString(ButtonStyle(m.ctrl.ActionLabel()).Render(m.ctrl.ActionLabel()))
	s.WriteString("  " + keyHintStyle(theme).Render(fmt.Sprintf("fuel %st  payload %st", orDash(m.inputs.Fuel), orDash(m.inputs.Payload))))
	s.WriteString("\n")

	if m.showHelp {
		w := 60
		if m.width > 0 && m.width < w {
			w = m.width
		}
		s.WriteString(Separator(w, theme) + "\n")
		s.WriteString(keyHintStyle(theme).Render("space launch/abort/relaunch · ↑/↓ throttle · r reset · t theme · q quit") + "\n")
	} else {
		s.WriteString(keyHintStyle(theme).Render("? help · q quit") + "\n")
	}
	return s.String()
}

func (m Model) telemetryPanel(snap telemetry.Snapshot, theme Theme) string {
	label, value := labelStyle(theme), valueStyle(theme)
	row := func(name, v string) string {
		return label.Render(name) + value.Render(v) + "\n"
	}

	var s strings.Builder
	s.WriteString(row("ALT", snap.AltitudeDisplay()+" m"))
	s.WriteString(row("VEL", snap.VelocityDisplay()+" m/s"))
	s.WriteString(row("G", snap.GForceDisplay()))
	s.WriteString(row("MAX Q", snap.PeakQDisplay()+" Pa"))
	s.WriteString(row("FUEL", snap.FuelDisplay()))
	s.WriteString(ProgressBar(snap.FuelPercent()/100, 18) + "\n")
	s.WriteString(row("THROTTLE", fmt.Sprintf("%d%%", m.ctrl.Lever().Percent())))
	s.WriteString(row("PHASE", snap.Phase.String()))
	return s.String()
}

func (m Model) charts(snap telemetry.Snapshot, theme Theme) string {
	return strip(snap.AltitudeHistory, "ALTITUDE (m)", theme.Primary) + "\n" +
		strip(snap.VelocityHistory, "VELOCITY (m/s)", theme.Secondary)
}

func strip(values []float64, caption string, color lipgloss.Color) string {
	style := lipgloss.NewStyle().Foreground(color)
	if len(values) < 2 {
		return style.Render(caption+"\n"+strings.Repeat("─", chartWidth)) + "\n"
	}
	return style.Render(asciigraph.Plot(values,
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.Caption(caption),
	)) + "\n"
}

// drawRocket places the vehicle by altitude relative to the highest point
// in the current chart window.
func (m Model) drawRocket(snap telemetry.Snapshot) string {
	m.canvas.Clear()

	top := 0.0
	for _, v := range snap.AltitudeHistory {
		if v > top {
			top = v
		}
	}
	frac := 0.0
	if top > 0 {
		frac = snap.State.Altitude / top * 0.8
	}
	m.canvas.DrawRocket(frac, snap.Thrust > 0)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text).Render(m.canvas.String())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
