package telemetry

// Tone is the colour class of a status line.
type Tone int

const (
	ToneIdle Tone = iota
	ToneNominal
	ToneWarning
	ToneInfo
	ToneDanger
)

var toneColors = map[Tone]string{
	ToneIdle:    "#888888",
	ToneNominal: "#00ff88",
	ToneWarning: "#ffd700",
	ToneInfo:    "#00f2ff",
	ToneDanger:  "#ff0055",
}

func (t Tone) String() string {
	switch t {
	case ToneIdle:
		return "idle"
	case ToneNominal:
		return "nominal"
	case ToneWarning:
		return "warning"
	case ToneInfo:
		return "info"
	case ToneDanger:
		return "danger"
	}
	return "unknown"
}

func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Color returns the hex colour for the tone.
func (t Tone) Color() string {
	if c, ok := toneColors[t]; ok {
		return c
	}
	return toneColors[ToneIdle]
}

// Status is the operator-facing status line.
type Status struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

var (
	StatusReady   = Status{Text: "SYSTEM READY", Tone: ToneIdle}
	StatusLiftoff = Status{Text: "LIFTOFF!", Tone: ToneNominal}
	StatusMaxQ    = Status{Text: "MAX Q (HIGH PRESSURE)", Tone: ToneWarning}
	StatusMECO    = Status{Text: "MECO (ENGINE CUTOFF)", Tone: ToneInfo}
	StatusLanded  = Status{Text: "LANDING SUCCESSFUL", Tone: ToneNominal}
	StatusCrashed = Status{Text: "CRASHED (MISSION FAILED)", Tone: ToneDanger}
	StatusAborted = Status{Text: "MISSION ABORTED", Tone: ToneDanger}
)

// ApogeeText replaces the status text while descending from apogee. The tone is kept.
const ApogeeText = "APOGEE (PEAK ALTITUDE)"

// Apogee returns the descent status derived from prev.
func Apogee(prev Status) Status {
	return Status{Text: ApogeeText, Tone: prev.Tone}
}
