package flight

// Phase is the flight phase of a run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePowered
	PhaseCoast
	PhaseCrashed
	PhaseLanded
)

var phaseNames = map[Phase]string{
	PhaseIdle:    "idle",
	PhasePowered: "powered",
	PhaseCoast:   "coast",
	PhaseCrashed: "crashed",
	PhaseLanded:  "landed",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the phase ends the run.
func (p Phase) Terminal() bool {
	return p == PhaseCrashed || p == PhaseLanded
}

// MarshalText lets phases appear by name in JSON and YAML output.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
