package flight

// EventKind identifies a discrete flight event.
type EventKind int

const (
	EventMECO EventKind = iota
	EventMaxQEntered
	EventMaxQExited
	EventApogee
	EventLanded
	EventCrashed
)

func (k EventKind) String() string {
	switch k {
	case EventMECO:
		return "meco"
	case EventMaxQEntered:
		return "max_q_entered"
	case EventMaxQExited:
		return "max_q_exited"
	case EventApogee:
		return "apogee"
	case EventLanded:
		return "landed"
	case EventCrashed:
		return "crashed"
	}
	return "unknown"
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event records where and when an event fired.
type Event struct {
	Kind        EventKind `json:"kind"`
	MissionTime float64   `json:"mission_time"`
	Altitude    float64   `json:"altitude"`
	Velocity    float64   `json:"velocity"`
}
