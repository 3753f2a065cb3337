package metrics

import "github.com/tufankoc/acik-kaynak-roket/internal/telemetry"

// ControlEffort is the mean throttle fraction over stepped frames.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s telemetry.Snapshot) {
	if s.Step == 0 {
		return
	}
	c.sum += s.Throttle
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
