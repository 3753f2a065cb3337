package mission

import (
	"github.com/rs/zerolog"

	"github.com/tufankoc/acik-kaynak-roket/internal/control"
	"github.com/tufankoc/acik-kaynak-roket/internal/flight"
	"github.com/tufankoc/acik-kaynak-roket/internal/telemetry"
)

// Action is what a press of the launch button did.
type Action int

const (
	ActionNone Action = iota
	ActionLaunch
	ActionAbort
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionLaunch:
		return "launch"
	case ActionAbort:
		return "abort"
	case ActionReset:
		return "reset"
	}
	return "none"
}

const (
	LabelLaunch   = "LAUNCH"
	LabelAbort    = "ABORT"
	LabelRelaunch = "RELAUNCH"
)

// Controller owns one vehicle and drives it through the mission lifecycle.
// It is not safe for concurrent use; hosts driving it from several
// goroutines must serialize calls.
type Controller struct {
	sink     telemetry.Sink
	source   ThrottleSource
	lever    *control.Manual
	logger   zerolog.Logger
	capacity int

	lifecycle telemetry.Lifecycle
	phase     flight.Phase
	cfg       flight.RunConfiguration
	state     flight.VehicleState
	integ     *flight.Integrator
	last      flight.StepResult
	status    telemetry.Status
	altitude  *telemetry.History
	velocity  *telemetry.History
	run       int
	step      int
}

type Option func(*Controller)

func WithSink(s telemetry.Sink) Option {
	return func(c *Controller) { c.sink = s }
}

// WithThrottle replaces the operator lever with an automatic source.
func WithThrottle(src ThrottleSource) Option {
	return func(c *Controller) { c.source = src }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithHistoryCapacity(n int) Option {
	return func(c *Controller) { c.capacity = n }
}

func New(opts ...Option) *Controller {
	c := &Controller{
		sink:     telemetry.Discard,
		lever:    control.NewManual(0),
		logger:   zerolog.Nop(),
		capacity: telemetry.DefaultHistoryCapacity,
		status:   telemetry.StatusReady,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sink == nil {
		c.sink = telemetry.Discard
	}
	c.altitude = telemetry.NewHistory(c.capacity)
	c.velocity = telemetry.NewHistory(c.capacity)
	return c
}

func (c *Controller) Lifecycle() telemetry.Lifecycle { return c.lifecycle }
func (c *Controller) Phase() flight.Phase             { return c.phase }
func (c *Controller) State() flight.VehicleState      { return c.state }
func (c *Controller) Config() flight.RunConfiguration { return c.cfg }
func (c *Controller) Status() telemetry.Status        { return c.status }
func (c *Controller) Running() bool                   { return c.lifecycle == telemetry.LifecycleRunning }

// Lever exposes the operator throttle control.
func (c *Controller) Lever() *control.Manual { return c.lever }

// ThrottleSource returns the automatic source, or nil while the lever drives.
func (c *Controller) ThrottleSource() ThrottleSource { return c.source }

// SetThrottleSource swaps the throttle source. A nil source restores the lever.
func (c *Controller) SetThrottleSource(src ThrottleSource) { c.source = src }

// Launch starts a run from the given inputs. From a terminal state the
// vehicle is reset first. It is a no-op while a run is active.
func (c *Controller) Launch(in Inputs) bool {
	if c.Running() {
		return false
	}
	if c.lifecycle.Terminal() {
		c.clear()
	}

	n := ParseInputs(in)
	c.run++
	c.step = 0
	c.cfg = flight.NewRunConfiguration(n.FuelTonnes, n.PayloadTonnes)
	c.state = flight.NewVehicleState(c.cfg)
	c.integ = flight.NewIntegrator(c.cfg)
	c.lever.Set(n.ThrottlePercent)
	if r, ok := c.source.(interface{ Reset() }); ok {
		r.Reset()
	}
	c.altitude.Reset()
	c.velocity.Reset()
	c.last = flight.StepResult{}
	c.phase = flight.PhasePowered
	c.lifecycle = telemetry.LifecycleRunning
	c.status = telemetry.StatusLiftoff

	c.logger.Info().
		Int("run", c.run).
		Float64("fuelTonnes", n.FuelTonnes).
		Float64("payloadTonnes", n.PayloadTonnes).
		Int("throttle", n.ThrottlePercent).
		Msg("Liftoff")

	c.publish()
	return true
}

// Abort ends an active run and discards its telemetry. It is a no-op unless
// a run is active.
func (c *Controller) Abort() bool {
	if !c.Running() {
		return false
	}
	c.logger.Warn().Int("run", c.run).Float64("t", c.state.MissionTime).Msg("Mission aborted")
	c.clear()
	c.status = telemetry.StatusAborted
	c.publish()
	return true
}

// Reset returns to the idle state from anywhere.
func (c *Controller) Reset() {
	c.clear()
	c.status = telemetry.StatusReady
	c.publish()
}

// Press performs the action the launch button currently offers.
func (c *Controller) Press(in Inputs) Action {
	switch {
	case c.Running():
		c.Abort()
		return ActionAbort
	case c.lifecycle.Terminal():
		c.Reset()
		return ActionReset
	default:
		c.Launch(in)
		return ActionLaunch
	}
}

// ActionLabel is the caption of the launch button.
func (c *Controller) ActionLabel() string {
	switch {
	case c.Running():
		return LabelAbort
	case c.lifecycle.Terminal():
		return LabelRelaunch
	}
	return LabelLaunch
}

// Step advances an active run by rawDt seconds of wall-clock time and
// publishes one snapshot. It reports whether the run is still active.
// Steps outside an active run do nothing.
func (c *Controller) Step(rawDt float64) bool {
	if !c.Running() {
		return false
	}

	throttle := c.throttle()
	res := c.integ.Step(&c.state, c.phase, rawDt, throttle)
	c.phase = res.Phase
	c.last = res
	c.step++

	c.altitude.Push(c.state.Altitude)
	c.velocity.Push(c.state.Velocity)
	c.updateStatus(res)

	switch res.Phase {
	case flight.PhaseCrashed:
		c.lifecycle = telemetry.LifecycleCrashed
		c.logger.Warn().Int("run", c.run).Float64("impactSpeed", res.ImpactSpeed).Msg("Vehicle crashed")
	case flight.PhaseLanded:
		c.lifecycle = telemetry.LifecycleLanded
		c.logger.Info().Int("run", c.run).Float64("impactSpeed", res.ImpactSpeed).Msg("Vehicle landed")
	}

	c.publish()
	return c.Running()
}

// Snapshot returns the current telemetry frame.
func (c *Controller) Snapshot() telemetry.Snapshot {
	var events []flight.Event
	if len(c.last.Events) > 0 {
		events = append(events, c.last.Events...)
	}
	return telemetry.Snapshot{
		Run:             c.run,
		Step:            c.step,
		Lifecycle:       c.lifecycle,
		Phase:           c.phase,
		State:           c.state,
		Config:          c.cfg,
		Throttle:        c.last.Throttle,
		Thrust:          c.last.Thrust,
		Drag:            c.last.Drag,
		DynamicPressure: c.last.DynamicPressure,
		MaxQ:            c.last.MaxQ,
		ImpactSpeed:     c.last.ImpactSpeed,
		Events:          events,
		Status:          c.status,
		AltitudeHistory: c.altitude.Values(),
		VelocityHistory: c.velocity.Values(),
	}
}

func (c *Controller) throttle() float64 {
	if c.source != nil {
		return c.source.Throttle(c.state)
	}
	return c.lever.Throttle(c.state)
}

// updateStatus applies the status precedence of one step: Max-Q, then MECO,
// then apogee, then the ground outcome.
func (c *Controller) updateStatus(res flight.StepResult) {
	if res.MaxQ {
		c.status = telemetry.StatusMaxQ
	}
	for _, e := range res.Events {
		if e.Kind == flight.EventMECO {
			c.status = telemetry.StatusMECO
			c.logger.Info().Int("run", c.run).Float64("t", e.MissionTime).Float64("altitude", e.Altitude).Msg("MECO")
		}
	}
	if c.state.Velocity < 0 && c.state.Altitude > flight.ApogeeFloor {
		c.status = telemetry.Apogee(c.status)
	}
	switch res.Phase {
	case flight.PhaseCrashed:
		c.status = telemetry.StatusCrashed
	case flight.PhaseLanded:
		c.status = telemetry.StatusLanded
	}
}

func (c *Controller) clear() {
	c.lifecycle = telemetry.LifecycleIdle
	c.phase = flight.PhaseIdle
	c.cfg = flight.RunConfiguration{}
	c.state = flight.VehicleState{}
	c.integ = nil
	c.last = flight.StepResult{}
	c.step = 0
	c.altitude.Reset()
	c.velocity.Reset()
}

func (c *Controller) publish() {
	c.sink.Publish(c.Snapshot())
}
