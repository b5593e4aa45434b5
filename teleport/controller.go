package teleport

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vrlocomotion/arc"
	"github.com/milk9111/vrlocomotion/common"
	"github.com/milk9111/vrlocomotion/logging"
	"go.uber.org/zap"
)

// Input is the per-tick teleport input.
type Input struct {
	Stick   mgl64.Vec2
	Trigger float64
	Confirm bool
	Cancel  bool
}

// Snapshot is the world-space tracking state for one tick. Nil poses are
// untracked this tick.
type Snapshot struct {
	Body       common.Pose
	Head       *common.Pose
	Controller *common.Pose
	External   *common.Pose
}

type EventKind string

const (
	EventAimStarted        EventKind = "aim_started"
	EventTeleportStarted   EventKind = "teleport_started"
	EventTeleportCompleted EventKind = "teleport_completed"
	EventTeleportCancelled EventKind = "teleport_cancelled"
	EventDisabled          EventKind = "teleport_disabled"
)

type Event struct {
	Kind   EventKind
	Pose   common.Pose
	Reason string
}

// Output is what one tick produced. Pose is set only on ticks that move the
// body and is the absolute pose to apply.
type Output struct {
	State    string
	Arc      *arc.Result
	Pose     *common.Pose
	Progress float64
	Events   []Event
}

type aimRecord struct {
	req       arc.Request
	result    arc.Result
	has       bool
	startRoll float64
	stick     mgl64.Vec2
}

// Controller runs the teleport state machine:
// Idle -> Aiming -> Executing | Cancelled -> Idle.
type Controller struct {
	cfg     Config
	sampler *arc.Sampler
	prober  arc.Prober
	logger  *zap.Logger

	state   State
	pending State

	armed    bool
	started  bool
	disabled string

	aim    aimRecord
	target common.Pose
	dash   *Dash

	// tick scope
	dt     float64
	in     Input
	snap   Snapshot
	pose   *common.Pose
	events []Event
}

// New validates cfg and builds an idle controller. A nil prober is fatal for
// the instance and reported as ErrNilProber.
func New(cfg Config, prober arc.Prober, logger *zap.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if prober == nil {
		return nil, ErrNilProber
	}
	sampler, err := arc.NewSampler(cfg.Arc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &Controller{
		cfg:     cfg,
		sampler: sampler,
		prober:  prober,
		logger:  logging.OrNop(logger),
		state:   stateIdle,
		armed:   true,
	}, nil
}

func (c *Controller) Config() Config { return c.cfg }

// State returns the active state; nil once disabled.
func (c *Controller) State() State {
	if c.disabled != "" {
		return nil
	}
	return c.state
}

// StateName is the active state's name, or StateDisabled.
func (c *Controller) StateName() string {
	if c.disabled != "" {
		return StateDisabled
	}
	return c.state.Name()
}

// Disabled returns the reason the controller stopped ticking, or "".
func (c *Controller) Disabled() string { return c.disabled }

// ChangeState queues a transition applied after the current state callback.
func (c *Controller) ChangeState(next State) {
	c.pending = next
}

// Tick advances the state machine by dt seconds.
func (c *Controller) Tick(dt float64, in Input, snap Snapshot) Output {
	if c.disabled != "" {
		return Output{State: StateDisabled}
	}

	c.dt, c.in, c.snap = dt, in, snap
	c.pose = nil
	c.events = nil

	if !c.started {
		c.started = true
		if missing := c.missingPose(); missing != "" {
			return c.disable(missing + " pose not tracked at startup")
		}
	}

	c.state.HandleInput(c)
	c.applyPending()
	c.state.Update(c)
	c.applyPending()

	out := Output{State: c.state.Name(), Pose: c.pose, Events: c.events}
	if c.state == stateAiming && c.aim.has {
		res := c.aim.result
		out.Arc = &res
	}
	if c.dash != nil && c.state == stateExecuting {
		out.Progress = cp.Clamp01(c.dash.Elapsed / c.dash.Duration)
	}
	return out
}

func (c *Controller) applyPending() {
	// Enter may queue another transition (a target lost at execution).
	for i := 0; c.pending != nil && i < 4; i++ {
		next := c.pending
		c.pending = nil
		if next == c.state {
			continue
		}
		c.logger.Debug("teleport state",
			zap.String("from", c.state.Name()),
			zap.String("to", next.Name()),
		)
		c.state.Exit(c)
		c.state = next
		c.state.Enter(c)
	}
}

func (c *Controller) disable(reason string) Output {
	c.disabled = reason
	c.logger.Error("teleport disabled", zap.String("reason", reason))
	return Output{
		State:  StateDisabled,
		Events: []Event{{Kind: EventDisabled, Reason: reason}},
	}
}

func (c *Controller) missingPose() string {
	switch {
	case c.snap.Controller == nil:
		return "controller"
	case c.snap.Head == nil && (c.cfg.Trigger == TriggerDistance || c.cfg.Rotation == RotationCameraYaw):
		return "head"
	case c.snap.External == nil && c.cfg.Rotation == RotationExternalBodyYaw:
		return "external"
	}
	return ""
}

func (c *Controller) emit(e Event) {
	c.events = append(c.events, e)
}

func (c *Controller) actuate(p common.Pose) {
	c.pose = &p
}

// magnitude is the trigger value compared against the deadzone.
func (c *Controller) magnitude() float64 {
	switch c.cfg.Trigger {
	case TriggerButton:
		return c.in.Trigger
	case TriggerDistance:
		if c.snap.Head == nil || c.snap.Controller == nil {
			return 0
		}
		d := c.snap.Controller.Position.Sub(c.snap.Head.Position)
		return mgl64.Vec2{d.X(), d.Z()}.Len()
	default:
		return c.in.Stick.Len()
	}
}

func (c *Controller) engaged() bool {
	return c.magnitude() > c.cfg.Deadzone
}

// normalizedDistance maps the trigger magnitude past the deadzone onto [0, 1].
func (c *Controller) normalizedDistance() float64 {
	switch c.cfg.Trigger {
	case TriggerButton:
		return 1
	case TriggerDistance:
		return cp.Clamp01((c.magnitude() - c.cfg.Deadzone) / (c.cfg.MaxReach - c.cfg.Deadzone))
	default:
		return cp.Clamp01((c.magnitude() - c.cfg.Deadzone) / (1 - c.cfg.Deadzone))
	}
}

func (c *Controller) request() (arc.Request, bool) {
	ctrl := c.snap.Controller
	if ctrl == nil {
		return arc.Request{}, false
	}
	return arc.Request{
		Origin:             ctrl.Position,
		Forward:            ctrl.Forward(),
		NormalizedDistance: c.normalizedDistance(),
		Kind:               c.cfg.ArcKind,
		Segments:           c.cfg.Segments,
	}, true
}
