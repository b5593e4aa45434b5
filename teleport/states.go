package teleport

import (
	"github.com/milk9111/vrlocomotion/arc"
	"github.com/milk9111/vrlocomotion/common"
)

// State is one phase of the teleport state machine. Each state owns its own
// enter/exit, input handling, and update logic and requests transitions
// through Controller.ChangeState.
type State interface {
	Name() string
	Enter(c *Controller)
	Exit(c *Controller)
	HandleInput(c *Controller)
	Update(c *Controller)
}

const (
	StateIdle      = "idle"
	StateAiming    = "aiming"
	StateExecuting = "executing"
	StateCancelled = "cancelled"
	StateDisabled  = "disabled"
)

// Teleport state singletons (avoid allocations on transitions).
var (
	stateIdle      State = &idleState{}
	stateAiming    State = &aimingState{}
	stateExecuting State = &executingState{}
	stateCancelled State = &cancelledState{}
)

type idleState struct{}

type aimingState struct{}

type executingState struct{}

type cancelledState struct{}

func (idleState) Name() string { return StateIdle }
func (idleState) Enter(c *Controller) {
	c.aim = aimRecord{}
	c.dash = nil
}
func (idleState) Exit(c *Controller) {}
func (idleState) HandleInput(c *Controller) {
	if !c.engaged() {
		// The trigger has to come back to rest before a new aim can start.
		c.armed = true
		return
	}
	if c.armed && !c.in.Cancel {
		c.ChangeState(stateAiming)
	}
}
func (idleState) Update(c *Controller) {}

func (aimingState) Name() string { return StateAiming }
func (aimingState) Enter(c *Controller) {
	c.aim = aimRecord{}
	if c.snap.Controller != nil {
		c.aim.startRoll = c.snap.Controller.Roll()
	}
	c.emit(Event{Kind: EventAimStarted})
}
func (aimingState) Exit(c *Controller) {}
func (aimingState) HandleInput(c *Controller) {
	if c.in.Cancel {
		c.ChangeState(stateCancelled)
		return
	}
	if c.engaged() && !c.in.Confirm {
		return
	}
	// Released or confirmed: only a valid landing spot may execute.
	if c.aim.has && c.aim.result.Valid() {
		c.ChangeState(stateExecuting)
		return
	}
	c.ChangeState(stateCancelled)
}
func (aimingState) Update(c *Controller) {
	if c.in.Stick.Len() > c.cfg.Deadzone {
		c.aim.stick = c.in.Stick
	}
	req, ok := c.request()
	if !ok {
		// No controller this tick: keep aiming but show nothing.
		c.aim.has = false
		c.aim.result = arc.Result{}
		return
	}
	c.aim.req = req
	c.aim.result = c.sampler.Sample(req, c.prober)
	c.aim.has = true
}

func (executingState) Name() string { return StateExecuting }
func (executingState) Enter(c *Controller) {
	res := c.sampler.Sample(c.aim.req, c.prober)
	if !res.Valid() {
		c.logger.Debug("teleport target lost before execution")
		c.ChangeState(stateCancelled)
		return
	}

	target := common.Pose{
		Position: res.Hit.Point,
		Rotation: landingRotation(c.cfg, c.snap, c.aim.startRoll, c.aim.stick),
	}
	c.target = target
	c.emit(Event{Kind: EventTeleportStarted, Pose: target})

	switch c.cfg.Execute {
	case ExecuteDash:
		c.dash = NewDash(c.snap.Body, target, c.cfg.DashDuration, nil)
	case ExecuteArcDash:
		c.dash = NewDash(c.snap.Body, target, c.cfg.DashDuration, res.Points)
	default:
		c.dash = nil
	}
}
func (executingState) Exit(c *Controller) {
	c.armed = false
}
func (executingState) HandleInput(c *Controller) {
	if c.in.Cancel {
		c.ChangeState(stateCancelled)
	}
}
func (executingState) Update(c *Controller) {
	if c.dash == nil {
		c.actuate(c.target)
		c.emit(Event{Kind: EventTeleportCompleted, Pose: c.target})
		c.ChangeState(stateIdle)
		return
	}

	c.actuate(c.dash.Step(c.dt))
	if c.dash.Done() {
		c.emit(Event{Kind: EventTeleportCompleted, Pose: c.target})
		c.ChangeState(stateIdle)
	}
}

func (cancelledState) Name() string { return StateCancelled }
func (cancelledState) Enter(c *Controller) {
	// Whatever pose a dash already reached stays applied.
	c.dash = nil
	c.armed = false
	c.emit(Event{Kind: EventTeleportCancelled})
}
func (cancelledState) Exit(c *Controller)        {}
func (cancelledState) HandleInput(c *Controller) {}
func (cancelledState) Update(c *Controller) {
	c.ChangeState(stateIdle)
}
