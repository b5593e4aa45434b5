// Package rig wires locomotion and teleport into one ECS world and drives it
// one tick at a time. It is the host-facing entry point: feed it tracked
// poses and input each frame, read back the body pose and velocity.
package rig

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/arc"
	"github.com/milk9111/vrlocomotion/common"
	"github.com/milk9111/vrlocomotion/ecs"
	"github.com/milk9111/vrlocomotion/ecs/component"
	"github.com/milk9111/vrlocomotion/ecs/system"
	"github.com/milk9111/vrlocomotion/locomotion"
	"github.com/milk9111/vrlocomotion/logging"
	"github.com/milk9111/vrlocomotion/teleport"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("rig: invalid config")

type Config struct {
	Locomotion      locomotion.Config
	TeleportEnabled bool
	Teleport        teleport.Config
	Start           common.Pose
}

func DefaultConfig() Config {
	return Config{
		Locomotion:      locomotion.DefaultConfig(),
		TeleportEnabled: true,
		Teleport:        teleport.DefaultConfig(),
		Start:           common.IdentityPose(),
	}
}

// Validate checks every part and returns the normalized config.
func (c Config) Validate() (Config, error) {
	loc, err := c.Locomotion.Validate()
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.Locomotion = loc
	if c.TeleportEnabled {
		if err := c.Teleport.Validate(); err != nil {
			return c, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.Start.Rotation.Len() < common.Epsilon {
		c.Start.Rotation = mgl64.QuatIdent()
	}
	return c, nil
}

// Frame is one tick of host input. Poses are in tracking space, relative to
// the body; nil means not tracked this tick.
type Frame struct {
	Head       *common.Pose
	Controller *common.Pose
	External   *common.Pose

	Stick     mgl64.Vec2
	Trigger   float64
	Confirm   bool
	Cancel    bool
	Calibrate bool
}

// Output is what the host applies after a tick.
type Output struct {
	Tick       uint64
	Body       common.Pose
	Velocity   mgl64.Vec3
	Speed      float64
	Tilt       locomotion.TiltSample
	Deflection mgl64.Vec2
	Lean       mgl64.Vec3
	Teleport   teleport.Output
	Events     []ecs.Event
}

type Rig struct {
	cfg    Config
	prober arc.Prober
	logger *zap.Logger

	world  *ecs.World
	player ecs.Entity
}

// New validates cfg and builds the world. A nil prober only disables
// teleporting; locomotion keeps working.
func New(cfg Config, prober arc.Prober, logger *zap.Logger) (*Rig, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	r := &Rig{
		cfg:    cfg,
		prober: prober,
		logger: logger,
		world:  ecs.NewWorld(),
	}
	r.world.AddSystem(system.NewCalibrationSystem(logger))
	r.world.AddSystem(system.NewLocomotionSystem(logger))
	r.world.AddSystem(system.NewTeleportSystem())
	r.world.AddSystem(system.NewMovementSystem())

	player, err := r.buildPlayer()
	if err != nil {
		return nil, err
	}
	r.player = player
	return r, nil
}

func (r *Rig) Config() Config { return r.cfg }

// Tick advances the rig by dt seconds.
func (r *Rig) Tick(dt float64, f Frame) Output {
	if tracking, ok := ecs.Get(r.world, r.player, component.TrackingComponent); ok {
		*tracking = component.Tracking{Head: f.Head, Controller: f.Controller, External: f.External}
	}
	if input, ok := ecs.Get(r.world, r.player, component.InputComponent); ok {
		*input = component.Input{
			Stick:     f.Stick,
			Trigger:   f.Trigger,
			Confirm:   f.Confirm,
			Cancel:    f.Cancel,
			Calibrate: f.Calibrate,
		}
	}

	r.world.Update(dt)

	out := Output{Tick: r.world.Tick(), Events: r.world.Events().Drain()}
	if transform, ok := ecs.Get(r.world, r.player, component.TransformComponent); ok {
		out.Body = transform.Pose
	}
	if vel, ok := ecs.Get(r.world, r.player, component.VelocityComponent); ok {
		out.Velocity = vel.Linear
	}
	if loc, ok := ecs.Get(r.world, r.player, component.LocomotionComponent); ok {
		out.Speed = loc.Last.Speed
		out.Tilt = loc.Last.Tilt
		out.Deflection = loc.Last.Deflection
		out.Lean = loc.Last.Lean
	}
	if tp, ok := ecs.Get(r.world, r.player, component.TeleportComponent); ok {
		out.Teleport = tp.Last
		if tp.Controller == nil {
			out.Teleport = teleport.Output{State: teleport.StateDisabled}
		}
	}
	return out
}

// Calibrate asks for a new calibration frame on the next tick.
func (r *Rig) Calibrate() {
	if cal, ok := ecs.Get(r.world, r.player, component.CalibrationComponent); ok {
		cal.Requested = true
	}
}

// Calibration returns the current calibration frame and how many captures
// have happened.
func (r *Rig) Calibration() (locomotion.CalibrationFrame, int) {
	if cal, ok := ecs.Get(r.world, r.player, component.CalibrationComponent); ok {
		return cal.Frame, cal.Count
	}
	return locomotion.CalibrationFrame{}, 0
}

// Body is the current world pose of the body.
func (r *Rig) Body() common.Pose {
	if transform, ok := ecs.Get(r.world, r.player, component.TransformComponent); ok {
		return transform.Pose
	}
	return common.IdentityPose()
}

// LocomotionDisabled returns why the locomotion driver stopped, or "".
func (r *Rig) LocomotionDisabled() string {
	if loc, ok := ecs.Get(r.world, r.player, component.LocomotionComponent); ok {
		return loc.Disabled
	}
	return ""
}

// TeleportDisabled returns why teleporting is off, or "".
func (r *Rig) TeleportDisabled() string {
	if tp, ok := ecs.Get(r.world, r.player, component.TeleportComponent); ok {
		return tp.Disabled
	}
	if r.cfg.TeleportEnabled {
		return ""
	}
	return "teleport not enabled"
}

// Reconfigure swaps in a new config between ticks. The body pose is kept; a
// changed calibration source or plane mode forces a new capture, and a
// changed teleport config restarts the teleport controller in idle.
func (r *Rig) Reconfigure(cfg Config) error {
	cfg, err := cfg.Validate()
	if err != nil {
		return err
	}

	// The replacement controller is built before any state changes.
	restart := r.cfg.TeleportEnabled != cfg.TeleportEnabled || r.cfg.Teleport != cfg.Teleport
	var tp component.Teleport
	var hasTeleport bool
	if restart {
		if tp, hasTeleport, err = r.newTeleport(cfg); err != nil {
			return err
		}
	}

	r.cfg = cfg
	if loc, ok := ecs.Get(r.world, r.player, component.LocomotionComponent); ok {
		*loc = component.Locomotion{Config: cfg.Locomotion}
	}
	if cal, ok := ecs.Get(r.world, r.player, component.CalibrationComponent); ok {
		if cal.Source != cfg.Locomotion.Source || cal.Planar != cfg.Locomotion.Planar {
			cal.Source = cfg.Locomotion.Source
			cal.Planar = cfg.Locomotion.Planar
			cal.Requested = true
		}
	}
	if restart {
		switch cur, ok := ecs.Get(r.world, r.player, component.TeleportComponent); {
		case !hasTeleport:
			ecs.Remove(r.world, r.player, component.TeleportComponent)
		case ok:
			*cur = tp
		default:
			if err := ecs.Add(r.world, r.player, component.TeleportComponent, tp); err != nil {
				return fmt.Errorf("rig: reconfigure: %w", err)
			}
		}
	}

	r.logger.Info("rig reconfigured",
		zap.Stringer("mode", cfg.Locomotion.Mode),
		zap.Bool("teleport", cfg.TeleportEnabled),
	)
	return nil
}
