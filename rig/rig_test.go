package rig

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/collision"
	"github.com/milk9111/vrlocomotion/common"
	"github.com/milk9111/vrlocomotion/ecs"
	"github.com/milk9111/vrlocomotion/ecs/system"
	"github.com/milk9111/vrlocomotion/locomotion"
	"github.com/milk9111/vrlocomotion/teleport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func posePtr(p common.Pose) *common.Pose { return &p }

func headAt(pitch float64) *common.Pose {
	return posePtr(common.NewPose(mgl64.Vec3{0, 1.7, 0}, pitch, 0, 0))
}

func controllerPose() *common.Pose {
	return posePtr(common.NewPose(mgl64.Vec3{0, 1, 0.2}, 0, 0, 0))
}

func floorWorld() *collision.World {
	return collision.NewWorld(collision.Plane{Normal: common.Up, Label: "Floor"})
}

func newRig(t *testing.T, mutate func(*Config)) *Rig {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	r, err := New(cfg, floorWorld(), nil)
	require.NoError(t, err)
	return r
}

func eventTypes(events []ecs.Event) []ecs.EventType {
	out := make([]ecs.EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestTiltMovesBody(t *testing.T) {
	cases := []struct {
		name    string
		yaw     float64
		wantDir mgl64.Vec3
	}{
		{"facing_forward", 0, mgl64.Vec3{0, 0, 1}},
		{"facing_right", 90, mgl64.Vec3{1, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, func(c *Config) {
				c.TeleportEnabled = false
				c.Start = common.NewPose(mgl64.Vec3{}, 0, tc.yaw, 0)
			})

			out := r.Tick(0.1, Frame{Head: headAt(0)})
			assert.Contains(t, eventTypes(out.Events), system.EventCalibrated)
			assert.Zero(t, out.Speed)
			_, count := r.Calibration()
			assert.Equal(t, 1, count)

			out = r.Tick(0.1, Frame{Head: headAt(-30)})
			assert.InDelta(t, 1.5, out.Speed, 1e-9)
			assert.InDelta(t, 30, out.Tilt.Forward, 1e-6)
			assert.InDelta(t, 1, out.Deflection.Y(), 1e-6)
			assert.InDelta(t, 0, out.Deflection.X(), 1e-6)
			assert.True(t, tc.wantDir.Mul(1.5).ApproxEqualThreshold(out.Velocity, 1e-9), "velocity %v", out.Velocity)
			assert.True(t, tc.wantDir.Mul(0.15).ApproxEqualThreshold(out.Body.Position, 1e-9), "body %v", out.Body.Position)
		})
	}
}

func TestLeanAndStickModes(t *testing.T) {
	t.Run("lean", func(t *testing.T) {
		r := newRig(t, func(c *Config) {
			c.TeleportEnabled = false
			c.Locomotion.Mode = locomotion.ModeLean
			c.Locomotion.Curve = locomotion.SpeedCurve{MaxSpeed: 2, DeadzoneThreshold: 0.05, MaxThreshold: 0.3, TransferPower: 1, Sensitivity: 1}
		})
		r.Tick(0.1, Frame{Head: headAt(0)})
		out := r.Tick(0.5, Frame{Head: posePtr(common.NewPose(mgl64.Vec3{-0.5, 1.7, 0}, 0, 0, 0))})
		assert.InDelta(t, -1, out.Body.Position.X(), 1e-9)
		assert.InDelta(t, -0.5, out.Lean.X(), 1e-9)
	})

	t.Run("thumbstick", func(t *testing.T) {
		r := newRig(t, func(c *Config) {
			c.TeleportEnabled = false
			c.Locomotion.Mode = locomotion.ModeStick
			c.Locomotion.Curve = locomotion.SpeedCurve{MaxSpeed: 2, DeadzoneThreshold: 0.1, MaxThreshold: 1, TransferPower: 1, Sensitivity: 1}
		})
		out := r.Tick(1, Frame{Stick: mgl64.Vec2{0, 1}})
		assert.InDelta(t, 2, out.Body.Position.Z(), 1e-9)
		assert.Empty(t, r.LocomotionDisabled(), "stick mode needs no tracked pose")
	})
}

func TestMissingSourceDisablesLocomotion(t *testing.T) {
	r := newRig(t, func(c *Config) { c.TeleportEnabled = false })

	out := r.Tick(0.1, Frame{})
	assert.Contains(t, eventTypes(out.Events), system.EventLocomotionDisabled)
	assert.NotEmpty(t, r.LocomotionDisabled())

	out = r.Tick(0.1, Frame{Head: headAt(-30)})
	assert.Zero(t, out.Speed, "disabled driver stays off")
	assert.Equal(t, mgl64.Vec3{}, out.Body.Position)
	assert.NotContains(t, eventTypes(out.Events), system.EventLocomotionDisabled, "logged once")
}

func TestLostSourceAfterStartIsPerTick(t *testing.T) {
	r := newRig(t, func(c *Config) { c.TeleportEnabled = false })
	r.Tick(0.1, Frame{Head: headAt(0)})

	out := r.Tick(0.1, Frame{})
	assert.Zero(t, out.Speed)
	assert.Empty(t, r.LocomotionDisabled())

	out = r.Tick(0.1, Frame{Head: headAt(-30)})
	assert.InDelta(t, 1.5, out.Speed, 1e-9)
}

func TestNilProberDisablesTeleportOnly(t *testing.T) {
	r, err := New(DefaultConfig(), nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, r.TeleportDisabled())

	r.Tick(0.1, Frame{Head: headAt(0), Controller: controllerPose()})
	out := r.Tick(0.1, Frame{Head: headAt(-30), Controller: controllerPose(), Stick: mgl64.Vec2{0, 1}})
	assert.Equal(t, teleport.StateDisabled, out.Teleport.State)
	assert.InDelta(t, 1.5, out.Speed, 1e-9)
}

func TestTeleportMovesBody(t *testing.T) {
	r := newRig(t, func(c *Config) {
		c.Locomotion.Mode = locomotion.ModeNone
		c.Start = common.NewPose(mgl64.Vec3{5, 0, 0}, 0, 0, 0)
	})

	out := r.Tick(0.1, Frame{Head: headAt(0), Controller: controllerPose(), Stick: mgl64.Vec2{0, 1}})
	require.Equal(t, teleport.StateAiming, out.Teleport.State)
	require.NotNil(t, out.Teleport.Arc)
	require.True(t, out.Teleport.Arc.Valid())
	landing := out.Teleport.Arc.Hit.Point
	assert.InDelta(t, 5, landing.X(), 1e-9, "arc starts from the controller's world pose")

	out = r.Tick(0.1, Frame{Head: headAt(0), Controller: controllerPose()})
	assert.Equal(t, teleport.StateIdle, out.Teleport.State)
	assert.True(t, landing.ApproxEqualThreshold(out.Body.Position, 1e-9))
	assert.Contains(t, eventTypes(out.Events), system.EventTeleport)
	assert.True(t, landing.ApproxEqualThreshold(r.Body().Position, 1e-9))
}

func TestDashCancelLeavesBodyMidway(t *testing.T) {
	r := newRig(t, func(c *Config) {
		c.Locomotion.Mode = locomotion.ModeNone
		c.Teleport.Execute = teleport.ExecuteDash
		c.Teleport.DashDuration = 1
	})
	frame := Frame{Head: headAt(0), Controller: controllerPose(), Stick: mgl64.Vec2{0, 1}}
	r.Tick(0.25, frame)

	frame.Stick = mgl64.Vec2{}
	out := r.Tick(0.25, frame)
	require.Equal(t, teleport.StateExecuting, out.Teleport.State)
	mid := out.Body.Position
	assert.Greater(t, mid.Z(), 0.0)

	frame.Cancel = true
	out = r.Tick(0.25, frame)
	assert.Equal(t, teleport.StateIdle, out.Teleport.State)
	assert.Equal(t, mid, out.Body.Position)
}

func TestCalibrateRequests(t *testing.T) {
	r := newRig(t, func(c *Config) { c.TeleportEnabled = false })
	r.Tick(0.1, Frame{Head: headAt(0)})

	r.Calibrate()
	r.Tick(0.1, Frame{Head: headAt(-30)})
	frame, count := r.Calibration()
	assert.Equal(t, 2, count)

	// Recalibrated at the tilted pose, so that pose is now neutral.
	out := r.Tick(0.1, Frame{Head: headAt(-30)})
	assert.Zero(t, out.Speed)
	assert.True(t, frame.Valid())

	out = r.Tick(0.1, Frame{Head: headAt(0), Calibrate: true})
	_, count = r.Calibration()
	assert.Equal(t, 3, count)
	assert.Zero(t, out.Speed)
}

func TestReconfigure(t *testing.T) {
	r := newRig(t, func(c *Config) { c.TeleportEnabled = false })
	r.Tick(0.1, Frame{Head: headAt(0)})

	bad := r.Config()
	bad.Locomotion.Curve.TransferPower = 0
	assert.ErrorIs(t, r.Reconfigure(bad), ErrInvalidConfig)

	next := r.Config()
	next.Locomotion.Source = locomotion.SourceController
	next.TeleportEnabled = true
	require.NoError(t, r.Reconfigure(next))
	assert.Empty(t, r.TeleportDisabled())

	r.Tick(0.1, Frame{Head: headAt(0), Controller: controllerPose()})
	_, count := r.Calibration()
	assert.Equal(t, 2, count, "source change recalibrates")
}

func TestRejectedReconfigureKeepsRig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"teleport_segments", func(c *Config) {
			c.Teleport.Segments = 0
			c.Locomotion.Source = locomotion.SourceController
		}},
		{"curve", func(c *Config) {
			c.Locomotion.Curve.TransferPower = 0
			c.TeleportEnabled = false
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, func(c *Config) { c.Locomotion.Mode = locomotion.ModeNone })
			frame := Frame{Head: headAt(0), Controller: controllerPose(), Stick: mgl64.Vec2{0, 1}}
			out := r.Tick(0.1, frame)
			require.Equal(t, teleport.StateAiming, out.Teleport.State)
			before := r.Config()
			_, count := r.Calibration()

			next := r.Config()
			tc.mutate(&next)
			assert.ErrorIs(t, r.Reconfigure(next), ErrInvalidConfig)
			assert.Equal(t, before, r.Config())
			assert.Empty(t, r.TeleportDisabled())

			out = r.Tick(0.1, frame)
			assert.Equal(t, teleport.StateAiming, out.Teleport.State, "aim survives")
			_, after := r.Calibration()
			assert.Equal(t, count, after)
		})
	}
}

func TestReconfigureTogglesTeleport(t *testing.T) {
	r := newRig(t, func(c *Config) { c.Locomotion.Mode = locomotion.ModeNone })
	frame := Frame{Head: headAt(0), Controller: controllerPose(), Stick: mgl64.Vec2{0, 1}}

	off := r.Config()
	off.TeleportEnabled = false
	require.NoError(t, r.Reconfigure(off))
	assert.NotEmpty(t, r.TeleportDisabled())
	out := r.Tick(0.1, frame)
	assert.Empty(t, out.Teleport.State)

	on := r.Config()
	on.TeleportEnabled = true
	on.Teleport.Segments = 12
	require.NoError(t, r.Reconfigure(on))
	assert.Empty(t, r.TeleportDisabled())
	out = r.Tick(0.1, frame)
	assert.Equal(t, teleport.StateAiming, out.Teleport.State)

	on.Teleport.Segments = 16
	require.NoError(t, r.Reconfigure(on))
	out = r.Tick(0.1, frame)
	assert.Equal(t, teleport.StateAiming, out.Teleport.State)
	require.NotNil(t, out.Teleport.Arc)
	assert.Len(t, out.Teleport.Arc.Points, 16)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Teleport.Segments = 0
	_, err := New(cfg, floorWorld(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, teleport.ErrInvalidConfig)
}
