package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/common"
)

// Velocity is the body's world-space linear velocity for the current tick.
type Velocity struct {
	Linear mgl64.Vec3
}

var VelocityComponent = NewComponent[Velocity]("velocity")

// PoseOverride replaces the body pose outright instead of integrating
// velocity. Teleports write it; the movement system consumes it.
type PoseOverride struct {
	Pending bool
	Pose    common.Pose
}

var PoseOverrideComponent = NewComponent[PoseOverride]("pose_override")
