package teleport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/common"
)

// landingRotation picks the heading the body faces after teleporting. It
// reads only the snapshot and the values captured while aiming.
func landingRotation(cfg Config, snap Snapshot, startRoll float64, stick mgl64.Vec2) mgl64.Quat {
	keep := snap.Body.Rotation
	if keep.Len() < common.Epsilon {
		keep = mgl64.QuatIdent()
	}

	switch cfg.Rotation {
	case RotationCameraYaw:
		if snap.Head != nil {
			return common.YawQuat(snap.Head.Yaw())
		}
	case RotationControllerYaw:
		if snap.Controller != nil {
			return common.YawQuat(snap.Controller.Yaw())
		}
	case RotationControllerRollDelta:
		if snap.Controller != nil {
			delta := common.WrapAngle(snap.Controller.Roll() - startRoll)
			return common.YawQuat(snap.Body.Yaw() + delta*cfg.RollScale)
		}
	case RotationJoystickDirection:
		if snap.Controller != nil && stick.Len() >= common.Epsilon {
			return common.YawQuat(snap.Controller.Yaw() + math.Atan2(stick.X(), stick.Y()))
		}
	case RotationExternalBodyYaw:
		if snap.External != nil {
			return common.YawQuat(snap.External.Yaw())
		}
	}
	return keep
}
