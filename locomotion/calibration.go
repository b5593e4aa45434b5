package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/common"
)

// CalibrationFrame is the reference pose captured when locomotion is zeroed.
// It is immutable; recalibrating replaces the whole value.
type CalibrationFrame struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat

	forward mgl64.Vec3
	right   mgl64.Vec3
	up      mgl64.Vec3
	planar  bool
}

// NewCalibrationFrame captures pose as the neutral reference. In planar mode
// the forward and right axes are flattened onto the horizontal plane.
func NewCalibrationFrame(pose common.Pose, planar bool) CalibrationFrame {
	f := CalibrationFrame{
		Position: pose.Position,
		Rotation: pose.Rotation,
		planar:   planar,
	}
	if planar {
		yaw := pose.Yaw()
		rot := common.YawQuat(yaw)
		f.forward = rot.Rotate(common.Forward)
		f.right = rot.Rotate(common.Right)
		f.up = common.Up
		return f
	}
	f.forward = common.SafeNormalize(pose.Forward())
	f.right = common.SafeNormalize(pose.Right())
	f.up = common.SafeNormalize(pose.Up())
	return f
}

// Valid reports whether the frame was built by NewCalibrationFrame.
func (f CalibrationFrame) Valid() bool {
	return !common.NearZero(f.forward)
}

func (f CalibrationFrame) Forward() mgl64.Vec3 { return f.forward }
func (f CalibrationFrame) Right() mgl64.Vec3   { return f.right }
func (f CalibrationFrame) Up() mgl64.Vec3      { return f.up }
func (f CalibrationFrame) Planar() bool        { return f.planar }

// Relative expresses rot in the frame's rotation space.
func (f CalibrationFrame) Relative(rot mgl64.Quat) mgl64.Quat {
	base := f.Rotation
	if base.Len() < common.Epsilon {
		base = mgl64.QuatIdent()
	}
	return base.Inverse().Mul(rot).Normalize()
}
