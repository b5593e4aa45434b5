package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a position and orientation. Axes follow the usual VR layout: +Y up,
// +Z forward, +X right.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityPose is the pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// NewPose builds a pose from a position and euler angles in degrees, using
// the same signs Pitch, Yaw and Roll report: pitch up, yaw right and roll
// right are positive. Yaw is applied first, then pitch, then roll.
func NewPose(pos mgl64.Vec3, pitchDeg, yawDeg, rollDeg float64) Pose {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(yawDeg), Up)
	pitch := mgl64.QuatRotate(-mgl64.DegToRad(pitchDeg), Right)
	roll := mgl64.QuatRotate(-mgl64.DegToRad(rollDeg), Forward)
	return Pose{Position: pos, Rotation: yaw.Mul(pitch).Mul(roll).Normalize()}
}

func (p Pose) rotation() mgl64.Quat {
	if p.Rotation.Len() < Epsilon {
		return mgl64.QuatIdent()
	}
	return p.Rotation
}

func (p Pose) Forward() mgl64.Vec3 { return p.rotation().Rotate(Forward) }
func (p Pose) Right() mgl64.Vec3   { return p.rotation().Rotate(Right) }
func (p Pose) Up() mgl64.Vec3      { return p.rotation().Rotate(Up) }

// Yaw returns the heading of the forward axis in radians. A forward axis
// pointing straight up or down falls back to the up axis so the heading
// stays defined.
func (p Pose) Yaw() float64 {
	f := p.Forward()
	if math.Hypot(f.X(), f.Z()) < Epsilon {
		u := p.Up()
		if f.Y() > 0 {
			u = u.Mul(-1)
		}
		return math.Atan2(u.X(), u.Z())
	}
	return math.Atan2(f.X(), f.Z())
}

// Pitch returns the elevation of the forward axis in radians, positive up.
func (p Pose) Pitch() float64 {
	f := p.Forward()
	return math.Atan2(f.Y(), math.Hypot(f.X(), f.Z()))
}

// Roll returns the twist about the forward axis in radians, positive when the
// up axis leans toward the heading's right.
func (p Pose) Roll() float64 {
	rightH := Up.Cross(Planar(p.Forward()))
	if NearZero(rightH) {
		return 0
	}
	u := p.Up()
	return math.Atan2(u.Dot(rightH), u.Y())
}

// Direction rotates a vector from p's local axes into its parent space.
func (p Pose) Direction(v mgl64.Vec3) mgl64.Vec3 {
	return p.rotation().Rotate(v)
}

// Compose maps a pose expressed relative to p into p's parent space.
func (p Pose) Compose(local Pose) Pose {
	rot := p.rotation()
	return Pose{
		Position: p.Position.Add(rot.Rotate(local.Position)),
		Rotation: rot.Mul(local.rotation()).Normalize(),
	}
}

// WithYaw keeps the position and replaces the rotation with a pure heading.
func (p Pose) WithYaw(yaw float64) Pose {
	return Pose{Position: p.Position, Rotation: YawQuat(yaw)}
}
