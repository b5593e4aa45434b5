package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vrlocomotion/common"
)

// StickVelocity moves along the heading of reference: stick Y pushes along
// its forward, stick X along its right. Magnitudes past 1 are clamped.
func StickVelocity(stick mgl64.Vec2, reference common.Pose, curve SpeedCurve) mgl64.Vec3 {
	v := cp.Vector{X: stick.X(), Y: stick.Y()}.Clamp(1)
	mag := v.Length()
	if mag < common.Epsilon {
		return mgl64.Vec3{}
	}
	speed := ComputeSpeed(mag, curve)
	if speed == 0 {
		return mgl64.Vec3{}
	}

	n := v.Mult(1 / mag)
	heading := common.YawQuat(reference.Yaw())
	dir := heading.Rotate(common.Right).Mul(n.X).Add(heading.Rotate(common.Forward).Mul(n.Y))
	return dir.Mul(speed)
}
