package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vrlocomotion/common"
)

// LeanOffset expresses pos relative to the frame's position in the frame's
// axes: X along right, Y along up, Z along forward.
func LeanOffset(frame CalibrationFrame, pos mgl64.Vec3) mgl64.Vec3 {
	d := pos.Sub(frame.Position)
	return mgl64.Vec3{d.Dot(frame.Right()), d.Dot(frame.Up()), d.Dot(frame.Forward())}
}

// LeanVelocity turns the head displacement from the calibrated position into
// a velocity. Planar frames ignore the vertical offset; 3D frames move along
// all three axes.
func LeanVelocity(frame CalibrationFrame, pos mgl64.Vec3, curve SpeedCurve) (mgl64.Vec3, mgl64.Vec3) {
	offset := LeanOffset(frame, pos)
	if !frame.Valid() {
		return mgl64.Vec3{}, offset
	}

	if frame.Planar() {
		v := cp.Vector{X: offset.X(), Y: offset.Z()}
		radius := v.Length()
		if radius < common.Epsilon {
			return mgl64.Vec3{}, offset
		}
		n := v.Mult(1 / radius)
		dir := frame.Right().Mul(n.X).Add(frame.Forward().Mul(n.Y))
		return dir.Mul(ComputeSpeed(radius, curve)), offset
	}

	radius := offset.Len()
	if radius < common.Epsilon {
		return mgl64.Vec3{}, offset
	}
	dir := frame.Right().Mul(offset.X()).
		Add(frame.Up().Mul(offset.Y())).
		Add(frame.Forward().Mul(offset.Z())).
		Mul(1 / radius)
	return dir.Mul(ComputeSpeed(radius, curve)), offset
}
