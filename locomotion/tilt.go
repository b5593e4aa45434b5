package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vrlocomotion/common"
)

// TiltSample is the deviation of a tracked device from its calibrated
// orientation, in degrees. Forward is positive when the device pitches
// nose-down, Right is positive when it rolls to the right. Lean offsets use
// the same convention: positive along the calibrated forward and right axes.
type TiltSample struct {
	Forward float64
	Right   float64
}

// Magnitude is the combined tilt angle fed into the speed curve.
func (s TiltSample) Magnitude() float64 {
	return math.Hypot(s.Forward, s.Right)
}

// Normalized divides both angles by maxAngle and clamps them to [-1, 1].
func (s TiltSample) Normalized(maxAngle float64) (forward, right float64) {
	if maxAngle <= 0 {
		return 0, 0
	}
	return cp.Clamp(s.Forward/maxAngle, -1, 1), cp.Clamp(s.Right/maxAngle, -1, 1)
}

// TiltFromRotation measures rot against the frame's rotation. The angles are
// read from where the device's up axis has moved to, so turning the head
// (yaw) does not register as tilt.
func TiltFromRotation(frame CalibrationFrame, rot mgl64.Quat) TiltSample {
	u := frame.Relative(rot).Rotate(common.Up)
	return TiltSample{
		Forward: mgl64.RadToDeg(math.Atan2(u.Z(), u.Y())),
		Right:   mgl64.RadToDeg(math.Atan2(u.X(), u.Y())),
	}
}

// TiltVelocity converts the tilt of rot into a velocity along the frame's
// axes.
func TiltVelocity(frame CalibrationFrame, rot mgl64.Quat, curve SpeedCurve) (mgl64.Vec3, TiltSample) {
	sample := TiltFromRotation(frame, rot)
	mag := sample.Magnitude()
	if mag < common.Epsilon || !frame.Valid() {
		return mgl64.Vec3{}, sample
	}
	speed := ComputeSpeed(mag, curve)
	if speed == 0 {
		return mgl64.Vec3{}, sample
	}

	angle := math.Atan2(sample.Right, sample.Forward)
	dir := frame.Forward().Mul(math.Cos(angle)).Add(frame.Right().Mul(math.Sin(angle)))
	return common.SafeNormalize(dir).Mul(speed), sample
}
