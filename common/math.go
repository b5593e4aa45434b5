package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the magnitude under which a displacement or direction is
// treated as zero.
const Epsilon = 1e-4

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Down    = mgl64.Vec3{0, -1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
	Right   = mgl64.Vec3{1, 0, 0}
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpVec3 interpolates component-wise; t is not clamped.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// NearZero reports whether v is shorter than Epsilon.
func NearZero(v mgl64.Vec3) bool {
	return v.Len() < Epsilon
}

// Planar drops the vertical component of v and normalizes the rest.
// Returns the zero vector when nothing is left.
func Planar(v mgl64.Vec3) mgl64.Vec3 {
	p := mgl64.Vec3{v.X(), 0, v.Z()}
	if NearZero(p) {
		return mgl64.Vec3{}
	}
	return p.Normalize()
}

// SafeNormalize returns v normalized, or the zero vector when v is
// shorter than Epsilon.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	if NearZero(v) {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}

// YawQuat is a rotation of yaw radians about the world up axis. Positive yaw
// turns forward (+Z) toward right (+X).
func YawQuat(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

// WrapAngle maps an angle in radians into (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
