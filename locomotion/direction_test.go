package locomotion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leanCurve() SpeedCurve {
	return SpeedCurve{MaxSpeed: 2, DeadzoneThreshold: 0.05, MaxThreshold: 0.3, TransferPower: 1, Sensitivity: 1}
}

func assertVecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-6), "want %v got %v", want, got)
}

func TestTiltSignConvention(t *testing.T) {
	frame := NewCalibrationFrame(common.IdentityPose(), true)

	cases := []struct {
		name               string
		pitch, yaw, roll   float64
		wantFwd, wantRight float64
	}{
		{"nose_down", -10, 0, 0, 10, 0},
		{"nose_up", 12, 0, 0, -12, 0},
		{"roll_right", 0, 0, 8, 0, 8},
		{"roll_left", 0, 0, -8, 0, -8},
		{"yaw_only", 0, 70, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pose := common.NewPose(mgl64.Vec3{}, tc.pitch, tc.yaw, tc.roll)
			s := TiltFromRotation(frame, pose.Rotation)
			assert.InDelta(t, tc.wantFwd, s.Forward, 1e-6)
			assert.InDelta(t, tc.wantRight, s.Right, 1e-6)
		})
	}
}

func TestTiltVelocity(t *testing.T) {
	frame := NewCalibrationFrame(common.NewPose(mgl64.Vec3{}, 0, 90, 0), true)
	curve := tiltCurve()

	t.Run("forward_follows_calibrated_heading", func(t *testing.T) {
		pose := common.NewPose(mgl64.Vec3{}, -30, 90, 0)
		v, s := TiltVelocity(frame, pose.Rotation, curve)
		assert.InDelta(t, 30, s.Forward, 1e-6)
		// Calibrated facing +X, so forward tilt moves along +X at full speed.
		assertVecNear(t, mgl64.Vec3{1.5, 0, 0}, v)
	})

	t.Run("inside_deadzone", func(t *testing.T) {
		pose := common.NewPose(mgl64.Vec3{}, -2, 90, 0)
		v, _ := TiltVelocity(frame, pose.Rotation, curve)
		assert.Equal(t, mgl64.Vec3{}, v)
	})

	t.Run("level_is_zero", func(t *testing.T) {
		v, s := TiltVelocity(frame, frame.Rotation, curve)
		assert.Equal(t, mgl64.Vec3{}, v)
		assert.Less(t, s.Magnitude(), common.Epsilon)
	})

	t.Run("uncalibrated", func(t *testing.T) {
		pose := common.NewPose(mgl64.Vec3{}, -30, 0, 0)
		v, _ := TiltVelocity(CalibrationFrame{}, pose.Rotation, curve)
		assert.Equal(t, mgl64.Vec3{}, v)
	})
}

func TestTiltNormalized(t *testing.T) {
	f, r := TiltSample{Forward: 45, Right: -10}.Normalized(30)
	assert.Equal(t, 1.0, f)
	assert.InDelta(t, -1.0/3, r, 1e-9)

	f, r = TiltSample{Forward: 45}.Normalized(0)
	assert.Zero(t, f)
	assert.Zero(t, r)
}

func TestLeanVelocity(t *testing.T) {
	calib := common.Pose{Position: mgl64.Vec3{0, 1.7, 0}, Rotation: mgl64.QuatIdent()}
	curve := leanCurve()

	t.Run("planar_ignores_height", func(t *testing.T) {
		frame := NewCalibrationFrame(calib, true)
		v, offset := LeanVelocity(frame, mgl64.Vec3{0, 1.2, 0}, curve)
		assert.Equal(t, mgl64.Vec3{}, v)
		assert.InDelta(t, -0.5, offset.Y(), 1e-9)
	})

	t.Run("planar_forward_saturates", func(t *testing.T) {
		frame := NewCalibrationFrame(calib, true)
		v, _ := LeanVelocity(frame, mgl64.Vec3{0, 1.7, 0.4}, curve)
		assertVecNear(t, mgl64.Vec3{0, 0, 2}, v)
	})

	t.Run("planar_diagonal", func(t *testing.T) {
		frame := NewCalibrationFrame(calib, true)
		d := 0.175 / math.Sqrt2
		v, _ := LeanVelocity(frame, mgl64.Vec3{d, 1.7, d}, curve)
		// radius 0.175 is halfway through the linear ramp.
		assertVecNear(t, mgl64.Vec3{1, 0, 1}.Normalize().Mul(1), v)
	})

	t.Run("three_d_moves_vertically", func(t *testing.T) {
		frame := NewCalibrationFrame(calib, false)
		v, _ := LeanVelocity(frame, mgl64.Vec3{0, 2.1, 0}, curve)
		assertVecNear(t, mgl64.Vec3{0, 2, 0}, v)
	})

	t.Run("near_zero_short_circuits", func(t *testing.T) {
		frame := NewCalibrationFrame(calib, true)
		v, _ := LeanVelocity(frame, mgl64.Vec3{0.00001, 1.7, 0}, curve)
		assert.Equal(t, mgl64.Vec3{}, v)
		for _, c := range v {
			require.False(t, math.IsNaN(c))
		}
	})
}

func TestCalibrationFramePlanarAxes(t *testing.T) {
	// Looking down and to the left while calibrating still yields level,
	// unit-length axes in planar mode.
	frame := NewCalibrationFrame(common.NewPose(mgl64.Vec3{}, -40, -90, 0), true)
	assertVecNear(t, mgl64.Vec3{-1, 0, 0}, frame.Forward())
	assertVecNear(t, mgl64.Vec3{0, 0, 1}, frame.Right())
	assert.InDelta(t, 1, frame.Forward().Len(), 1e-9)
	assert.InDelta(t, 0, frame.Forward().Y(), 1e-12)
}

func TestStickVelocity(t *testing.T) {
	curve := SpeedCurve{MaxSpeed: 3, DeadzoneThreshold: 0.1, MaxThreshold: 1, TransferPower: 1, Sensitivity: 1}
	head := common.NewPose(mgl64.Vec3{}, -20, 90, 0)

	cases := []struct {
		name  string
		stick mgl64.Vec2
		want  mgl64.Vec3
	}{
		{"idle", mgl64.Vec2{}, mgl64.Vec3{}},
		{"deadzone", mgl64.Vec2{0.05, 0.05}, mgl64.Vec3{}},
		{"full_forward", mgl64.Vec2{0, 1}, mgl64.Vec3{3, 0, 0}},
		{"full_right", mgl64.Vec2{1, 0}, mgl64.Vec3{0, 0, -3}},
		{"overdriven", mgl64.Vec2{0, 2}, mgl64.Vec3{3, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertVecNear(t, tc.want, StickVelocity(tc.stick, head, curve))
		})
	}
}
