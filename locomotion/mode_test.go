package locomotion

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModeAndSource(t *testing.T) {
	for _, m := range []Mode{ModeNone, ModeTilt, ModeLean, ModeStick} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	src, err := ParseSource("Controller")
	require.NoError(t, err)
	assert.Equal(t, SourceController, src)

	_, err = ParseMode("fly")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate(t *testing.T) {
	cfg, err := DefaultConfig().Validate()
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Curve.DeadzoneThreshold)

	bad := DefaultConfig()
	bad.MaxTilt = 0
	_, err = bad.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	bad = DefaultConfig()
	bad.Curve.TransferPower = 0
	_, err = bad.Validate()
	assert.ErrorIs(t, err, ErrInvalidCurve)
}

func TestDefaultCurve(t *testing.T) {
	cases := []struct {
		name string
		mode Mode
		full float64
		rest float64
	}{
		{"tilt_degrees", ModeTilt, 30, 2},
		{"lean_meters", ModeLean, 0.3, 0.02},
		{"stick_magnitude", ModeStick, 1, 0.05},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := DefaultCurve(tc.mode).Validate()
			require.NoError(t, err)
			assert.InDelta(t, c.MaxSpeed, ComputeSpeed(tc.full, c), 1e-9)
			assert.Zero(t, ComputeSpeed(tc.rest, c))
		})
	}
	assert.Equal(t, DefaultCurve(ModeTilt), DefaultConfig().Curve)
}

func TestDrive(t *testing.T) {
	head := common.NewPose(mgl64.Vec3{0, 1.7, 0}, 0, 0, 0)
	frame := NewCalibrationFrame(head, true)
	nodDown := common.NewPose(head.Position, -30, 0, 0)
	leanFwd := common.NewPose(mgl64.Vec3{0, 1.7, 0.4}, 0, 0, 0)

	halfRight := common.NewPose(head.Position, 0, 0, 15)

	cases := []struct {
		name       string
		mode       Mode
		frame      CalibrationFrame
		source     *common.Pose
		stick      mgl64.Vec2
		err        error
		moving     bool
		forward    bool
		deflection mgl64.Vec2
	}{
		{"none", ModeNone, frame, &nodDown, mgl64.Vec2{}, nil, false, false, mgl64.Vec2{}},
		{"tilt_forward", ModeTilt, frame, &nodDown, mgl64.Vec2{}, nil, true, true, mgl64.Vec2{0, 1}},
		{"tilt_half_right", ModeTilt, frame, &halfRight, mgl64.Vec2{}, nil, true, false, mgl64.Vec2{0.5, 0}},
		{"tilt_neutral", ModeTilt, frame, &head, mgl64.Vec2{}, nil, false, false, mgl64.Vec2{}},
		{"tilt_untracked", ModeTilt, frame, nil, mgl64.Vec2{}, ErrNoPose, false, false, mgl64.Vec2{}},
		{"tilt_uncalibrated", ModeTilt, CalibrationFrame{}, &nodDown, mgl64.Vec2{}, ErrNotCalibrated, false, false, mgl64.Vec2{}},
		{"lean_forward", ModeLean, frame, &leanFwd, mgl64.Vec2{}, nil, true, true, mgl64.Vec2{}},
		{"stick_without_pose", ModeStick, CalibrationFrame{}, nil, mgl64.Vec2{0, 1}, nil, true, true, mgl64.Vec2{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = tc.mode
			cfg.Curve = DefaultCurve(tc.mode)

			s, err := cfg.Drive(tc.frame, tc.source, tc.stick)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Equal(t, mgl64.Vec3{}, s.Velocity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.moving, s.Speed > 0)
			assert.InDelta(t, tc.deflection.X(), s.Deflection.X(), 1e-6)
			assert.InDelta(t, tc.deflection.Y(), s.Deflection.Y(), 1e-6)
			if tc.forward {
				assert.Greater(t, s.Velocity.Z(), 0.0)
				assert.InDelta(t, 0, s.Velocity.X(), 1e-9)
			}
		})
	}
}
