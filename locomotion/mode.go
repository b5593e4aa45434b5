package locomotion

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/common"
)

// Mode selects what displacement drives movement.
type Mode int

const (
	ModeNone Mode = iota
	ModeTilt
	ModeLean
	ModeStick
)

// Source is the tracked device tilt and lean read from and calibrate against.
type Source int

const (
	SourceHead Source = iota
	SourceController
)

var (
	modeNames   = []string{"none", "tilt", "lean", "thumbstick"}
	sourceNames = []string{"head", "controller"}
)

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("unknown(%d)", int(m))
	}
	return modeNames[m]
}

func (s Source) String() string {
	if s < 0 || int(s) >= len(sourceNames) {
		return fmt.Sprintf("unknown(%d)", int(s))
	}
	return sourceNames[s]
}

func ParseMode(s string) (Mode, error) {
	i, err := lookup(modeNames, "mode", s)
	return Mode(i), err
}

func ParseSource(s string) (Source, error) {
	i, err := lookup(sourceNames, "source", s)
	return Source(i), err
}

func lookup(names []string, what, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, what, s)
}

// Config is one locomotion driver's settings.
type Config struct {
	Mode    Mode
	Source  Source
	Curve   SpeedCurve
	Planar  bool
	MaxTilt float64 // degrees of tilt reported as full Sample.Deflection
}

// DefaultConfig is head tilt on the horizontal plane.
func DefaultConfig() Config {
	return Config{
		Mode:    ModeTilt,
		Source:  SourceHead,
		Curve:   DefaultCurve(ModeTilt),
		Planar:  true,
		MaxTilt: 30,
	}
}

// DefaultCurve returns a speed curve in the units the mode measures:
// degrees for tilt, meters for lean, stick magnitude for the thumbstick.
func DefaultCurve(m Mode) SpeedCurve {
	switch m {
	case ModeLean:
		return SpeedCurve{MaxSpeed: 1.5, DeadzoneThreshold: 0.05, MaxThreshold: 0.3, TransferPower: 1.53, Sensitivity: 1}
	case ModeStick:
		return SpeedCurve{MaxSpeed: 2, DeadzoneThreshold: 0.1, MaxThreshold: 1, TransferPower: 1, Sensitivity: 1}
	default:
		return SpeedCurve{MaxSpeed: 1.5, DeadzoneThreshold: 3, MaxThreshold: 30, TransferPower: 1.53, Sensitivity: 1}
	}
}

// Validate returns the config with its curve normalized.
func (c Config) Validate() (Config, error) {
	if c.Mode < ModeNone || c.Mode > ModeStick {
		return c, fmt.Errorf("%w: mode %d", ErrInvalidConfig, int(c.Mode))
	}
	if c.Source < SourceHead || c.Source > SourceController {
		return c, fmt.Errorf("%w: source %d", ErrInvalidConfig, int(c.Source))
	}
	if c.Mode == ModeTilt && c.MaxTilt <= 0 {
		return c, fmt.Errorf("%w: max tilt %v must be positive", ErrInvalidConfig, c.MaxTilt)
	}
	curve, err := c.Curve.Validate()
	if err != nil {
		return c, err
	}
	c.Curve = curve
	return c, nil
}

// NeedsCalibration reports whether the mode measures against a frame.
func (c Config) NeedsCalibration() bool {
	return c.Mode == ModeTilt || c.Mode == ModeLean
}

// Sample is one tick of locomotion output. Deflection is the tilt scaled by
// MaxTilt into [-1, 1], X right and Y forward like the stick.
type Sample struct {
	Velocity   mgl64.Vec3
	Speed      float64
	Tilt       TiltSample
	Deflection mgl64.Vec2
	Lean       mgl64.Vec3
}

// Drive computes the velocity for one tick. source is the configured tracked
// device's pose, in the same space the frame was captured in; the thumbstick
// mode uses it only for heading and falls back to identity.
func (c Config) Drive(frame CalibrationFrame, source *common.Pose, stick mgl64.Vec2) (Sample, error) {
	switch c.Mode {
	case ModeStick:
		ref := common.IdentityPose()
		if source != nil {
			ref = *source
		}
		v := StickVelocity(stick, ref, c.Curve)
		return Sample{Velocity: v, Speed: v.Len()}, nil
	case ModeTilt, ModeLean:
	default:
		return Sample{}, nil
	}

	if source == nil {
		return Sample{}, ErrNoPose
	}
	if !frame.Valid() {
		return Sample{}, ErrNotCalibrated
	}
	if c.Mode == ModeTilt {
		v, tilt := TiltVelocity(frame, source.Rotation, c.Curve)
		forward, right := tilt.Normalized(c.MaxTilt)
		return Sample{Velocity: v, Speed: v.Len(), Tilt: tilt, Deflection: mgl64.Vec2{right, forward}}, nil
	}
	v, lean := LeanVelocity(frame, source.Position, c.Curve)
	return Sample{Velocity: v, Speed: v.Len(), Lean: lean}, nil
}
