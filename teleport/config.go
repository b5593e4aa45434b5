package teleport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/vrlocomotion/arc"
)

var (
	ErrInvalidConfig = errors.New("teleport: invalid config")
	ErrNilProber     = errors.New("teleport: nil collision prober")
)

// TriggerMode selects which input magnitude starts and releases aiming.
type TriggerMode int

const (
	TriggerThumbstick TriggerMode = iota // stick deflection
	TriggerButton                        // analog trigger or held button
	TriggerDistance                      // planar controller reach away from the head
)

// ExecuteMode selects how the body gets to the landing pose.
type ExecuteMode int

const (
	ExecuteInstant ExecuteMode = iota
	ExecuteDash                // straight line
	ExecuteArcDash             // along the aimed arc
)

// RotationPolicy decides the landing heading.
type RotationPolicy int

const (
	RotationNone RotationPolicy = iota
	RotationCameraYaw
	RotationControllerYaw
	RotationControllerRollDelta
	RotationJoystickDirection
	RotationExternalBodyYaw
)

var (
	triggerNames  = []string{"thumbstick", "button", "distance"}
	executeNames  = []string{"instant", "dash", "arc_dash"}
	rotationNames = []string{"none", "camera_yaw", "controller_yaw", "controller_roll_delta", "joystick_direction", "external_body_yaw"}
)

func (m TriggerMode) String() string    { return enumName(triggerNames, int(m)) }
func (m ExecuteMode) String() string    { return enumName(executeNames, int(m)) }
func (p RotationPolicy) String() string { return enumName(rotationNames, int(p)) }

func ParseTriggerMode(s string) (TriggerMode, error) {
	i, err := parseEnum(triggerNames, "trigger mode", s)
	return TriggerMode(i), err
}

func ParseExecuteMode(s string) (ExecuteMode, error) {
	i, err := parseEnum(executeNames, "execute mode", s)
	return ExecuteMode(i), err
}

func ParseRotationPolicy(s string) (RotationPolicy, error) {
	i, err := parseEnum(rotationNames, "rotation policy", s)
	return RotationPolicy(i), err
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func parseEnum(names []string, what, s string) (int, error) {
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

// Config holds every teleport tunable.
type Config struct {
	Trigger  TriggerMode
	Deadzone float64 // magnitude that starts aiming (stick/trigger units, or metres of reach)
	MaxReach float64 // TriggerDistance: reach mapped to full arc distance

	Execute      ExecuteMode
	DashDuration float64 // seconds

	Rotation  RotationPolicy
	RollScale float64 // heading degrees per degree of controller roll

	ArcKind  arc.Kind
	Segments int
	Arc      arc.Config
}

func DefaultConfig() Config {
	return Config{
		Trigger:      TriggerThumbstick,
		Deadzone:     0.5,
		MaxReach:     0.6,
		Execute:      ExecuteInstant,
		DashDuration: 0.2,
		Rotation:     RotationNone,
		RollScale:    2,
		ArcKind:      arc.KindBezier,
		Segments:     30,
		Arc:          arc.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	switch {
	case c.Deadzone <= 0:
		return fmt.Errorf("%w: deadzone %v must be positive", ErrInvalidConfig, c.Deadzone)
	case c.Trigger == TriggerDistance && c.MaxReach <= c.Deadzone:
		return fmt.Errorf("%w: max reach %v must exceed deadzone %v", ErrInvalidConfig, c.MaxReach, c.Deadzone)
	case c.Trigger != TriggerDistance && c.Deadzone >= 1:
		return fmt.Errorf("%w: deadzone %v must be below 1", ErrInvalidConfig, c.Deadzone)
	case c.Execute != ExecuteInstant && c.DashDuration <= 0:
		return fmt.Errorf("%w: dash duration %v must be positive", ErrInvalidConfig, c.DashDuration)
	case c.Segments < arc.MinSegments:
		return fmt.Errorf("%w: %d segments, need at least %d", ErrInvalidConfig, c.Segments, arc.MinSegments)
	}
	if err := c.Arc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
