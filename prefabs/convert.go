package prefabs

import (
	"fmt"
	"strings"

	"github.com/milk9111/vrlocomotion/arc"
	"github.com/milk9111/vrlocomotion/collision"
	"github.com/milk9111/vrlocomotion/common"
	"github.com/milk9111/vrlocomotion/locomotion"
	"github.com/milk9111/vrlocomotion/rig"
	"github.com/milk9111/vrlocomotion/teleport"
)

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Curve overlays the fields present in the YAML onto base.
func (s CurveSpec) Curve(base locomotion.SpeedCurve) locomotion.SpeedCurve {
	setIf(&base.MaxSpeed, s.MaxSpeed)
	setIf(&base.DeadzoneThreshold, s.Deadzone)
	setIf(&base.MaxThreshold, s.MaxThreshold)
	setIf(&base.TransferPower, s.TransferPower)
	setIf(&base.Sensitivity, s.Sensitivity)
	return base
}

func (s LocomotionSpec) Config() (locomotion.Config, error) {
	cfg := locomotion.DefaultConfig()
	if s.Mode != "" {
		mode, err := locomotion.ParseMode(s.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = mode
	}
	src, err := locomotion.ParseSource(s.Source)
	if err != nil {
		return cfg, err
	}
	cfg.Source = src
	setIf(&cfg.Planar, s.Planar)
	setIf(&cfg.MaxTilt, s.MaxTilt)
	cfg.Curve = s.Curve.Curve(locomotion.DefaultCurve(cfg.Mode))
	return cfg, nil
}

func (s ArcSpec) Config() (arc.Config, error) {
	cfg := arc.DefaultConfig()
	setIf(&cfg.MaxDistance, s.MaxDistance)
	setIf(&cfg.DropHeight, s.DropHeight)
	setIf(&cfg.ArcHeight, s.ArcHeight)
	setIf(&cfg.InitialSpeed, s.InitialSpeed)
	setIf(&cfg.FlightTime, s.FlightTime)
	setIf(&cfg.RaiseHeight, s.RaiseHeight)
	setIf(&cfg.RaycastReach, s.RaycastReach)
	setIf(&cfg.MinPitch, s.MinPitch)
	setIf(&cfg.MaxPitch, s.MaxPitch)
	setIf(&cfg.TeleportTag, s.TeleportTag)
	setIf(&cfg.MaxSlope, s.MaxSlope)
	if !s.Gravity.IsZero() {
		g, err := s.Gravity.Vec3()
		if err != nil {
			return cfg, err
		}
		cfg.Gravity = g
	}
	return cfg, nil
}

func (s TeleportSpec) Config() (teleport.Config, error) {
	cfg := teleport.DefaultConfig()
	var err error
	if cfg.Trigger, err = teleport.ParseTriggerMode(s.Trigger); err != nil {
		return cfg, err
	}
	if cfg.Execute, err = teleport.ParseExecuteMode(s.Execute); err != nil {
		return cfg, err
	}
	if cfg.Rotation, err = teleport.ParseRotationPolicy(s.Rotation); err != nil {
		return cfg, err
	}
	if s.Arc.Kind != "" {
		if cfg.ArcKind, err = arc.ParseKind(s.Arc.Kind); err != nil {
			return cfg, err
		}
	}
	if s.Arc.Segments != 0 {
		cfg.Segments = s.Arc.Segments
	}
	setIf(&cfg.Deadzone, s.Deadzone)
	setIf(&cfg.MaxReach, s.MaxReach)
	setIf(&cfg.DashDuration, s.DashDuration)
	setIf(&cfg.RollScale, s.RollScale)
	if cfg.Arc, err = s.Arc.Config(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (s TransformSpec) Pose() (common.Pose, error) {
	pos, err := s.Position.Vec3()
	if err != nil {
		return common.Pose{}, err
	}
	return common.NewPose(pos, s.Pitch, s.Yaw, s.Roll), nil
}

// Config overlays s onto the rig defaults and validates the result.
func (s RigSpec) Config() (rig.Config, error) {
	cfg := rig.DefaultConfig()
	var err error
	if cfg.Locomotion, err = s.Locomotion.Config(); err != nil {
		return cfg, fmt.Errorf("prefabs: rig %q locomotion: %w", s.Name, err)
	}
	if cfg.Teleport, err = s.Teleport.Config(); err != nil {
		return cfg, fmt.Errorf("prefabs: rig %q teleport: %w", s.Name, err)
	}
	setIf(&cfg.TeleportEnabled, s.Teleport.Enabled)
	if cfg.Start, err = s.Start.Pose(); err != nil {
		return cfg, fmt.Errorf("prefabs: rig %q start: %w", s.Name, err)
	}
	if cfg, err = cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("prefabs: rig %q: %w", s.Name, err)
	}
	return cfg, nil
}

func (s ShapeSpec) Shape() (collision.Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "plane":
		point, err := s.Point.Vec3()
		if err != nil {
			return nil, err
		}
		normal, err := s.Normal.Vec3()
		if err != nil {
			return nil, err
		}
		if common.NearZero(normal) {
			normal = common.Up
		}
		return collision.Plane{Point: point, Normal: normal.Normalize(), Label: s.Tag}, nil
	case "box":
		lo, err := s.Min.Vec3()
		if err != nil {
			return nil, err
		}
		hi, err := s.Max.Vec3()
		if err != nil {
			return nil, err
		}
		if lo.X() > hi.X() || lo.Y() > hi.Y() || lo.Z() > hi.Z() {
			return nil, fmt.Errorf("%w: box min %v exceeds max %v", ErrInvalidSpec, lo, hi)
		}
		return collision.Box{Min: lo, Max: hi, Label: s.Tag}, nil
	case "sphere":
		center, err := s.Center.Vec3()
		if err != nil {
			return nil, err
		}
		if s.Radius <= 0 {
			return nil, fmt.Errorf("%w: sphere radius %v", ErrInvalidSpec, s.Radius)
		}
		return collision.Sphere{Center: center, Radius: s.Radius, Label: s.Tag}, nil
	default:
		return nil, fmt.Errorf("%w: unknown shape type %q", ErrInvalidSpec, s.Type)
	}
}

// World builds the collision world for the scene.
func (s SceneSpec) World() (*collision.World, error) {
	w := collision.NewWorld()
	for i, shape := range s.Shapes {
		built, err := shape.Shape()
		if err != nil {
			return nil, fmt.Errorf("prefabs: scene %q shape %d: %w", s.Name, i, err)
		}
		w.Add(built)
	}
	return w, nil
}
