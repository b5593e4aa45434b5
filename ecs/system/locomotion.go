package system

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/ecs"
	"github.com/milk9111/vrlocomotion/ecs/component"
	"github.com/milk9111/vrlocomotion/locomotion"
	"github.com/milk9111/vrlocomotion/logging"
	"go.uber.org/zap"
)

// LocomotionSystem turns tilt, lean or stick input into the body's world
// velocity for this tick.
type LocomotionSystem struct {
	logger *zap.Logger
}

func NewLocomotionSystem(logger *zap.Logger) *LocomotionSystem {
	return &LocomotionSystem{logger: logging.OrNop(logger)}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	entities := w.Query(
		component.LocomotionComponent.Kind(),
		component.TrackingComponent.Kind(),
		component.InputComponent.Kind(),
		component.TransformComponent.Kind(),
		component.VelocityComponent.Kind(),
	)
	for _, e := range entities {
		loc, _ := ecs.Get(w, e, component.LocomotionComponent)
		tracking, _ := ecs.Get(w, e, component.TrackingComponent)
		input, _ := ecs.Get(w, e, component.InputComponent)
		transform, _ := ecs.Get(w, e, component.TransformComponent)
		vel, _ := ecs.Get(w, e, component.VelocityComponent)
		if loc == nil || tracking == nil || input == nil || transform == nil || vel == nil {
			continue
		}

		vel.Linear = mgl64.Vec3{}
		loc.Last = locomotion.Sample{}
		if loc.Disabled != "" || loc.Config.Mode == locomotion.ModeNone {
			continue
		}

		source := tracking.Pose(loc.Config.Source)
		if !loc.Started {
			loc.Started = true
			if source == nil && loc.Config.NeedsCalibration() {
				loc.Disabled = loc.Config.Source.String() + " pose not tracked at startup"
				s.logger.Error("locomotion disabled",
					zap.Stringer("entity", e),
					zap.Stringer("mode", loc.Config.Mode),
					zap.String("reason", loc.Disabled),
				)
				w.Events().Push(ecs.Event{Type: EventLocomotionDisabled, Entity: e, Data: loc.Disabled})
				continue
			}
		}

		var frame locomotion.CalibrationFrame
		if cal, ok := ecs.Get(w, e, component.CalibrationComponent); ok {
			frame = cal.Frame
		}

		sample, err := loc.Config.Drive(frame, source, input.Stick)
		if err != nil {
			if !errors.Is(err, locomotion.ErrNoPose) {
				s.logger.Debug("locomotion skipped", zap.Stringer("entity", e), zap.Error(err))
			}
			continue
		}

		loc.Last = sample
		// Devices are tracked relative to the body, so rotate into world space.
		vel.Linear = transform.Pose.Direction(sample.Velocity)
	}
}
