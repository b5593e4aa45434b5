package system

import (
	"github.com/milk9111/vrlocomotion/ecs"
	"github.com/milk9111/vrlocomotion/ecs/component"
)

// MovementSystem applies a pending pose override, or else integrates the
// tick's velocity into the body position.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()

	ecs.ForEach2(w, component.TransformComponent, component.VelocityComponent,
		func(e ecs.Entity, transform *component.Transform, vel *component.Velocity) {
			if override, ok := ecs.Get(w, e, component.PoseOverrideComponent); ok && override.Pending {
				transform.Pose = override.Pose
				override.Pending = false
				return
			}
			if dt <= 0 {
				return
			}
			transform.Pose.Position = transform.Pose.Position.Add(vel.Linear.Mul(dt))
		})
}
