package system

import (
	"github.com/milk9111/vrlocomotion/common"
	"github.com/milk9111/vrlocomotion/ecs"
	"github.com/milk9111/vrlocomotion/ecs/component"
	"github.com/milk9111/vrlocomotion/teleport"
)

// TeleportSystem ticks each teleport controller with world-space poses and
// hands any resulting body pose to the movement system.
type TeleportSystem struct{}

func NewTeleportSystem() *TeleportSystem {
	return &TeleportSystem{}
}

func (s *TeleportSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	entities := w.Query(
		component.TeleportComponent.Kind(),
		component.TrackingComponent.Kind(),
		component.InputComponent.Kind(),
		component.TransformComponent.Kind(),
	)
	for _, e := range entities {
		tp, _ := ecs.Get(w, e, component.TeleportComponent)
		if tp == nil || tp.Controller == nil {
			continue
		}
		tracking, _ := ecs.Get(w, e, component.TrackingComponent)
		input, _ := ecs.Get(w, e, component.InputComponent)
		transform, _ := ecs.Get(w, e, component.TransformComponent)

		body := transform.Pose
		snap := teleport.Snapshot{
			Body:       body,
			Head:       toWorld(body, tracking.Head),
			Controller: toWorld(body, tracking.Controller),
			External:   toWorld(body, tracking.External),
		}
		out := tp.Controller.Tick(w.Delta(), teleport.Input{
			Stick:   input.Stick,
			Trigger: input.Trigger,
			Confirm: input.Confirm,
			Cancel:  input.Cancel,
		}, snap)
		tp.Last = out
		if reason := tp.Controller.Disabled(); reason != "" {
			tp.Disabled = reason
		}

		for _, evt := range out.Events {
			w.Events().Push(ecs.Event{Type: EventTeleport, Entity: e, Data: evt})
		}
		if out.Pose != nil {
			_ = ecs.Add(w, e, component.PoseOverrideComponent, component.PoseOverride{Pending: true, Pose: *out.Pose})
		}
	}
}

func toWorld(body common.Pose, local *common.Pose) *common.Pose {
	if local == nil {
		return nil
	}
	p := body.Compose(*local)
	return &p
}
