package rig

import (
	"errors"
	"fmt"

	"github.com/milk9111/vrlocomotion/ecs"
	"github.com/milk9111/vrlocomotion/ecs/component"
	"github.com/milk9111/vrlocomotion/teleport"
	"go.uber.org/zap"
)

func (r *Rig) buildPlayer() (ecs.Entity, error) {
	w := r.world
	e := ecs.CreateEntity(w)

	add := func(err error) error {
		if err != nil {
			return fmt.Errorf("rig: build player: %w", err)
		}
		return nil
	}
	if err := add(ecs.Add(w, e, component.RigTagComponent, component.RigTag{})); err != nil {
		return e, err
	}
	if err := add(ecs.Add(w, e, component.TransformComponent, component.Transform{Pose: r.cfg.Start})); err != nil {
		return e, err
	}
	if err := add(ecs.Add(w, e, component.VelocityComponent, component.Velocity{})); err != nil {
		return e, err
	}
	if err := add(ecs.Add(w, e, component.TrackingComponent, component.Tracking{})); err != nil {
		return e, err
	}
	if err := add(ecs.Add(w, e, component.InputComponent, component.Input{})); err != nil {
		return e, err
	}
	if err := add(ecs.Add(w, e, component.CalibrationComponent, component.Calibration{
		Source: r.cfg.Locomotion.Source,
		Planar: r.cfg.Locomotion.Planar,
	})); err != nil {
		return e, err
	}
	if err := add(ecs.Add(w, e, component.LocomotionComponent, component.Locomotion{Config: r.cfg.Locomotion})); err != nil {
		return e, err
	}
	tp, ok, err := r.newTeleport(r.cfg)
	if err != nil || !ok {
		return e, err
	}
	return e, add(ecs.Add(w, e, component.TeleportComponent, tp))
}

// newTeleport builds the teleport component for cfg without touching the
// world. ok is false when teleporting is off.
func (r *Rig) newTeleport(cfg Config) (tp component.Teleport, ok bool, err error) {
	if !cfg.TeleportEnabled {
		return component.Teleport{}, false, nil
	}
	ctrl, err := teleport.New(cfg.Teleport, r.prober, r.logger.Named("teleport"))
	switch {
	case errors.Is(err, teleport.ErrNilProber):
		r.logger.Error("teleport disabled", zap.Error(err))
		return component.Teleport{Disabled: err.Error()}, true, nil
	case err != nil:
		return component.Teleport{}, false, fmt.Errorf("rig: %w", err)
	}
	return component.Teleport{Controller: ctrl}, true, nil
}
