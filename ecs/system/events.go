package system

import "github.com/milk9111/vrlocomotion/ecs"

const (
	EventCalibrated         ecs.EventType = "calibrated"
	EventLocomotionDisabled ecs.EventType = "locomotion_disabled"
	// Teleport events carry the teleport.Event as Data.
	EventTeleport ecs.EventType = "teleport"
)
