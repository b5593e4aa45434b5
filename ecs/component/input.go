package component

import "github.com/go-gl/mathgl/mgl64"

// Input stores per-tick input state for an entity. Buttons are edges.
type Input struct {
	Stick     mgl64.Vec2
	Trigger   float64
	Confirm   bool
	Cancel    bool
	Calibrate bool
}

var InputComponent = NewComponent[Input]("input")
