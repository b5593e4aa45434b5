package component

import "github.com/milk9111/vrlocomotion/teleport"

// Teleport wraps one teleport controller. Controller is nil when it could
// not be built; Disabled then says why.
type Teleport struct {
	Controller *teleport.Controller
	Disabled   string
	Last       teleport.Output
}

var TeleportComponent = NewComponent[Teleport]("teleport")
