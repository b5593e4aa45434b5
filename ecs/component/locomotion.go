package component

import "github.com/milk9111/vrlocomotion/locomotion"

type Locomotion struct {
	Config locomotion.Config

	// Started flips after the first update; a source missing then disables
	// the driver for good.
	Started  bool
	Disabled string

	Last locomotion.Sample
}

var LocomotionComponent = NewComponent[Locomotion]("locomotion")
