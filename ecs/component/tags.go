package component

// RigTag marks the entity that stands for the tracked player.
type RigTag struct{}

var RigTagComponent = NewComponent[RigTag]("rig_tag")
