package component

import "github.com/milk9111/vrlocomotion/common"

// Transform is the body's world pose. Tracked devices are expressed
// relative to it.
type Transform struct {
	Pose common.Pose
}

var TransformComponent = NewComponent[Transform]("transform")
