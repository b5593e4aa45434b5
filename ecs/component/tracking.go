package component

import (
	"github.com/milk9111/vrlocomotion/common"
	"github.com/milk9111/vrlocomotion/locomotion"
)

// Tracking holds this tick's device poses in tracking space, relative to the
// body. A nil pose is not tracked this tick.
type Tracking struct {
	Head       *common.Pose
	Controller *common.Pose
	External   *common.Pose
}

// Pose returns the pose of the given source device.
func (t Tracking) Pose(src locomotion.Source) *common.Pose {
	if src == locomotion.SourceController {
		return t.Controller
	}
	return t.Head
}

var TrackingComponent = NewComponent[Tracking]("tracking")
