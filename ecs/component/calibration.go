package component

import "github.com/milk9111/vrlocomotion/locomotion"

// Calibration is the neutral frame tilt and lean measure against.
type Calibration struct {
	Source locomotion.Source
	Planar bool
	Frame  locomotion.CalibrationFrame
	// Requested asks the calibration system to capture on its next update.
	Requested bool
	Count     int
}

var CalibrationComponent = NewComponent[Calibration]("calibration")
