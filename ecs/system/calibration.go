package system

import (
	"github.com/milk9111/vrlocomotion/ecs"
	"github.com/milk9111/vrlocomotion/ecs/component"
	"github.com/milk9111/vrlocomotion/locomotion"
	"github.com/milk9111/vrlocomotion/logging"
	"go.uber.org/zap"
)

// CalibrationSystem captures the neutral frame the first time the source
// device is tracked and again whenever recalibration is requested.
type CalibrationSystem struct {
	logger *zap.Logger
}

func NewCalibrationSystem(logger *zap.Logger) *CalibrationSystem {
	return &CalibrationSystem{logger: logging.OrNop(logger)}
}

func (s *CalibrationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.CalibrationComponent, component.TrackingComponent, component.InputComponent,
		func(e ecs.Entity, cal *component.Calibration, tracking *component.Tracking, input *component.Input) {
			if input.Calibrate {
				cal.Requested = true
			}
			if !cal.Requested && cal.Frame.Valid() {
				return
			}

			pose := tracking.Pose(cal.Source)
			if pose == nil {
				// Keep the request until the device is tracked again.
				return
			}

			cal.Frame = locomotion.NewCalibrationFrame(*pose, cal.Planar)
			cal.Requested = false
			cal.Count++
			s.logger.Info("calibrated",
				zap.Stringer("entity", e),
				zap.Stringer("source", cal.Source),
				zap.Bool("planar", cal.Planar),
				zap.Int("count", cal.Count),
			)
			w.Events().Push(ecs.Event{Type: EventCalibrated, Entity: e, Data: cal.Frame})
		})
}
