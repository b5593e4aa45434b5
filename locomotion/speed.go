// Package locomotion maps displacements from a calibrated pose (head tilt,
// lean, thumbstick deflection) to a movement velocity.
//
// Speed and direction are computed independently: a scalar speed comes from
// the deadzone + power transfer curve in ComputeSpeed, a unit direction from
// the planar (or 3D) components of the displacement. Callers integrate
// direction*speed over the tick's elapsed time.
package locomotion

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidCurve  = errors.New("locomotion: invalid speed curve")
	ErrInvalidConfig = errors.New("locomotion: invalid config")
	ErrNotCalibrated = errors.New("locomotion: no calibration frame")
	ErrNoPose        = errors.New("locomotion: source pose not tracked")
)

// SpeedCurve holds the tunables of the speed transfer function. Thresholds
// are in the unit of the displacement fed to ComputeSpeed (degrees for tilt,
// metres for lean, stick magnitude for thumbsticks).
type SpeedCurve struct {
	MaxSpeed          float64 // m/s reached at saturation
	DeadzoneThreshold float64
	MaxThreshold      float64
	TransferPower     float64 // 1 is linear, 2 is quadratic ease-in
	Sensitivity       float64
}

// Validate checks the curve and returns the normalized copy that should be
// used: a zero MaxThreshold forces a zero deadzone.
func (c SpeedCurve) Validate() (SpeedCurve, error) {
	if c.MaxThreshold == 0 {
		c.DeadzoneThreshold = 0
	}
	switch {
	case c.MaxSpeed < 0:
		return c, fmt.Errorf("%w: max speed %v is negative", ErrInvalidCurve, c.MaxSpeed)
	case c.DeadzoneThreshold < 0 || c.MaxThreshold < 0:
		return c, fmt.Errorf("%w: thresholds must be non-negative (deadzone %v, max %v)", ErrInvalidCurve, c.DeadzoneThreshold, c.MaxThreshold)
	case c.MaxThreshold > 0 && c.DeadzoneThreshold >= c.MaxThreshold:
		return c, fmt.Errorf("%w: deadzone %v must be below max %v", ErrInvalidCurve, c.DeadzoneThreshold, c.MaxThreshold)
	case c.TransferPower <= 0:
		return c, fmt.Errorf("%w: transfer power %v must be positive", ErrInvalidCurve, c.TransferPower)
	case c.Sensitivity <= 0:
		return c, fmt.Errorf("%w: sensitivity %v must be positive", ErrInvalidCurve, c.Sensitivity)
	}
	return c, nil
}

// ComputeSpeed maps a non-negative distance from the calibrated centre to a
// speed. Zero inside the deadzone, MaxSpeed at or past MaxThreshold, and a
// power ramp in between.
func ComputeSpeed(distance float64, c SpeedCurve) float64 {
	if distance < c.DeadzoneThreshold {
		return 0
	}
	normalized := distance - c.DeadzoneThreshold
	if normalized <= 0 {
		return 0
	}

	coeff := 0.0
	if den := c.MaxThreshold - c.DeadzoneThreshold; den > 0 {
		coeff = 1 / den
	}
	if coeff == 0 {
		return 0
	}
	if normalized >= 1/coeff {
		return c.MaxSpeed
	}
	return c.MaxSpeed * math.Min(math.Pow(coeff*normalized*c.Sensitivity, c.TransferPower), 1)
}
