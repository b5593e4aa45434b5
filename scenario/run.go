package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/milk9111/vrlocomotion/rig"
)

// ErrStop ends a run early without reporting a failure.
var ErrStop = errors.New("scenario: stop")

// Step is one tick of a run.
type Step struct {
	Step   int
	Time   float64
	Frame  rig.Frame
	Output rig.Output
}

// Run feeds the script into r until the script reports done, maxSteps ticks
// have run, ctx is cancelled, or fn returns an error. fn runs between ticks,
// so it may reconfigure r. It returns the number of ticks run.
func Run(ctx context.Context, s *Script, r *rig.Rig, dt float64, maxSteps int, fn func(Step) error) (int, error) {
	if dt <= 0 {
		return 0, fmt.Errorf("scenario: dt %v must be positive", dt)
	}

	s.Observe(Observation{Body: r.Body()})
	for step := 0; maxSteps <= 0 || step < maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return step, err
		}

		t := float64(step) * dt
		frame, done, err := s.Next(t, step)
		if err != nil {
			return step, err
		}
		if done {
			return step, nil
		}

		out := r.Tick(dt, frame)
		s.Observe(Observation{Body: out.Body, Teleport: out.Teleport.State, Speed: out.Speed})

		if fn != nil {
			if err := fn(Step{Step: step, Time: t, Frame: frame, Output: out}); err != nil {
				if errors.Is(err, ErrStop) {
					return step + 1, nil
				}
				return step + 1, err
			}
		}
	}
	return maxSteps, nil
}
