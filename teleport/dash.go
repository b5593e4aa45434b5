package teleport

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vrlocomotion/common"
)

// Dash is an in-flight timed teleport. It is a plain value: the controller
// owns one while executing and steps it with Advance.
type Dash struct {
	Start    common.Pose
	Target   common.Pose
	Duration float64
	Elapsed  float64

	// Path, when set, is followed by arc length instead of a straight line.
	Path    []mgl64.Vec3
	lengths []float64
}

func NewDash(start, target common.Pose, duration float64, path []mgl64.Vec3) *Dash {
	d := &Dash{Start: start, Target: target, Duration: duration}
	if len(path) >= 2 {
		// The aimed arc starts at the controller; shift it so the body leaves
		// from where it stands and still lands on the target.
		d.Path = make([]mgl64.Vec3, len(path))
		offset := start.Position.Sub(path[0])
		last := float64(len(path) - 1)
		for i, p := range path {
			d.Path[i] = p.Add(offset.Mul(1 - float64(i)/last))
		}
		d.Path[len(d.Path)-1] = target.Position
		d.lengths = make([]float64, len(d.Path))
		for i := 1; i < len(d.Path); i++ {
			d.lengths[i] = d.lengths[i-1] + d.Path[i].Sub(d.Path[i-1]).Len()
		}
	}
	return d
}

// Done reports whether the dash has reached its target.
func (d *Dash) Done() bool {
	return d.Elapsed >= d.Duration
}

// Step adds dt to the elapsed time and returns the pose there.
func (d *Dash) Step(dt float64) common.Pose {
	d.Elapsed += dt
	return d.Advance(d.Elapsed)
}

// Advance is the pose elapsed seconds into the dash: position interpolated
// linearly (or along Path), rotation spherically.
func (d *Dash) Advance(elapsed float64) common.Pose {
	t := 1.0
	if d.Duration > 0 {
		t = cp.Clamp01(elapsed / d.Duration)
	}
	if t >= 1 {
		return d.Target
	}

	startRot := d.Start.Rotation
	if startRot.Len() < common.Epsilon {
		startRot = mgl64.QuatIdent()
	}
	targetRot := d.Target.Rotation
	if targetRot.Len() < common.Epsilon {
		targetRot = mgl64.QuatIdent()
	}
	if startRot.Dot(targetRot) < 0 {
		targetRot = targetRot.Scale(-1)
	}

	return common.Pose{
		Position: d.positionAt(t),
		Rotation: mgl64.QuatSlerp(startRot, targetRot, t).Normalize(),
	}
}

func (d *Dash) positionAt(t float64) mgl64.Vec3 {
	total := 0.0
	if len(d.lengths) > 0 {
		total = d.lengths[len(d.lengths)-1]
	}
	if total <= 0 {
		return common.LerpVec3(d.Start.Position, d.Target.Position, t)
	}

	want := total * t
	for i := 1; i < len(d.lengths); i++ {
		if d.lengths[i] < want {
			continue
		}
		seg := d.lengths[i] - d.lengths[i-1]
		if seg <= 0 {
			return d.Path[i]
		}
		return common.LerpVec3(d.Path[i-1], d.Path[i], (want-d.lengths[i-1])/seg)
	}
	return d.Target.Position
}
