// Package arc samples teleport aiming arcs and finds the first surface along
// them.
//
// A Sampler turns a Request (origin, forward, normalized distance) into an
// ordered polyline using one of three strategies, then walks the polyline
// segment by segment through a Prober until something is hit. The hit point
// replaces the rest of the polyline so callers can draw the arc stopping at
// the obstruction.
package arc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidConfig = errors.New("arc: invalid config")

// Kind selects the sampling strategy.
type Kind int

const (
	KindBezier Kind = iota
	KindParabolic
	KindRaisedRaycast
)

func (k Kind) String() string {
	switch k {
	case KindBezier:
		return "bezier"
	case KindParabolic:
		return "parabolic"
	case KindRaisedRaycast:
		return "raised_raycast"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bezier", "":
		return KindBezier, nil
	case "parabolic", "ballistic":
		return KindParabolic, nil
	case "raised_raycast", "raycast":
		return KindRaisedRaycast, nil
	}
	return KindBezier, fmt.Errorf("%w: unknown arc kind %q", ErrInvalidConfig, s)
}

// MinSegments is the smallest polyline a Sampler produces.
const MinSegments = 2

// Request is one tick's aim.
type Request struct {
	Origin             mgl64.Vec3
	Forward            mgl64.Vec3
	NormalizedDistance float64 // clamped to [0, 1]
	Kind               Kind
	Segments           int // number of sampled points
}

// Contact is what a Prober reports for a segment.
type Contact struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3 // zero when the prober does not report normals
	Tag    string
}

// Hit is the first contact along an arc and whether it can be landed on.
type Hit struct {
	Contact
	Segment int // index of the point the hit replaced first
	Valid   bool
}

// Result is a sampled arc. Points always has the requested length.
type Result struct {
	Points []mgl64.Vec3
	Hit    *Hit
}

// End is the last point of the arc, or the zero vector for an empty result.
func (r Result) End() mgl64.Vec3 {
	if len(r.Points) == 0 {
		return mgl64.Vec3{}
	}
	return r.Points[len(r.Points)-1]
}

// Valid reports whether the arc ended on a teleportable surface.
func (r Result) Valid() bool {
	return r.Hit != nil && r.Hit.Valid
}

// Prober answers collision queries for a single segment.
type Prober interface {
	Probe(start, end mgl64.Vec3) (Contact, bool)
}

// ProbeFunc adapts a function to Prober.
type ProbeFunc func(start, end mgl64.Vec3) (Contact, bool)

func (f ProbeFunc) Probe(start, end mgl64.Vec3) (Contact, bool) {
	return f(start, end)
}
