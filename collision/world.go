// Package collision is a small static scene that answers segment queries.
// It stands in for the host engine's physics world in tests and in the
// simulator.
package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/arc"
)

// Shape is a static collider. Intersect returns the segment parameter in
// [0, 1] of the first contact travelling from start along d.
type Shape interface {
	Intersect(start, d mgl64.Vec3) (t float64, normal mgl64.Vec3, ok bool)
	Tag() string
}

// World holds static shapes. It is not safe for concurrent mutation.
type World struct {
	shapes []Shape
}

func NewWorld(shapes ...Shape) *World {
	return &World{shapes: append([]Shape(nil), shapes...)}
}

func (w *World) Add(s Shape) {
	if w == nil || s == nil {
		return
	}
	w.shapes = append(w.shapes, s)
}

func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return len(w.shapes)
}

// Probe reports the closest contact along start -> end.
func (w *World) Probe(start, end mgl64.Vec3) (arc.Contact, bool) {
	if w == nil {
		return arc.Contact{}, false
	}
	d := end.Sub(start)
	if d.LenSqr() == 0 {
		return arc.Contact{}, false
	}

	closestT := math.Inf(1)
	var closest arc.Contact
	hasHit := false
	for _, s := range w.shapes {
		t, n, ok := s.Intersect(start, d)
		if !ok || t < 0 || t > 1 || t >= closestT {
			continue
		}
		closestT = t
		closest = arc.Contact{Point: start.Add(d.Mul(t)), Normal: n, Tag: s.Tag()}
		hasHit = true
	}
	return closest, hasHit
}

var _ arc.Prober = (*World)(nil)
