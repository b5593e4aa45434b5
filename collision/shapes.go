package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is a one-sided infinite plane. Segments only hit it when travelling
// from the front (the side the normal points to) to the back, so a segment
// starting on a floor and rising does not register.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	Label  string
}

func (p Plane) Tag() string { return p.Label }

func (p Plane) Intersect(start, d mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	if p.Normal.LenSqr() == 0 {
		return 0, mgl64.Vec3{}, false
	}
	n := p.Normal.Normalize()
	d0 := start.Sub(p.Point).Dot(n)
	d1 := start.Add(d).Sub(p.Point).Dot(n)
	if d0 <= 0 || d1 > 0 {
		return 0, mgl64.Vec3{}, false
	}
	return d0 / (d0 - d1), n, true
}

// Box is an axis-aligned box.
type Box struct {
	Min   mgl64.Vec3
	Max   mgl64.Vec3
	Label string
}

func (b Box) Tag() string { return b.Label }

// Intersect is the slab test. Segments starting inside the box report no hit.
func (b Box) Intersect(start, d mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	tmin := 0.0
	tmax := 1.0
	axis := -1
	sign := 0.0

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if start[i] < b.Min[i] || start[i] > b.Max[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		invD := 1.0 / d[i]
		t1 := (b.Min[i] - start[i]) * invD
		t2 := (b.Max[i] - start[i]) * invD
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
			sign = s
		}
		tmax = math.Min(tmax, t2)
		if tmax < tmin {
			return 0, mgl64.Vec3{}, false
		}
	}
	if axis < 0 {
		return 0, mgl64.Vec3{}, false
	}

	var n mgl64.Vec3
	n[axis] = sign
	return tmin, n, true
}

// Sphere is a solid ball.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
	Label  string
}

func (s Sphere) Tag() string { return s.Label }

func (s Sphere) Intersect(start, d mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	m := start.Sub(s.Center)
	a := d.Dot(d)
	b := m.Dot(d)
	c := m.Dot(m) - s.Radius*s.Radius
	if c <= 0 || a == 0 {
		return 0, mgl64.Vec3{}, false
	}
	disc := b*b - a*c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}
	t := (-b - math.Sqrt(disc)) / a
	if t < 0 || t > 1 {
		return 0, mgl64.Vec3{}, false
	}
	n := start.Add(d.Mul(t)).Sub(s.Center).Normalize()
	return t, n, true
}
