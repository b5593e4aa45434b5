package arc

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vrlocomotion/common"
)

// Config holds the sampler tunables. Distances are metres, angles degrees.
type Config struct {
	MaxDistance  float64 // reach at NormalizedDistance 1 (bezier, raised raycast)
	DropHeight   float64 // how far below the origin the bezier end sits
	ArcHeight    float64 // lift of the bezier control point above the chord midpoint
	InitialSpeed float64 // launch speed at NormalizedDistance 1 (parabolic)
	Gravity      mgl64.Vec3
	FlightTime   float64 // seconds covered by the parabolic samples

	RaiseHeight  float64 // raised raycast start above the origin
	MinPitch     float64 // controller pitch mapped to zero reach
	MaxPitch     float64 // controller pitch mapped to full reach
	RaycastReach float64 // probe length as a multiple of the distance to the target, >= 1

	TeleportTag string  // surfaces carrying this tag are landable; empty accepts any tag
	MaxSlope    float64 // steepest landable surface; 0 disables the check
}

// DefaultConfig mirrors the tunables shipped in the default locomotion profile.
func DefaultConfig() Config {
	return Config{
		MaxDistance:  20,
		DropHeight:   2,
		ArcHeight:    3,
		InitialSpeed: 12,
		Gravity:      mgl64.Vec3{0, -9.81, 0},
		FlightTime:   3,
		RaiseHeight:  2,
		MinPitch:     -45,
		MaxPitch:     20,
		RaycastReach: 2,
		TeleportTag:  "Floor",
		MaxSlope:     45,
	}
}

// Validate checks the config once so sampling never has to.
func (c Config) Validate() error {
	switch {
	case c.MaxDistance < 0:
		return fmt.Errorf("%w: max distance %v is negative", ErrInvalidConfig, c.MaxDistance)
	case c.DropHeight < 0 || c.ArcHeight < 0 || c.RaiseHeight < 0:
		return fmt.Errorf("%w: heights must be non-negative", ErrInvalidConfig)
	case c.InitialSpeed < 0:
		return fmt.Errorf("%w: initial speed %v is negative", ErrInvalidConfig, c.InitialSpeed)
	case c.FlightTime <= 0:
		return fmt.Errorf("%w: flight time %v must be positive", ErrInvalidConfig, c.FlightTime)
	case c.MinPitch >= c.MaxPitch:
		return fmt.Errorf("%w: min pitch %v must be below max pitch %v", ErrInvalidConfig, c.MinPitch, c.MaxPitch)
	case c.RaycastReach < 1:
		return fmt.Errorf("%w: raycast reach %v must be at least 1", ErrInvalidConfig, c.RaycastReach)
	case c.MaxSlope < 0 || c.MaxSlope > 90:
		return fmt.Errorf("%w: max slope %v outside [0, 90]", ErrInvalidConfig, c.MaxSlope)
	}
	return nil
}

// Sampler produces arcs for a fixed config.
type Sampler struct {
	cfg Config
}

func NewSampler(cfg Config) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{cfg: cfg}, nil
}

func (s *Sampler) Config() Config {
	return s.cfg
}

// Sample builds the arc for req and resolves it against probe. A nil probe
// returns the raw curve.
func (s *Sampler) Sample(req Request, probe Prober) Result {
	n := req.Segments
	if n < MinSegments {
		n = MinSegments
	}
	nd := cp.Clamp01(req.NormalizedDistance)

	if common.NearZero(req.Forward) {
		points := make([]mgl64.Vec3, n)
		for i := range points {
			points[i] = req.Origin
		}
		return Result{Points: points}
	}
	fwd := req.Forward.Normalize()

	switch req.Kind {
	case KindParabolic:
		points := s.parabola(req.Origin, fwd, nd, n)
		return s.walk(points, probe)
	case KindRaisedRaycast:
		return s.raisedRaycast(req.Origin, fwd, nd, n, probe)
	default:
		points := s.bezier(req.Origin, fwd, nd, n)
		return s.walk(points, probe)
	}
}

// walk probes segment k = (points[k-1], points[k]) in order. The first hit
// overwrites points[k:] with the hit point; earlier points are untouched.
func (s *Sampler) walk(points []mgl64.Vec3, probe Prober) Result {
	res := Result{Points: points}
	if probe == nil {
		return res
	}
	for k := 1; k < len(points); k++ {
		contact, ok := probe.Probe(points[k-1], points[k])
		if !ok {
			continue
		}
		for i := k; i < len(points); i++ {
			points[i] = contact.Point
		}
		res.Hit = &Hit{Contact: contact, Segment: k, Valid: s.landable(contact)}
		return res
	}
	return res
}

func (s *Sampler) landable(c Contact) bool {
	if s.cfg.TeleportTag != "" && c.Tag != s.cfg.TeleportTag {
		return false
	}
	if s.cfg.MaxSlope > 0 && !common.NearZero(c.Normal) {
		cosSlope := c.Normal.Normalize().Dot(common.Up)
		if cosSlope < math.Cos(mgl64.DegToRad(s.cfg.MaxSlope))-1e-9 {
			return false
		}
	}
	return true
}

func (s *Sampler) bezier(origin, fwd mgl64.Vec3, nd float64, n int) []mgl64.Vec3 {
	end := origin.Add(fwd.Mul(s.cfg.MaxDistance * nd)).Add(common.Down.Mul(s.cfg.DropHeight))
	control := common.LerpVec3(origin, end, 0.5).Add(common.Up.Mul(s.cfg.ArcHeight))
	return SampleBezier(origin, control, end, n)
}

func (s *Sampler) parabola(origin, fwd mgl64.Vec3, nd float64, n int) []mgl64.Vec3 {
	velocity := fwd.Mul(s.cfg.InitialSpeed * nd)
	return SampleParabola(origin, velocity, s.cfg.Gravity, s.cfg.FlightTime, n)
}

// raisedRaycast casts once from above the origin toward a level target whose
// reach follows the aim pitch. The visual bezier is not probed.
func (s *Sampler) raisedRaycast(origin, fwd mgl64.Vec3, nd float64, n int, probe Prober) Result {
	// Aiming straight up or down leaves a zero heading and no reach.
	heading := common.Planar(fwd)

	pitch := mgl64.RadToDeg(math.Atan2(fwd.Y(), math.Hypot(fwd.X(), fwd.Z())))
	pitch = cp.Clamp(pitch, s.cfg.MinPitch, s.cfg.MaxPitch)
	frac := (pitch - s.cfg.MinPitch) / (s.cfg.MaxPitch - s.cfg.MinPitch)
	reach := s.cfg.MaxDistance * frac * nd

	target := origin.Add(heading.Mul(reach)).Add(common.Down.Mul(s.cfg.DropHeight))
	start := origin.Add(common.Up.Mul(s.cfg.RaiseHeight))
	castEnd := common.LerpVec3(start, target, s.cfg.RaycastReach)

	end := target
	var hit *Hit
	if probe != nil {
		if contact, ok := probe.Probe(start, castEnd); ok {
			end = contact.Point
			hit = &Hit{Contact: contact, Segment: n - 1, Valid: s.landable(contact)}
		}
	}

	control := common.LerpVec3(origin, end, 0.5).Add(common.Up.Mul(s.cfg.ArcHeight))
	return Result{Points: SampleBezier(origin, control, end, n), Hit: hit}
}

// QuadraticBezier evaluates the curve p0 -> p2 pulled toward p1 at t.
func QuadraticBezier(p0, p1, p2 mgl64.Vec3, t float64) mgl64.Vec3 {
	u := 1 - t
	return p0.Mul(u * u).Add(p1.Mul(2 * u * t)).Add(p2.Mul(t * t))
}

// SampleBezier returns n points at uniform parameter steps, both ends
// included.
func SampleBezier(p0, p1, p2 mgl64.Vec3, n int) []mgl64.Vec3 {
	if n < MinSegments {
		n = MinSegments
	}
	points := make([]mgl64.Vec3, n)
	last := float64(n - 1)
	for i := range points {
		points[i] = QuadraticBezier(p0, p1, p2, float64(i)/last)
	}
	return points
}

// SampleParabola returns n points of origin + v*t + g*t^2/2 at uniform time
// steps over [0, duration].
func SampleParabola(origin, velocity, gravity mgl64.Vec3, duration float64, n int) []mgl64.Vec3 {
	if n < MinSegments {
		n = MinSegments
	}
	points := make([]mgl64.Vec3, n)
	step := duration / float64(n-1)
	for i := range points {
		t := step * float64(i)
		points[i] = origin.Add(velocity.Mul(t)).Add(gravity.Mul(0.5 * t * t))
	}
	return points
}
