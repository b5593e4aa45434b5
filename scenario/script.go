// Package scenario drives a rig from a tengo script. A script defines
//
//	sample := func(t, step) { ... }
//
// returning a map describing the tracked poses and input for that tick.
// Pose maps look like {pos: [x, y, z], pitch: 0, yaw: 0, roll: 0} in
// degrees; missing poses are untracked. Other keys are stick ([x, y]),
// trigger, confirm, cancel, calibrate, and done.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrlocomotion/common"
	"github.com/milk9111/vrlocomotion/prefabs"
	"github.com/milk9111/vrlocomotion/rig"
)

var ErrBadFrame = errors.New("scenario: bad frame")

const dispatchScript = `
__frame = sample(__t, __step)
`

// Observation is the rig state a script can read back through engine.
type Observation struct {
	Body     common.Pose
	Teleport string
	Speed    float64
}

type Script struct {
	name     string
	compiled *tengo.Compiled
	obs      Observation
}

// Load compiles a script from the prefabs (disk copy first).
func Load(name string) (*Script, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	return New(name, src)
}

// New compiles src. The script must define sample.
func New(name string, src []byte) (*Script, error) {
	s := &Script{name: name}

	script := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = script.Add("__t", 0.0)
	_ = script.Add("__step", 0)
	_ = script.Add("__frame", map[string]any{})
	_ = script.Add("engine", s.engine())
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", name, err)
	}
	s.compiled = compiled
	return s, nil
}

func (s *Script) Name() string { return s.name }

// Observe records the rig state the next sample call sees.
func (s *Script) Observe(obs Observation) { s.obs = obs }

// Next runs sample for tick step at time t.
func (s *Script) Next(t float64, step int) (rig.Frame, bool, error) {
	if err := s.compiled.Set("__t", t); err != nil {
		return rig.Frame{}, false, err
	}
	if err := s.compiled.Set("__step", step); err != nil {
		return rig.Frame{}, false, err
	}
	if err := s.compiled.Run(); err != nil {
		return rig.Frame{}, false, fmt.Errorf("scenario: %s step %d: %w", s.name, step, err)
	}

	raw := s.compiled.Get("__frame").Map()
	if raw == nil {
		return rig.Frame{}, false, fmt.Errorf("%w: %s step %d: sample must return a map", ErrBadFrame, s.name, step)
	}
	frame, done, err := frameFromMap(raw)
	if err != nil {
		return rig.Frame{}, false, fmt.Errorf("%s step %d: %w", s.name, step, err)
	}
	return frame, done, nil
}

func (s *Script) engine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["body"] = &tengo.UserFunction{Name: "body", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p := s.obs.Body.Position
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: p.X()},
			&tengo.Float{Value: p.Y()},
			&tengo.Float{Value: p.Z()},
		}}, nil
	}}

	values["body_yaw"] = &tengo.UserFunction{Name: "body_yaw", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: mgl64.RadToDeg(s.obs.Body.Yaw())}, nil
	}}

	values["teleport_state"] = &tengo.UserFunction{Name: "teleport_state", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: s.obs.Teleport}, nil
	}}

	values["speed"] = &tengo.UserFunction{Name: "speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: s.obs.Speed}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func frameFromMap(m map[string]any) (rig.Frame, bool, error) {
	var f rig.Frame
	var err error

	if f.Head, err = poseValue(m, "head"); err != nil {
		return f, false, err
	}
	if f.Controller, err = poseValue(m, "controller"); err != nil {
		return f, false, err
	}
	if f.External, err = poseValue(m, "external"); err != nil {
		return f, false, err
	}

	if v, ok := m["stick"]; ok && v != nil {
		xs, err := floats(v, 2)
		if err != nil {
			return f, false, fmt.Errorf("%w: stick: %w", ErrBadFrame, err)
		}
		f.Stick = mgl64.Vec2{xs[0], xs[1]}
	}
	if v, ok := m["trigger"]; ok && v != nil {
		if f.Trigger, err = number(v); err != nil {
			return f, false, fmt.Errorf("%w: trigger: %w", ErrBadFrame, err)
		}
	}
	f.Confirm = truthy(m["confirm"])
	f.Cancel = truthy(m["cancel"])
	f.Calibrate = truthy(m["calibrate"])
	return f, truthy(m["done"]), nil
}

func poseValue(m map[string]any, key string) (*common.Pose, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	pm, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a map", ErrBadFrame, key)
	}

	var pos mgl64.Vec3
	if raw, ok := pm["pos"]; ok && raw != nil {
		xs, err := floats(raw, 3)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.pos: %w", ErrBadFrame, key, err)
		}
		pos = mgl64.Vec3{xs[0], xs[1], xs[2]}
	}

	var angles [3]float64
	for i, name := range []string{"pitch", "yaw", "roll"} {
		raw, ok := pm[name]
		if !ok || raw == nil {
			continue
		}
		n, err := number(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", ErrBadFrame, key, name, err)
		}
		angles[i] = n
	}

	p := common.NewPose(pos, angles[0], angles[1], angles[2])
	return &p, nil
}

func floats(v any, n int) ([]float64, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("want a list, got %T", v)
	}
	if len(items) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(items))
	}
	out := make([]float64, n)
	for i, item := range items {
		f, err := number(item)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("want a number, got %T", v)
	}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		return s == "true" || s == "yes" || s == "1"
	default:
		n, err := number(v)
		return err == nil && n != 0
	}
}
