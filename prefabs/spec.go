package prefabs

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

// LoadSpec reads a named prefab (disk copy first, then the embedded one).
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return decodeSpec[T](filename, data)
}

// LoadFile reads a spec from an arbitrary path.
func LoadFile[T any](path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	return decodeSpec[T](path, data)
}

func decodeSpec[T any](name string, data []byte) (T, error) {
	var zero T
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	return spec, nil
}

// Vec3Spec is a YAML [x, y, z] list. Empty means unset.
type Vec3Spec []float64

func (v Vec3Spec) IsZero() bool { return len(v) == 0 }

func (v Vec3Spec) Vec3() (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl64.Vec3{}, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	default:
		return mgl64.Vec3{}, fmt.Errorf("%w: vector needs 3 components, got %d", ErrInvalidSpec, len(v))
	}
}

type TransformSpec struct {
	Position Vec3Spec `yaml:"position"`
	Pitch    float64  `yaml:"pitch"`
	Yaw      float64  `yaml:"yaw"`
	Roll     float64  `yaml:"roll"`
}

// CurveSpec fields left out of the YAML keep the mode's default curve; an
// explicit 0 is kept as 0.
type CurveSpec struct {
	MaxSpeed      *float64 `yaml:"max_speed"`
	Deadzone      *float64 `yaml:"deadzone"`
	MaxThreshold  *float64 `yaml:"max_threshold"`
	TransferPower *float64 `yaml:"transfer_power"`
	Sensitivity   *float64 `yaml:"sensitivity"`
}

type LocomotionSpec struct {
	Mode    string    `yaml:"mode"`
	Source  string    `yaml:"source"`
	Planar  *bool     `yaml:"planar"`
	MaxTilt *float64  `yaml:"max_tilt"`
	Curve   CurveSpec `yaml:"curve"`
}

type ArcSpec struct {
	Kind         string   `yaml:"kind"`
	Segments     int      `yaml:"segments"`
	MaxDistance  *float64 `yaml:"max_distance"`
	DropHeight   *float64 `yaml:"drop_height"`
	ArcHeight    *float64 `yaml:"arc_height"`
	InitialSpeed *float64 `yaml:"initial_speed"`
	Gravity      Vec3Spec `yaml:"gravity"`
	FlightTime   *float64 `yaml:"flight_time"`
	RaiseHeight  *float64 `yaml:"raise_height"`
	MinPitch     *float64 `yaml:"min_pitch"`
	MaxPitch     *float64 `yaml:"max_pitch"`
	RaycastReach *float64 `yaml:"raycast_reach"`
	TeleportTag  *string  `yaml:"teleport_tag"`
	MaxSlope     *float64 `yaml:"max_slope"`
}

type TeleportSpec struct {
	Enabled      *bool    `yaml:"enabled"`
	Trigger      string   `yaml:"trigger"`
	Deadzone     *float64 `yaml:"deadzone"`
	MaxReach     *float64 `yaml:"max_reach"`
	Execute      string   `yaml:"execute"`
	DashDuration *float64 `yaml:"dash_duration"`
	Rotation     string   `yaml:"rotation"`
	RollScale    *float64 `yaml:"roll_scale"`
	Arc          ArcSpec  `yaml:"arc"`
}

// RigSpec is the YAML form of a rig. Omitted fields keep the built-in defaults.
type RigSpec struct {
	Name       string         `yaml:"name"`
	Locomotion LocomotionSpec `yaml:"locomotion"`
	Teleport   TeleportSpec   `yaml:"teleport"`
	Start      TransformSpec  `yaml:"start"`
}

func LoadRigSpec(filename string) (RigSpec, error) {
	return LoadSpec[RigSpec](filename)
}

type ShapeSpec struct {
	Type   string   `yaml:"type"`
	Tag    string   `yaml:"tag"`
	Point  Vec3Spec `yaml:"point"`
	Normal Vec3Spec `yaml:"normal"`
	Min    Vec3Spec `yaml:"min"`
	Max    Vec3Spec `yaml:"max"`
	Center Vec3Spec `yaml:"center"`
	Radius float64  `yaml:"radius"`
}

// SceneSpec lists the collision shapes teleport arcs are probed against.
type SceneSpec struct {
	Name   string      `yaml:"name"`
	Shapes []ShapeSpec `yaml:"shapes"`
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}
