package silo

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/oliverbestmann/silo/gm"
)

// EntityID identifies a live entity. Zero is never issued and can be
// used as a "no entity" sentinel.
type EntityID uint32

// Render holds the flat color and size a renderer draws an entity
// with. The rendering pipeline itself lives outside this module.
type Render struct {
	Color mgl32.Vec3
	Size  float32
}

// Input is the per-entity movement intent written by an input system
// and consumed by movement passes.
type Input struct {
	Direction     mgl32.Vec3
	Speed         float32
	JumpRequested bool
}

func NewInput(speed float32) Input {
	return Input{Speed: speed}
}

// TakeJumpRequest consumes a pending jump request.
func (in *Input) TakeJumpRequest() bool {
	requested := in.JumpRequested
	in.JumpRequested = false
	return requested
}

// Model references a mesh asset by path.
type Model struct {
	AssetPath string
}

// Camera holds the look angles and tuning for a controllable camera.
type Camera struct {
	Yaw             float32
	Pitch           float32
	MoveSpeed       float32
	LookSensitivity float32
}

func NewCamera(yaw, pitch float32) Camera {
	return Camera{
		Yaw:             yaw,
		Pitch:           pitch,
		MoveSpeed:       0.05,
		LookSensitivity: 0.0025,
	}
}

// Light is a directional light source.
type Light struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
}

// DirectionalLight returns a light with a normalized direction.
func DirectionalLight(direction, color mgl32.Vec3, intensity float32) Light {
	return Light{
		Direction: gm.Normalize3(direction),
		Color:     color,
		Intensity: intensity,
	}
}

// Texture references a texture asset by path.
type Texture struct {
	AssetPath string
}

// Terrain describes a ground patch.
type Terrain struct {
	Size      float32
	Height    float32
	Color     mgl32.Vec3
	Texture   string // empty means untextured
	ModelPath string
}

// Script binds an entity to a named behavior executed by an external
// scripting system.
type Script struct {
	Name       string
	BaseHeight float32
	Params     map[string]string
}

func NewScript(name string, baseHeight float32) Script {
	return Script{Name: name, BaseHeight: baseHeight}
}

// BodyType selects how a physics body is simulated.
type BodyType uint8

const (
	BodyDynamic BodyType = iota
	BodyStatic
	BodyKinematic
)

// Physics describes an entity's collision body. The simulation of the
// body happens in the external physics system; the store only carries
// its description and receives positions written back.
type Physics struct {
	BodyType    BodyType
	HalfExtents mgl32.Vec3
	Restitution float32
	Friction    float32
}

func NewPhysics(bodyType BodyType, halfExtents mgl32.Vec3) Physics {
	return Physics{
		BodyType:    bodyType,
		HalfExtents: halfExtents,
		Restitution: 0.2,
		Friction:    0.7,
	}
}

func DynamicBox(halfExtents mgl32.Vec3) Physics {
	return NewPhysics(BodyDynamic, halfExtents)
}

func FixedBox(halfExtents mgl32.Vec3) Physics {
	return NewPhysics(BodyStatic, halfExtents)
}

// Attributes is a free-form bag of named scalar gameplay values.
type Attributes struct {
	values map[string]float32
}

func NewAttributes() Attributes {
	return Attributes{values: map[string]float32{}}
}

func AttributesOf(values map[string]float32) Attributes {
	if values == nil {
		values = map[string]float32{}
	}
	return Attributes{values: values}
}

func (a *Attributes) Set(key string, value float32) {
	if a.values == nil {
		a.values = map[string]float32{}
	}
	a.values[key] = value
}

func (a *Attributes) Get(key string) (float32, bool) {
	value, ok := a.values[key]
	return value, ok
}

func (a *Attributes) Remove(key string) {
	delete(a.values, key)
}

func (a *Attributes) Contains(key string) bool {
	_, ok := a.values[key]
	return ok
}

func (a *Attributes) Len() int {
	return len(a.values)
}

// ParticleEmitter spawns short-lived particle entities.
type ParticleEmitter struct {
	Rate         float32
	Lifetime     float32
	Speed        float32
	Spread       float32
	Direction    mgl32.Vec3
	Size         float32
	SizeJitter   float32
	Color        mgl32.Vec3
	ColorJitter  float32
	ModelAsset   string
	TextureAsset string
	MaxParticles int

	// fractional spawns carried over between ticks
	Accumulator float32
	seed        uint32
}

// NextUnitRandom steps the emitter's private LCG and returns a value
// in [0, 1].
func (e *ParticleEmitter) NextUnitRandom() float32 {
	if e.seed == 0 {
		e.seed = 1
	}
	e.seed = e.seed*1664525 + 1013904223
	return float32(e.seed) / float32(^uint32(0))
}

// Particle is one live particle, owned by the emitter that spawned it.
type Particle struct {
	Emitter  EntityID
	Velocity mgl32.Vec3
	Age      float32
	Lifetime float32
}

// Spawner periodically instantiates a named template entity.
type Spawner struct {
	Template    string
	Interval    float32
	SpawnOnLoad bool
	Timer       float32
}

func NewSpawner(template string, interval float32, spawnOnLoad bool) Spawner {
	return Spawner{Template: template, Interval: interval, SpawnOnLoad: spawnOnLoad}
}
