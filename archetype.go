package silo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Archetype stores every entity that currently carries one exact
// component signature, as parallel columns indexed by row. The id
// column and the three mandatory columns exist in every archetype;
// an optional column is non-nil iff the signature contains its kind.
//
// Columns are exported so per-tick systems can iterate them as dense
// slices. Callers may mutate values in place but must not grow,
// shrink or reorder the slices; all structural changes go through the
// Store.
type Archetype struct {
	signature Signature

	IDs []EntityID

	// mandatory columns, one value per entity
	Positions    []mgl32.Vec3
	Orientations []mgl32.Quat
	Names        []string

	// optional columns, present only when the signature says so
	Renders          []Render
	Inputs           []Input
	Models           []Model
	Cameras          []Camera
	Lights           []Light
	Textures         []Texture
	Terrains         []Terrain
	Scripts          []Script
	Physics          []Physics
	ParentLinks      []ParentLink
	Attributes       []Attributes
	ParticleEmitters []ParticleEmitter
	Particles        []Particle
	Spawners         []Spawner
}

// Bundle is one entity's complete set of component values, the unit
// moved between archetypes during migration. Optional fields are nil
// when the entity does not carry that kind.
type Bundle struct {
	ID          EntityID
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Name        string

	Render          *Render
	Input           *Input
	Model           *Model
	Camera          *Camera
	Light           *Light
	Texture         *Texture
	Terrain         *Terrain
	Script          *Script
	Physics         *Physics
	ParentLink      *ParentLink
	Attributes      *Attributes
	ParticleEmitter *ParticleEmitter
	Particle        *Particle
	Spawner         *Spawner
}

func newArchetype(signature Signature) *Archetype {
	at := &Archetype{signature: signature}

	at.Renders = makeColumn[Render](signature, KindRender)
	at.Inputs = makeColumn[Input](signature, KindInput)
	at.Models = makeColumn[Model](signature, KindModel)
	at.Cameras = makeColumn[Camera](signature, KindCamera)
	at.Lights = makeColumn[Light](signature, KindLight)
	at.Textures = makeColumn[Texture](signature, KindTexture)
	at.Terrains = makeColumn[Terrain](signature, KindTerrain)
	at.Scripts = makeColumn[Script](signature, KindScript)
	at.Physics = makeColumn[Physics](signature, KindPhysics)
	at.ParentLinks = makeColumn[ParentLink](signature, KindParentLink)
	at.Attributes = makeColumn[Attributes](signature, KindAttributes)
	at.ParticleEmitters = makeColumn[ParticleEmitter](signature, KindParticleEmitter)
	at.Particles = makeColumn[Particle](signature, KindParticle)
	at.Spawners = makeColumn[Spawner](signature, KindSpawner)

	return at
}

func (at *Archetype) Signature() Signature {
	return at.signature
}

func (at *Archetype) Contains(kind Kind) bool {
	return at.signature.Contains(kind)
}

func (at *Archetype) Len() int {
	return len(at.IDs)
}

func (at *Archetype) String() string {
	return fmt.Sprintf("archetype(%s, %d entities)", at.signature, len(at.IDs))
}

// Push appends the bundle as a new row and returns its index. The
// bundle must match the archetype's signature exactly: a missing
// value for a column the signature requires, or a value for a kind it
// lacks, is a defect in the calling system and panics.
func (at *Archetype) Push(b Bundle) int {
	defer at.assertColumns()

	row := len(at.IDs)
	at.IDs = append(at.IDs, b.ID)
	at.Positions = append(at.Positions, b.Position)
	at.Orientations = append(at.Orientations, b.Orientation)
	at.Names = append(at.Names, b.Name)

	appendColumn(at, &at.Renders, KindRender, b.Render)
	appendColumn(at, &at.Inputs, KindInput, b.Input)
	appendColumn(at, &at.Models, KindModel, b.Model)
	appendColumn(at, &at.Cameras, KindCamera, b.Camera)
	appendColumn(at, &at.Lights, KindLight, b.Light)
	appendColumn(at, &at.Textures, KindTexture, b.Texture)
	appendColumn(at, &at.Terrains, KindTerrain, b.Terrain)
	appendColumn(at, &at.Scripts, KindScript, b.Script)
	appendColumn(at, &at.Physics, KindPhysics, b.Physics)
	appendColumn(at, &at.ParentLinks, KindParentLink, b.ParentLink)
	appendColumn(at, &at.Attributes, KindAttributes, b.Attributes)
	appendColumn(at, &at.ParticleEmitters, KindParticleEmitter, b.ParticleEmitter)
	appendColumn(at, &at.Particles, KindParticle, b.Particle)
	appendColumn(at, &at.Spawners, KindSpawner, b.Spawner)

	return row
}

// SwapRemove removes the row by moving the last row into its place
// and returns the removed bundle. When a different entity now
// occupies the row, its id is returned so the caller can update the
// location map.
func (at *Archetype) SwapRemove(row int) (removed Bundle, relocated EntityID, ok bool) {
	defer at.assertColumns()

	b := Bundle{
		ID:          swapRemove(&at.IDs, row),
		Position:    swapRemove(&at.Positions, row),
		Orientation: swapRemove(&at.Orientations, row),
		Name:        swapRemove(&at.Names, row),

		Render:          takeColumn(at, &at.Renders, KindRender, row),
		Input:           takeColumn(at, &at.Inputs, KindInput, row),
		Model:           takeColumn(at, &at.Models, KindModel, row),
		Camera:          takeColumn(at, &at.Cameras, KindCamera, row),
		Light:           takeColumn(at, &at.Lights, KindLight, row),
		Texture:         takeColumn(at, &at.Textures, KindTexture, row),
		Terrain:         takeColumn(at, &at.Terrains, KindTerrain, row),
		Script:          takeColumn(at, &at.Scripts, KindScript, row),
		Physics:         takeColumn(at, &at.Physics, KindPhysics, row),
		ParentLink:      takeColumn(at, &at.ParentLinks, KindParentLink, row),
		Attributes:      takeColumn(at, &at.Attributes, KindAttributes, row),
		ParticleEmitter: takeColumn(at, &at.ParticleEmitters, KindParticleEmitter, row),
		Particle:        takeColumn(at, &at.Particles, KindParticle, row),
		Spawner:         takeColumn(at, &at.Spawners, KindSpawner, row),
	}

	if row < len(at.IDs) {
		return b, at.IDs[row], true
	}
	return b, 0, false
}

// assertColumns verifies that every present column has exactly one
// value per entity.
func (at *Archetype) assertColumns() {
	n := len(at.IDs)

	check := func(length int, label string) {
		if length != n {
			panic(fmt.Sprintf("%s: expected %d values in column %s, got %d", at, n, label, length))
		}
	}

	check(len(at.Positions), "positions")
	check(len(at.Orientations), "orientations")
	check(len(at.Names), "names")

	checkColumn(at, at.Renders, KindRender, check)
	checkColumn(at, at.Inputs, KindInput, check)
	checkColumn(at, at.Models, KindModel, check)
	checkColumn(at, at.Cameras, KindCamera, check)
	checkColumn(at, at.Lights, KindLight, check)
	checkColumn(at, at.Textures, KindTexture, check)
	checkColumn(at, at.Terrains, KindTerrain, check)
	checkColumn(at, at.Scripts, KindScript, check)
	checkColumn(at, at.Physics, KindPhysics, check)
	checkColumn(at, at.ParentLinks, KindParentLink, check)
	checkColumn(at, at.Attributes, KindAttributes, check)
	checkColumn(at, at.ParticleEmitters, KindParticleEmitter, check)
	checkColumn(at, at.Particles, KindParticle, check)
	checkColumn(at, at.Spawners, KindSpawner, check)
}

func checkColumn[T any](at *Archetype, column []T, kind Kind, check func(int, string)) {
	if at.signature.Contains(kind) {
		check(len(column), kind.String())
	}
}

func makeColumn[T any](signature Signature, kind Kind) []T {
	if signature.Contains(kind) {
		return []T{}
	}
	return nil
}

func appendColumn[T any](at *Archetype, column *[]T, kind Kind, value *T) {
	if at.signature.Contains(kind) {
		if value == nil {
			panic(fmt.Sprintf("%s: bundle is missing a %s component", at, kind))
		}
		*column = append(*column, *value)
		return
	}

	if value != nil {
		panic(fmt.Sprintf("%s: bundle carries a %s component the signature lacks", at, kind))
	}
}

func takeColumn[T any](at *Archetype, column *[]T, kind Kind, row int) *T {
	if !at.signature.Contains(kind) {
		return nil
	}

	value := swapRemove(column, row)
	return &value
}

func swapRemove[T any](column *[]T, row int) T {
	c := *column
	value := c[row]

	last := len(c) - 1
	c[row] = c[last]

	var zero T
	c[last] = zero

	*column = c[:last]
	return value
}
