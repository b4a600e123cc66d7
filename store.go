package silo

import (
	"iter"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/oliverbestmann/silo/gm"
)

// Location addresses the single place an entity's data lives: an
// archetype and a row within it. Locations are recomputed on every
// migration and must not be cached across mutations.
type Location struct {
	Archetype int
	Row       int
}

// Store owns all archetypes, the entity location map, the tag index
// and the event channel. It is the single entry point for structural
// changes; bulk systems read and write archetype columns directly.
//
// The Store is not safe for concurrent use. One logical thread of
// execution owns it for the whole tick.
type Store struct {
	log *slog.Logger

	archetypes  []*Archetype
	bySignature map[Signature]int
	locations   map[EntityID]Location

	allocator idAllocator
	tags      *TagIndex
	events    Events
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithLogger routes the store's warnings and debug output to log
// instead of slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		bySignature: map[Signature]int{},
		locations:   map[EntityID]Location{},
		allocator:   newIDAllocator(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = slog.Default()
	}

	s.tags = NewTagIndex(s.log)
	return s
}

// Tags is the tag index of this store.
func (s *Store) Tags() *TagIndex {
	return s.tags
}

// Events is the event channel of this store.
func (s *Store) Events() *Events {
	return &s.events
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return len(s.locations)
}

// Archetypes exposes the archetype tables for bulk iteration. The
// slice and the archetypes' columns must be treated as read/write
// views, not resized; structural changes go through the Store.
func (s *Store) Archetypes() []*Archetype {
	return s.archetypes
}

// Locate returns the entity's current archetype and row.
func (s *Store) Locate(id EntityID) (Location, bool) {
	loc, ok := s.locations[id]
	return loc, ok
}

// CreateEntity allocates an identity and inserts it into the
// empty-signature archetype with the given mandatory values.
func (s *Store) CreateEntity(position mgl32.Vec3, orientation mgl32.Quat, name string) EntityID {
	id := s.allocator.Create()

	idx := s.archetypeFor(EmptySignature)
	row := s.archetypes[idx].Push(Bundle{
		ID:          id,
		Position:    position,
		Orientation: gm.NormalizedOrIdent(orientation),
		Name:        name,
	})

	s.locations[id] = Location{Archetype: idx, Row: row}
	s.log.Debug("entity created", "entity", id, "name", name, "count", len(s.locations))
	return id
}

// RemoveEntity destroys the entity: its row is swap-removed, its id
// returned to the allocator, and any parent links pointing at it are
// dropped from the children. Unknown ids are a no-op.
func (s *Store) RemoveEntity(id EntityID) {
	loc, ok := s.locations[id]
	if !ok {
		return
	}
	delete(s.locations, id)

	_, relocated, moved := s.archetypes[loc.Archetype].SwapRemove(loc.Row)
	if moved {
		s.locations[relocated] = loc
	}

	s.allocator.Destroy(id)
	s.log.Debug("entity destroyed", "entity", id, "count", len(s.locations))

	s.detachChildrenOf(id)
}

// detachChildrenOf drops (not destroys) the parent link of every
// entity parented to the removed id.
func (s *Store) detachChildrenOf(parent EntityID) {
	var children []EntityID
	for _, at := range s.archetypes {
		if !at.Contains(KindParentLink) {
			continue
		}
		for i, link := range at.ParentLinks {
			if link.Parent == parent {
				children = append(children, at.IDs[i])
			}
		}
	}

	for _, child := range children {
		s.RemoveComponent(child, KindParentLink)
	}
}

// Entity returns the mandatory components of the entity, or ok=false
// for unknown or destroyed ids.
func (s *Store) Entity(id EntityID) (position mgl32.Vec3, orientation mgl32.Quat, name string, ok bool) {
	loc, found := s.locations[id]
	if !found {
		return mgl32.Vec3{}, mgl32.Quat{}, "", false
	}

	at := s.archetypes[loc.Archetype]
	return at.Positions[loc.Row], at.Orientations[loc.Row], at.Names[loc.Row], true
}

// FindByName scans all archetypes and returns the first entity with
// the given display name. Names are not unique; with duplicates the
// match is whichever the scan reaches first.
func (s *Store) FindByName(name string) (EntityID, bool) {
	for _, at := range s.archetypes {
		for i, entityName := range at.Names {
			if entityName == name {
				return at.IDs[i], true
			}
		}
	}
	return 0, false
}

// Position returns a pointer to the entity's world position, nil for
// stale ids.
func (s *Store) Position(id EntityID) *mgl32.Vec3 {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	return &s.archetypes[loc.Archetype].Positions[loc.Row]
}

// Orientation returns a pointer to the entity's world orientation,
// nil for stale ids.
func (s *Store) Orientation(id EntityID) *mgl32.Quat {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	return &s.archetypes[loc.Archetype].Orientations[loc.Row]
}

// Name returns a pointer to the entity's display name, nil for stale
// ids.
func (s *Store) Name(id EntityID) *string {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	return &s.archetypes[loc.Archetype].Names[loc.Row]
}

// archetypeFor finds or lazily creates the archetype for a signature.
func (s *Store) archetypeFor(signature Signature) int {
	if idx, ok := s.bySignature[signature]; ok {
		return idx
	}

	idx := len(s.archetypes)
	s.archetypes = append(s.archetypes, newArchetype(signature))
	s.bySignature[signature] = idx
	return idx
}

// addOrReplace is the migration heart of component addition. If the
// entity's archetype already contains the kind, the value is replaced
// in place without a migration. Otherwise the entity's bundle is
// swap-removed from its table, extended by attach, and pushed into
// the table for the widened signature.
func (s *Store) addOrReplace(id EntityID, kind Kind, attach func(*Bundle), replace func(*Archetype, int)) {
	loc, ok := s.locations[id]
	if !ok {
		return
	}

	at := s.archetypes[loc.Archetype]
	if at.Contains(kind) {
		replace(at, loc.Row)
		return
	}

	bundle, relocated, moved := at.SwapRemove(loc.Row)
	if moved {
		s.locations[relocated] = loc
	}

	attach(&bundle)

	idx := s.archetypeFor(at.Signature().With(kind))
	row := s.archetypes[idx].Push(bundle)
	s.locations[id] = Location{Archetype: idx, Row: row}
}

// RemoveComponent detaches the kind from the entity, migrating it to
// the narrowed signature's archetype. Entities that do not carry the
// kind, and stale ids, are a no-op.
func (s *Store) RemoveComponent(id EntityID, kind Kind) {
	loc, ok := s.locations[id]
	if !ok {
		return
	}

	at := s.archetypes[loc.Archetype]
	if !at.Contains(kind) {
		return
	}

	bundle, relocated, moved := at.SwapRemove(loc.Row)
	if moved {
		s.locations[relocated] = loc
	}

	stripKind(&bundle, kind)

	idx := s.archetypeFor(at.Signature().Without(kind))
	row := s.archetypes[idx].Push(bundle)
	s.locations[id] = Location{Archetype: idx, Row: row}
}

func stripKind(b *Bundle, kind Kind) {
	switch kind {
	case KindRender:
		b.Render = nil
	case KindInput:
		b.Input = nil
	case KindModel:
		b.Model = nil
	case KindCamera:
		b.Camera = nil
	case KindLight:
		b.Light = nil
	case KindTexture:
		b.Texture = nil
	case KindTerrain:
		b.Terrain = nil
	case KindScript:
		b.Script = nil
	case KindPhysics:
		b.Physics = nil
	case KindParentLink:
		b.ParentLink = nil
	case KindAttributes:
		b.Attributes = nil
	case KindParticleEmitter:
		b.ParticleEmitter = nil
	case KindParticle:
		b.Particle = nil
	case KindSpawner:
		b.Spawner = nil
	}
}

func (s *Store) AddRender(id EntityID, c Render) {
	s.addOrReplace(id, KindRender,
		func(b *Bundle) { b.Render = &c },
		func(at *Archetype, row int) { at.Renders[row] = c })
}

func (s *Store) AddInput(id EntityID, c Input) {
	s.addOrReplace(id, KindInput,
		func(b *Bundle) { b.Input = &c },
		func(at *Archetype, row int) { at.Inputs[row] = c })
}

func (s *Store) AddModel(id EntityID, c Model) {
	s.addOrReplace(id, KindModel,
		func(b *Bundle) { b.Model = &c },
		func(at *Archetype, row int) { at.Models[row] = c })
}

func (s *Store) AddCamera(id EntityID, c Camera) {
	s.addOrReplace(id, KindCamera,
		func(b *Bundle) { b.Camera = &c },
		func(at *Archetype, row int) { at.Cameras[row] = c })
}

func (s *Store) AddLight(id EntityID, c Light) {
	s.addOrReplace(id, KindLight,
		func(b *Bundle) { b.Light = &c },
		func(at *Archetype, row int) { at.Lights[row] = c })
}

func (s *Store) AddTexture(id EntityID, c Texture) {
	s.addOrReplace(id, KindTexture,
		func(b *Bundle) { b.Texture = &c },
		func(at *Archetype, row int) { at.Textures[row] = c })
}

func (s *Store) AddTerrain(id EntityID, c Terrain) {
	s.addOrReplace(id, KindTerrain,
		func(b *Bundle) { b.Terrain = &c },
		func(at *Archetype, row int) { at.Terrains[row] = c })
}

func (s *Store) AddScript(id EntityID, c Script) {
	s.addOrReplace(id, KindScript,
		func(b *Bundle) { b.Script = &c },
		func(at *Archetype, row int) { at.Scripts[row] = c })
}

func (s *Store) AddPhysics(id EntityID, c Physics) {
	s.addOrReplace(id, KindPhysics,
		func(b *Bundle) { b.Physics = &c },
		func(at *Archetype, row int) { at.Physics[row] = c })
}

func (s *Store) AddParentLink(id EntityID, c ParentLink) {
	s.addOrReplace(id, KindParentLink,
		func(b *Bundle) { b.ParentLink = &c },
		func(at *Archetype, row int) { at.ParentLinks[row] = c })
}

func (s *Store) AddAttributes(id EntityID, c Attributes) {
	s.addOrReplace(id, KindAttributes,
		func(b *Bundle) { b.Attributes = &c },
		func(at *Archetype, row int) { at.Attributes[row] = c })
}

func (s *Store) AddParticleEmitter(id EntityID, c ParticleEmitter) {
	s.addOrReplace(id, KindParticleEmitter,
		func(b *Bundle) { b.ParticleEmitter = &c },
		func(at *Archetype, row int) { at.ParticleEmitters[row] = c })
}

func (s *Store) AddParticle(id EntityID, c Particle) {
	s.addOrReplace(id, KindParticle,
		func(b *Bundle) { b.Particle = &c },
		func(at *Archetype, row int) { at.Particles[row] = c })
}

func (s *Store) AddSpawner(id EntityID, c Spawner) {
	s.addOrReplace(id, KindSpawner,
		func(b *Bundle) { b.Spawner = &c },
		func(at *Archetype, row int) { at.Spawners[row] = c })
}

// The typed getters below return a pointer into the entity's current
// row, nil for stale ids or entities that do not carry the kind. The
// pointer stays valid only until the next structural change.

func (s *Store) Render(id EntityID) *Render {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindRender) {
		return nil
	}
	return &at.Renders[loc.Row]
}

func (s *Store) Input(id EntityID) *Input {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindInput) {
		return nil
	}
	return &at.Inputs[loc.Row]
}

func (s *Store) Model(id EntityID) *Model {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindModel) {
		return nil
	}
	return &at.Models[loc.Row]
}

func (s *Store) Camera(id EntityID) *Camera {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindCamera) {
		return nil
	}
	return &at.Cameras[loc.Row]
}

func (s *Store) Light(id EntityID) *Light {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindLight) {
		return nil
	}
	return &at.Lights[loc.Row]
}

func (s *Store) Texture(id EntityID) *Texture {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindTexture) {
		return nil
	}
	return &at.Textures[loc.Row]
}

func (s *Store) Terrain(id EntityID) *Terrain {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindTerrain) {
		return nil
	}
	return &at.Terrains[loc.Row]
}

func (s *Store) Script(id EntityID) *Script {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindScript) {
		return nil
	}
	return &at.Scripts[loc.Row]
}

func (s *Store) Physics(id EntityID) *Physics {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindPhysics) {
		return nil
	}
	return &at.Physics[loc.Row]
}

func (s *Store) ParentLink(id EntityID) *ParentLink {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindParentLink) {
		return nil
	}
	return &at.ParentLinks[loc.Row]
}

func (s *Store) Attributes(id EntityID) *Attributes {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindAttributes) {
		return nil
	}
	return &at.Attributes[loc.Row]
}

func (s *Store) ParticleEmitter(id EntityID) *ParticleEmitter {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindParticleEmitter) {
		return nil
	}
	return &at.ParticleEmitters[loc.Row]
}

func (s *Store) Particle(id EntityID) *Particle {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindParticle) {
		return nil
	}
	return &at.Particles[loc.Row]
}

func (s *Store) Spawner(id EntityID) *Spawner {
	loc, ok := s.locations[id]
	if !ok {
		return nil
	}
	at := s.archetypes[loc.Archetype]
	if !at.Contains(KindSpawner) {
		return nil
	}
	return &at.Spawners[loc.Row]
}

// Lights yields the world position and light of every lit entity.
func (s *Store) Lights() iter.Seq2[mgl32.Vec3, *Light] {
	return func(yield func(mgl32.Vec3, *Light) bool) {
		for _, at := range s.archetypes {
			if !at.Contains(KindLight) {
				continue
			}
			for i := range at.Lights {
				if !yield(at.Positions[i], &at.Lights[i]) {
					return
				}
			}
		}
	}
}

// Terrains yields every terrain component in the store.
func (s *Store) Terrains() iter.Seq[*Terrain] {
	return func(yield func(*Terrain) bool) {
		for _, at := range s.archetypes {
			if !at.Contains(KindTerrain) {
				continue
			}
			for i := range at.Terrains {
				if !yield(&at.Terrains[i]) {
					return
				}
			}
		}
	}
}
