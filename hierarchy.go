package silo

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/oliverbestmann/silo/gm"
)

// ParentLink attaches an entity to a parent. The local offsets are
// relative to the parent's world transform and are composed into the
// child's world transform once per tick by Store.ResolveHierarchy.
//
// The link stores an id, not a reference: a parent that disappears
// leaves a dangling id which the resolver heals by dropping the link.
type ParentLink struct {
	Parent           EntityID
	LocalPosition    mgl32.Vec3
	LocalOrientation mgl32.Quat
}

// LinkTo derives the local offsets that keep the child at its current
// world transform when attached to the parent.
func LinkTo(parent EntityID, parentPos mgl32.Vec3, parentOrient mgl32.Quat, childPos mgl32.Vec3, childOrient mgl32.Quat) ParentLink {
	inverse := parentOrient.Conjugate()

	return ParentLink{
		Parent:           parent,
		LocalPosition:    inverse.Rotate(childPos.Sub(parentPos)),
		LocalOrientation: gm.NormalizedOrIdent(inverse.Mul(childOrient)),
	}
}

// ComposeWith returns the child's world transform given the parent's
// current world transform: the local offset rotated by the parent's
// orientation plus the parent's position, and the orientations
// multiplied.
func (l ParentLink) ComposeWith(parentPos mgl32.Vec3, parentOrient mgl32.Quat) (mgl32.Vec3, mgl32.Quat) {
	position := parentPos.Add(parentOrient.Rotate(l.LocalPosition))
	orientation := gm.NormalizedOrIdent(parentOrient.Mul(l.LocalOrientation))
	return position, orientation
}

// ResolveHierarchy composes world transforms for every entity that
// carries a parent link. It runs once per tick, after movement and
// physics write-back and before any extraction, so consumers never
// observe a stale composed transform.
//
// The walk is a depth-first resolve with two mark sets rebuilt each
// tick. Damage is healed locally instead of propagated: a cycle, a
// self-parented entity or a missing parent drops the offending link
// and leaves the entity at its last computed world transform.
func (s *Store) ResolveHierarchy() {
	resolved := map[EntityID]struct{}{}
	visiting := map[EntityID]struct{}{}

	for _, id := range s.linkedEntities() {
		s.resolveTransform(id, resolved, visiting)
	}
}

// linkedEntities snapshots the ids of all entities in archetypes that
// carry parent links. A snapshot is needed because resolving migrates
// entities between archetypes while we walk.
func (s *Store) linkedEntities() []EntityID {
	var ids []EntityID
	for _, at := range s.archetypes {
		if !at.Contains(KindParentLink) {
			continue
		}
		ids = append(ids, at.IDs...)
	}
	return ids
}

func (s *Store) resolveTransform(id EntityID, resolved, visiting map[EntityID]struct{}) {
	if _, done := resolved[id]; done {
		return
	}

	if _, active := visiting[id]; active {
		s.log.Warn("hierarchy cycle detected, dropping parent link", "entity", id)
		s.RemoveComponent(id, KindParentLink)
		resolved[id] = struct{}{}
		return
	}
	visiting[id] = struct{}{}

	linkPtr := s.ParentLink(id)
	if linkPtr == nil {
		delete(visiting, id)
		resolved[id] = struct{}{}
		return
	}

	// copy: resolving the parent below may migrate rows and
	// invalidate the pointer
	link := *linkPtr

	if link.Parent == id {
		s.log.Warn("entity cannot be its own parent, dropping parent link", "entity", id)
		s.RemoveComponent(id, KindParentLink)
		delete(visiting, id)
		resolved[id] = struct{}{}
		return
	}

	if s.ParentLink(link.Parent) != nil {
		s.resolveTransform(link.Parent, resolved, visiting)

		// cycle healing above may have taken our own link with it
		if current := s.ParentLink(id); current == nil {
			delete(visiting, id)
			resolved[id] = struct{}{}
			return
		} else {
			link = *current
		}
	}

	parentPos, parentOrient, _, ok := s.Entity(link.Parent)
	if !ok {
		s.log.Warn("parent entity is gone, dropping parent link",
			"entity", id, "parent", link.Parent)
		s.RemoveComponent(id, KindParentLink)
		delete(visiting, id)
		resolved[id] = struct{}{}
		return
	}

	// a camera parent orients its children by its look angles, not
	// its stored orientation
	if camera := s.Camera(link.Parent); camera != nil {
		parentOrient = gm.YawPitchRoll(-camera.Yaw, camera.Pitch, 0)
	}

	worldPos, worldOrient := link.ComposeWith(parentPos, parentOrient)

	if position := s.Position(id); position != nil {
		*position = worldPos
	}
	if orientation := s.Orientation(id); orientation != nil {
		*orientation = worldOrient
	}

	delete(visiting, id)
	resolved[id] = struct{}{}
}
