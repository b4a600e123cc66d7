// Package silo is the entity storage core of a fixed-step simulation.
//
// Entities are plain numeric ids. The data for every entity lives in
// exactly one Archetype, a columnar table shared by all entities that
// currently carry the same set of component kinds. Adding or removing
// a component migrates the entity between archetypes in amortized
// constant time; within an archetype, same-kind data stays contiguous
// so per-tick systems can iterate dense slices.
//
// The Store is the single entry point: it owns all archetypes, the
// entity location map, the tag index and the event channel. A parent
// link component plus Store.ResolveHierarchy compose parent-relative
// transforms into world transforms once per tick, healing cycles and
// dangling links instead of failing.
//
// Basic usage:
//
//	store := silo.New()
//	id := store.CreateEntity(mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), "crate")
//	store.AddRender(id, silo.Render{Color: mgl32.Vec3{1, 0, 0}, Size: 1})
//
//	// bulk pass over dense columns
//	for _, at := range store.Archetypes() {
//		for i := range at.IDs {
//			at.Positions[i] = at.Positions[i].Add(mgl32.Vec3{0, 0.1, 0})
//		}
//	}
//
// Everything is single-threaded: one logical thread of execution owns
// the store for the whole tick.
package silo
