package silo

import (
	"log/slog"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/oliverbestmann/silo/gm"
)

func requireVec3InDelta(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	require.InDelta(t, want.X(), got.X(), 1e-5)
	require.InDelta(t, want.Y(), got.Y(), 1e-5)
	require.InDelta(t, want.Z(), got.Z(), 1e-5)
}

func quietStore() *Store {
	return New(WithLogger(slog.New(slog.DiscardHandler)))
}

func TestLinkTo(t *testing.T) {
	parentPos := mgl32.Vec3{3, 0, 1}
	parentOrient := mgl32.QuatRotate(float32(math.Pi)/3, mgl32.Vec3{0, 1, 0})
	childPos := mgl32.Vec3{4, 2, -1}
	childOrient := mgl32.QuatRotate(float32(math.Pi)/5, mgl32.Vec3{1, 0, 0})

	link := LinkTo(7, parentPos, parentOrient, childPos, childOrient)
	require.Equal(t, EntityID(7), link.Parent)

	// composing with the same parent transform restores the child's
	// world transform
	worldPos, worldOrient := link.ComposeWith(parentPos, parentOrient)
	requireVec3InDelta(t, childPos, worldPos)
	require.InDelta(t, 1, float64(worldOrient.Dot(childOrient)), 1e-5)
}

func TestResolveHierarchy(t *testing.T) {
	t.Run("child follows a rotated parent", func(t *testing.T) {
		s := quietStore()

		parent := s.CreateEntity(mgl32.Vec3{2, 1, -1},
			mgl32.QuatRotate(float32(math.Pi)/2, mgl32.Vec3{0, 1, 0}), "parent")
		child := s.CreateEntity(mgl32.Vec3{}, mgl32.QuatIdent(), "child")
		s.AddParentLink(child, ParentLink{
			Parent:           parent,
			LocalPosition:    mgl32.Vec3{1, 0, 0},
			LocalOrientation: mgl32.QuatIdent(),
		})

		s.ResolveHierarchy()

		// a quarter turn about Y carries the +X offset onto -Z
		requireVec3InDelta(t, mgl32.Vec3{2, 1, -2}, *s.Position(child))
		require.NotNil(t, s.ParentLink(child))
	})

	t.Run("parents resolve before their children", func(t *testing.T) {
		s := quietStore()

		root := s.CreateEntity(mgl32.Vec3{10, 0, 0}, mgl32.QuatIdent(), "root")
		mid := s.CreateEntity(mgl32.Vec3{}, mgl32.QuatIdent(), "mid")
		leaf := s.CreateEntity(mgl32.Vec3{}, mgl32.QuatIdent(), "leaf")

		// insertion order puts the leaf's archetype row before the
		// mid's resolution; the resolver must still compose root
		// first
		s.AddParentLink(leaf, ParentLink{Parent: mid, LocalPosition: mgl32.Vec3{0, 0, 3}, LocalOrientation: mgl32.QuatIdent()})
		s.AddParentLink(mid, ParentLink{Parent: root, LocalPosition: mgl32.Vec3{0, 2, 0}, LocalOrientation: mgl32.QuatIdent()})

		s.ResolveHierarchy()

		requireVec3InDelta(t, mgl32.Vec3{10, 2, 0}, *s.Position(mid))
		requireVec3InDelta(t, mgl32.Vec3{10, 2, 3}, *s.Position(leaf))
	})

	t.Run("cycle is healed by dropping a link", func(t *testing.T) {
		s := quietStore()

		a := s.CreateEntity(mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), "a")
		b := s.CreateEntity(mgl32.Vec3{2, 0, 0}, mgl32.QuatIdent(), "b")
		s.AddParentLink(a, ParentLink{Parent: b, LocalOrientation: mgl32.QuatIdent()})
		s.AddParentLink(b, ParentLink{Parent: a, LocalOrientation: mgl32.QuatIdent()})

		s.ResolveHierarchy()

		// one of the two links must be gone, both entities survive
		links := 0
		if s.ParentLink(a) != nil {
			links++
		}
		if s.ParentLink(b) != nil {
			links++
		}
		require.Less(t, links, 2)
		require.Equal(t, 2, s.Len())

		// a second pass terminates and leaves a consistent tree
		s.ResolveHierarchy()
	})

	t.Run("self parent is dropped", func(t *testing.T) {
		s := quietStore()

		id := s.CreateEntity(mgl32.Vec3{5, 0, 0}, mgl32.QuatIdent(), "ouroboros")
		s.AddParentLink(id, ParentLink{Parent: id, LocalOrientation: mgl32.QuatIdent()})

		s.ResolveHierarchy()

		require.Nil(t, s.ParentLink(id))
		requireVec3InDelta(t, mgl32.Vec3{5, 0, 0}, *s.Position(id))
	})

	t.Run("missing parent is dropped", func(t *testing.T) {
		s := quietStore()

		parent := s.CreateEntity(mgl32.Vec3{}, mgl32.QuatIdent(), "parent")
		child := s.CreateEntity(mgl32.Vec3{4, 4, 4}, mgl32.QuatIdent(), "child")
		s.AddParentLink(child, ParentLink{Parent: parent, LocalOrientation: mgl32.QuatIdent()})

		// point the link at an id that was never issued
		s.ParentLink(child).Parent = 9999

		s.ResolveHierarchy()

		require.Nil(t, s.ParentLink(child))
		requireVec3InDelta(t, mgl32.Vec3{4, 4, 4}, *s.Position(child))
	})

	t.Run("camera parent overrides its orientation", func(t *testing.T) {
		s := quietStore()

		rig := s.CreateEntity(mgl32.Vec3{}, mgl32.QuatIdent(), "camera")
		s.AddCamera(rig, NewCamera(float32(math.Pi)/2, 0))

		held := s.CreateEntity(mgl32.Vec3{}, mgl32.QuatIdent(), "held")
		s.AddParentLink(held, ParentLink{
			Parent:           rig,
			LocalPosition:    mgl32.Vec3{0, 0, -2},
			LocalOrientation: mgl32.QuatIdent(),
		})

		s.ResolveHierarchy()

		// the look angles, not the stored identity orientation, must
		// place the held entity
		want := gm.YawPitchRoll(-float32(math.Pi)/2, 0, 0).Rotate(mgl32.Vec3{0, 0, -2})
		requireVec3InDelta(t, want, *s.Position(held))
		require.Greater(t, want.Sub(mgl32.Vec3{0, 0, -2}).Len(), float32(1))
	})
}
