package silo

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsage(t *testing.T) {
	s := quietStore()

	bare := s.CreateEntity(mgl32.Vec3{}, mgl32.QuatIdent(), "bare")
	lit := s.CreateEntity(mgl32.Vec3{}, mgl32.QuatIdent(), "lit")
	s.AddLight(lit, Light{Intensity: 1})

	reports := s.EntityMemoryUsage()
	require.Len(t, reports, 2)

	byID := map[EntityID]EntityUsage{}
	for _, report := range reports {
		byID[report.ID] = report
	}

	mandatory := unsafe.Sizeof(mgl32.Vec3{}) + unsafe.Sizeof(mgl32.Quat{}) + unsafe.Sizeof("")

	require.Equal(t, "bare", byID[bare].Name)
	require.Equal(t, mandatory, byID[bare].Bytes)
	require.Len(t, byID[bare].Components, 3)

	require.Equal(t, mandatory+unsafe.Sizeof(Light{}), byID[lit].Bytes)
	require.Len(t, byID[lit].Components, 4)

	require.Equal(t, byID[bare].Bytes+byID[lit].Bytes, s.TotalMemoryUsage())
}
