package silo

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// ComponentUsage is the estimated in-table footprint of one component
// on one entity.
type ComponentUsage struct {
	Label string
	Bytes uintptr
}

// EntityUsage is the estimated footprint of one entity across its
// archetype's columns. Heap payloads behind strings and maps are not
// followed; this is a column-width estimate, not an exact accounting.
type EntityUsage struct {
	ID         EntityID
	Name       string
	Bytes      uintptr
	Components []ComponentUsage
}

// EntityMemoryUsage reports the estimated per-entity component
// memory for every live entity.
func (s *Store) EntityMemoryUsage() []EntityUsage {
	var reports []EntityUsage

	for _, at := range s.archetypes {
		for row := range at.IDs {
			var components []ComponentUsage
			var total uintptr

			total += usage[mgl32.Vec3]("position", true, &components)
			total += usage[mgl32.Quat]("orientation", true, &components)
			total += usage[string]("name", true, &components)

			total += usage[Render](kindNames[KindRender], at.Contains(KindRender), &components)
			total += usage[Input](kindNames[KindInput], at.Contains(KindInput), &components)
			total += usage[Model](kindNames[KindModel], at.Contains(KindModel), &components)
			total += usage[Camera](kindNames[KindCamera], at.Contains(KindCamera), &components)
			total += usage[Light](kindNames[KindLight], at.Contains(KindLight), &components)
			total += usage[Texture](kindNames[KindTexture], at.Contains(KindTexture), &components)
			total += usage[Terrain](kindNames[KindTerrain], at.Contains(KindTerrain), &components)
			total += usage[Script](kindNames[KindScript], at.Contains(KindScript), &components)
			total += usage[Physics](kindNames[KindPhysics], at.Contains(KindPhysics), &components)
			total += usage[ParentLink](kindNames[KindParentLink], at.Contains(KindParentLink), &components)
			total += usage[Attributes](kindNames[KindAttributes], at.Contains(KindAttributes), &components)
			total += usage[ParticleEmitter](kindNames[KindParticleEmitter], at.Contains(KindParticleEmitter), &components)
			total += usage[Particle](kindNames[KindParticle], at.Contains(KindParticle), &components)
			total += usage[Spawner](kindNames[KindSpawner], at.Contains(KindSpawner), &components)

			reports = append(reports, EntityUsage{
				ID:         at.IDs[row],
				Name:       at.Names[row],
				Bytes:      total,
				Components: components,
			})
		}
	}

	return reports
}

// TotalMemoryUsage sums the estimated component memory of all live
// entities.
func (s *Store) TotalMemoryUsage() uintptr {
	var total uintptr
	for _, report := range s.EntityMemoryUsage() {
		total += report.Bytes
	}
	return total
}

func usage[T any](label string, present bool, components *[]ComponentUsage) uintptr {
	if !present {
		return 0
	}

	size := unsafe.Sizeof(*new(T))
	*components = append(*components, ComponentUsage{Label: label, Bytes: size})
	return size
}
