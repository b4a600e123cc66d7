package silo

// Kind enumerates the closed set of component kinds an entity can
// carry on top of the mandatory position, orientation and name.
type Kind uint8

const (
	KindRender Kind = iota
	KindInput
	KindModel
	KindCamera
	KindLight
	KindTexture
	KindTerrain
	KindScript
	KindPhysics
	KindParentLink
	KindAttributes
	KindParticleEmitter
	KindParticle
	KindSpawner

	numKinds
)

var kindNames = [numKinds]string{
	KindRender:          "render",
	KindInput:           "input",
	KindModel:           "model",
	KindCamera:          "camera",
	KindLight:           "light",
	KindTexture:         "texture",
	KindTerrain:         "terrain",
	KindScript:          "script",
	KindPhysics:         "physics",
	KindParentLink:      "parent-link",
	KindAttributes:      "attributes",
	KindParticleEmitter: "particle-emitter",
	KindParticle:        "particle",
	KindSpawner:         "spawner",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) bit() uint16 {
	return 1 << k
}
