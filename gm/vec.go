package gm

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Down points along the negative Y axis. It is the fallback direction
// for zero-length vectors.
var Down = mgl32.Vec3{0, -1, 0}

// Normalize3 returns v scaled to unit length. A zero vector has no
// direction, so it normalizes to Down instead of NaN.
func Normalize3(v mgl32.Vec3) mgl32.Vec3 {
	lenSq := v.X()*v.X() + v.Y()*v.Y() + v.Z()*v.Z()
	if lenSq == 0 {
		return Down
	}

	invLen := 1 / float32(math.Sqrt(float64(lenSq)))
	return v.Mul(invLen)
}
