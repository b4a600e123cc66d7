package gm

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// YawPitchRoll builds an orientation from yaw (about Y), pitch
// (about X) and roll (about Z), applied in that order.
func YawPitchRoll(yaw, pitch, roll float32) mgl32.Quat {
	return NormalizedOrIdent(mgl32.AnglesToQuat(yaw, pitch, roll, mgl32.YXZ))
}

// NormalizedOrIdent returns q scaled to unit length. Degenerate
// quaternions collapse to the identity rather than producing NaNs
// downstream in the transform composition.
func NormalizedOrIdent(q mgl32.Quat) mgl32.Quat {
	lenSq := q.Dot(q)
	if lenSq <= epsilon32 {
		return mgl32.QuatIdent()
	}

	return q.Scale(1 / float32(math.Sqrt(float64(lenSq))))
}

const epsilon32 = 1.19209290e-07
