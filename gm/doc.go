// Package gm provides the small amount of 3d geometry math the
// storage core needs on top of mgl32: vector normalization with a
// well-defined zero fallback and quaternion sanitizing/construction
// helpers used by the transform hierarchy.
package gm
