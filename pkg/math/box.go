package math

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an axis-aligned bounding volume.
type Box = r3.Box

// BoxFromPositions computes the bounds of a flat xyz position buffer.
// Returns false if the buffer holds no complete vertex.
func BoxFromPositions(buf []float32) (Box, bool) {
	n := len(buf) / 3
	if n == 0 {
		return Box{}, false
	}

	b := Box{
		Min: Vec3{X: gomath.Inf(1), Y: gomath.Inf(1), Z: gomath.Inf(1)},
		Max: Vec3{X: gomath.Inf(-1), Y: gomath.Inf(-1), Z: gomath.Inf(-1)},
	}
	for i := 0; i < n; i++ {
		p := ReadVec3(buf, i)
		b.Min = Vec3{X: gomath.Min(b.Min.X, p.X), Y: gomath.Min(b.Min.Y, p.Y), Z: gomath.Min(b.Min.Z, p.Z)}
		b.Max = Vec3{X: gomath.Max(b.Max.X, p.X), Y: gomath.Max(b.Max.Y, p.Y), Z: gomath.Max(b.Max.Z, p.Z)}
	}
	return b, true
}

// Extent returns max - min.
func Extent(b Box) Vec3 {
	return r3.Sub(b.Max, b.Min)
}

// PadBox grows the box by pad on every side. Useful to give a flat mesh a
// non-zero thickness before building a lattice around it.
func PadBox(b Box, pad float64) Box {
	d := Vec3{X: pad, Y: pad, Z: pad}
	return Box{Min: r3.Sub(b.Min, d), Max: r3.Add(b.Max, d)}
}
