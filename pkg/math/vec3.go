// Package math provides the vector, box and polynomial basis helpers used by
// the lattice deformers.
package math

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a 3D point or vector.
type Vec3 = r3.Vec

// Component returns the axis-th component of v (0=X, 1=Y, 2=Z).
func Component(v Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns v with its axis-th component replaced by x.
func WithComponent(v Vec3, axis int, x float64) Vec3 {
	switch axis {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	default:
		v.Z = x
	}
	return v
}

// ReadVec3 reads the i-th xyz triple from a flat position buffer.
func ReadVec3(buf []float32, i int) Vec3 {
	return Vec3{
		X: float64(buf[i*3]),
		Y: float64(buf[i*3+1]),
		Z: float64(buf[i*3+2]),
	}
}

// WriteVec3 writes v as the i-th xyz triple of a flat position buffer.
func WriteVec3(buf []float32, i int, v Vec3) {
	buf[i*3] = float32(v.X)
	buf[i*3+1] = float32(v.Y)
	buf[i*3+2] = float32(v.Z)
}

// ApproxEqual reports whether a and b differ by at most eps on every axis.
func ApproxEqual(a, b Vec3, eps float64) bool {
	return gomath.Abs(a.X-b.X) <= eps &&
		gomath.Abs(a.Y-b.Y) <= eps &&
		gomath.Abs(a.Z-b.Z) <= eps
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if gomath.IsNaN(c) || gomath.IsInf(c, 0) {
			return false
		}
	}
	return true
}
