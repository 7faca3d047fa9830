package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/pkg/math"
)

// boxFace describes one face of the unit cube [-0.5,0.5]^3. u x v points
// outwards.
type boxFace struct {
	origin, u, v, normal math.Vec3
}

var boxFaces = [6]boxFace{
	{origin: math.Vec3{X: 0.5, Y: -0.5, Z: -0.5}, u: math.Vec3{Y: 1}, v: math.Vec3{Z: 1}, normal: math.Vec3{X: 1}},
	{origin: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, u: math.Vec3{Z: 1}, v: math.Vec3{Y: 1}, normal: math.Vec3{X: -1}},
	{origin: math.Vec3{X: -0.5, Y: 0.5, Z: -0.5}, u: math.Vec3{Z: 1}, v: math.Vec3{X: 1}, normal: math.Vec3{Y: 1}},
	{origin: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, u: math.Vec3{X: 1}, v: math.Vec3{Z: 1}, normal: math.Vec3{Y: -1}},
	{origin: math.Vec3{X: -0.5, Y: -0.5, Z: 0.5}, u: math.Vec3{X: 1}, v: math.Vec3{Y: 1}, normal: math.Vec3{Z: 1}},
	{origin: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, u: math.Vec3{Y: 1}, v: math.Vec3{X: 1}, normal: math.Vec3{Z: -1}},
}

// MaxSubdLevel caps NewBox so the vertex count stays addressable by uint32.
const MaxSubdLevel = 10

// NewBox builds a box centred on the origin with the given size. Each face is
// split into 2^subdLevel by 2^subdLevel quads so a lattice has interior
// vertices to bend. Faces do not share vertices.
func NewBox(size math.Vec3, subdLevel int) *Mesh {
	if subdLevel < 0 {
		subdLevel = 0
	}
	if subdLevel > MaxSubdLevel {
		subdLevel = MaxSubdLevel
	}
	seg := 1 << subdLevel
	perFace := (seg + 1) * (seg + 1)

	m := &Mesh{
		Vertices: make([]float32, 0, 6*perFace*3),
		Normals:  make([]float32, 0, 6*perFace*3),
		Indices:  make([]uint32, 0, 6*seg*seg*6),
	}

	scale := func(p math.Vec3) math.Vec3 {
		return math.Vec3{X: p.X * size.X, Y: p.Y * size.Y, Z: p.Z * size.Z}
	}

	for _, f := range boxFaces {
		base := uint32(len(m.Vertices) / 3)
		for a := 0; a <= seg; a++ {
			for b := 0; b <= seg; b++ {
				p := r3.Add(f.origin, r3.Add(
					r3.Scale(float64(a)/float64(seg), f.u),
					r3.Scale(float64(b)/float64(seg), f.v),
				))
				p = scale(p)
				m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
				m.Normals = append(m.Normals, float32(f.normal.X), float32(f.normal.Y), float32(f.normal.Z))
			}
		}

		idx := func(a, b int) uint32 {
			return base + uint32(a*(seg+1)+b)
		}
		for a := 0; a < seg; a++ {
			for b := 0; b < seg; b++ {
				v00, v10, v11, v01 := idx(a, b), idx(a+1, b), idx(a+1, b+1), idx(a, b+1)
				m.Indices = append(m.Indices, v00, v10, v11, v00, v11, v01)
			}
		}
	}
	return m
}
