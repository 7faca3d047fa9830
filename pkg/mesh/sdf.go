package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// DefaultSDFCells is the marching cubes resolution used when cells <= 0.
const DefaultSDFCells = 48

// weldEps is the position tolerance used to smooth marching cubes normals.
// Shared edge vertices come out bit-identical, so it only needs to be small.
const weldEps = 1e-4

// FromSDF tessellates an SDF solid with uniform marching cubes. The result is
// a triangle soup with welded normals.
func FromSDF(s sdf.SDF3, cells int) *Mesh {
	if cells <= 0 {
		cells = DefaultSDFCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	numVerts := len(triangles) * 3
	m := &Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	m.WeldNormals(weldEps)
	return m
}

// Sphere builds a sphere mesh centred on the origin.
func Sphere(radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return FromSDF(s, cells), nil
}

// Cylinder builds a Z-aligned cylinder mesh centred on the origin.
func Cylinder(height, radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return FromSDF(s, cells), nil
}
