// Package mesh provides the host-side triangle meshes that lattices deform.
package mesh

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/pkg/ffd"
	"github.com/Faultbox/latticeffd/pkg/math"
)

var _ ffd.Mesh = (*Mesh)(nil)

// Mesh is an indexed triangle mesh with flat buffers: 3 floats per vertex in
// Vertices and Normals, 3 indices per triangle.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32

	normalsDirty bool
}

// Positions returns the live vertex buffer.
func (m *Mesh) Positions() []float32 {
	return m.Vertices
}

// MarkNormalsDirty flags the normals as stale after a position write.
func (m *Mesh) MarkNormalsDirty() {
	m.normalsDirty = true
}

// NormalsDirty reports whether positions changed since the last
// RecomputeNormals.
func (m *Mesh) NormalsDirty() bool {
	return m.normalsDirty
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Clone returns a deep copy. The copy starts with clean normals.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]float32(nil), m.Vertices...),
		Normals:  append([]float32(nil), m.Normals...),
		Indices:  append([]uint32(nil), m.Indices...),
	}
}

// Bounds returns the axis-aligned bounds of the current vertex positions.
func (m *Mesh) Bounds() (math.Box, bool) {
	return math.BoxFromPositions(m.Vertices)
}

// Center translates the mesh so its bounds are centred on the origin.
// Returns the offset that was subtracted.
func (m *Mesh) Center() math.Vec3 {
	b, ok := m.Bounds()
	if !ok {
		return math.Vec3{}
	}
	c := b.Center()
	for i := 0; i < m.VertexCount(); i++ {
		math.WriteVec3(m.Vertices, i, r3.Sub(math.ReadVec3(m.Vertices, i), c))
	}
	return c
}

// Fit uniformly scales the mesh about the origin so its largest extent
// equals size. Returns the applied scale, or 0 for an empty or flat mesh.
func (m *Mesh) Fit(size float64) float64 {
	b, ok := m.Bounds()
	if !ok {
		return 0
	}
	e := math.Extent(b)
	largest := gomath.Max(e.X, gomath.Max(e.Y, e.Z))
	if largest <= 0 {
		return 0
	}
	s := size / largest
	for i := range m.Vertices {
		m.Vertices[i] = float32(float64(m.Vertices[i]) * s)
	}
	return s
}

// RecomputeNormals rebuilds vertex normals as the area-weighted sum of the
// adjacent face normals and clears the dirty flag.
func (m *Mesh) RecomputeNormals() {
	if cap(m.Normals) < len(m.Vertices) {
		m.Normals = make([]float32, len(m.Vertices))
	}
	m.Normals = m.Normals[:len(m.Vertices)]

	acc := make([]math.Vec3, m.VertexCount())
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := int(m.Indices[t]), int(m.Indices[t+1]), int(m.Indices[t+2])
		if i0 >= len(acc) || i1 >= len(acc) || i2 >= len(acc) {
			continue
		}
		v0 := math.ReadVec3(m.Vertices, i0)
		v1 := math.ReadVec3(m.Vertices, i1)
		v2 := math.ReadVec3(m.Vertices, i2)
		// Unnormalized cross product is twice the area, which gives the weighting.
		n := r3.Cross(r3.Sub(v1, v0), r3.Sub(v2, v0))
		acc[i0] = r3.Add(acc[i0], n)
		acc[i1] = r3.Add(acc[i1], n)
		acc[i2] = r3.Add(acc[i2], n)
	}

	for i, n := range acc {
		math.WriteVec3(m.Normals, i, normalize(n))
	}
	m.normalsDirty = false
}

// WeldNormals averages normals of vertices that share a position within eps.
// Triangle soups (e.g. marching cubes output) shade smoothly after this.
func (m *Mesh) WeldNormals(eps float64) {
	if len(m.Normals) != len(m.Vertices) || eps <= 0 {
		return
	}

	// Group vertices by quantized position for O(n) lookup
	groups := make(map[[3]int64][]int)
	for i := 0; i < m.VertexCount(); i++ {
		p := math.ReadVec3(m.Vertices, i)
		key := [3]int64{
			int64(gomath.Round(p.X / eps)),
			int64(gomath.Round(p.Y / eps)),
			int64(gomath.Round(p.Z / eps)),
		}
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		var sum math.Vec3
		for _, i := range idxs {
			sum = r3.Add(sum, math.ReadVec3(m.Normals, i))
		}
		avg := normalize(sum)
		for _, i := range idxs {
			math.WriteVec3(m.Normals, i, avg)
		}
	}
}

// normalize returns a unit vector, or +Y for degenerate input.
func normalize(v math.Vec3) math.Vec3 {
	if r3.Norm(v) < 1e-12 {
		return math.Vec3{Y: 1}
	}
	return r3.Unit(v)
}
