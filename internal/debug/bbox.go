// Package debug builds line-list vertex buffers for overlay rendering:
// bounding boxes and lattice cages.
package debug

import (
	"github.com/Faultbox/latticeffd/pkg/math"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding is the default padding around a lattice box, as a
// fraction of its largest extent.
const DefaultBBoxPadding = 0.02

// boxEdges pairs corner indices of r3.Box.Vertices.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// BBoxWireframe returns line vertices for a box outline, format [x, y, z]
// per vertex, two vertices per edge.
func BBoxWireframe(b math.Box) []float32 {
	corners := b.Vertices()
	out := make([]float32, 0, BBoxWireframeVertexCount*3)
	for _, e := range boxEdges {
		out = appendVec(out, corners[e[0]])
		out = appendVec(out, corners[e[1]])
	}
	return out
}

// PaddedBBoxWireframe grows b by pad times its largest extent before
// outlining it, so the outline does not z-fight with the mesh surface.
func PaddedBBoxWireframe(b math.Box, pad float64) []float32 {
	e := math.Extent(b)
	largest := e.X
	if e.Y > largest {
		largest = e.Y
	}
	if e.Z > largest {
		largest = e.Z
	}
	return BBoxWireframe(math.PadBox(b, pad*largest))
}

func appendVec(dst []float32, v math.Vec3) []float32 {
	return append(dst, float32(v.X), float32(v.Y), float32(v.Z))
}
