package debug

import (
	"github.com/Faultbox/latticeffd/pkg/ffd"
)

// LatticeWireframe returns line vertices joining each Bernstein control
// point to its +X, +Y and +Z neighbours. An unbuilt lattice yields nil.
func LatticeWireframe(l *ffd.Lattice) []float32 {
	if !l.Built() {
		return nil
	}
	dims := [3]int{l.CtrlPtCount(0), l.CtrlPtCount(1), l.CtrlPtCount(2)}
	return cageLines(dims, l.Handles(), l.Index)
}

// DeformerWireframe is LatticeWireframe for the trilinear deformer.
func DeformerWireframe(d *ffd.LatticeDeformer) []float32 {
	return cageLines(d.Resolution(), d.Handles(), d.Index)
}

// CageEdgeCount returns the number of line segments in a cage with dims
// control points per axis.
func CageEdgeCount(dims [3]int) int {
	nx, ny, nz := dims[0], dims[1], dims[2]
	return (nx-1)*ny*nz + nx*(ny-1)*nz + nx*ny*(nz-1)
}

// cageLines reads positions from the handle mirror, which is index-aligned
// with the control points.
func cageLines(dims [3]int, h *ffd.HandleBuffer, index func(i, j, k int) int) []float32 {
	out := make([]float32, 0, CageEdgeCount(dims)*6)
	for i := 0; i < dims[0]; i++ {
		for j := 0; j < dims[1]; j++ {
			for k := 0; k < dims[2]; k++ {
				p := h.Handle(index(i, j, k))
				if i+1 < dims[0] {
					out = appendVec(appendVec(out, p), h.Handle(index(i+1, j, k)))
				}
				if j+1 < dims[1] {
					out = appendVec(appendVec(out, p), h.Handle(index(i, j+1, k)))
				}
				if k+1 < dims[2] {
					out = appendVec(appendVec(out, p), h.Handle(index(i, j, k+1)))
				}
			}
		}
	}
	return out
}
