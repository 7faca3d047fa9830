package ffd

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/pkg/math"
)

// Evaluator maps an undeformed point to its deformed position.
type Evaluator interface {
	Eval(p math.Vec3) (math.Vec3, error)
}

var (
	_ Evaluator = (*Lattice)(nil)
	_ Evaluator = (*LatticeDeformer)(nil)
)

// EvalTrivariate evaluates the Bezier volume at parametric (s, t, u).
// Basis weights are computed once per axis; the sum runs over u innermost,
// then t, then s.
func (l *Lattice) EvalTrivariate(s, t, u float64) (math.Vec3, error) {
	if l.total == 0 {
		return math.Vec3{}, fmt.Errorf("%w: lattice not built", ErrDegenerateLattice)
	}

	bs := math.BernsteinBasis(l.spans[0], s, l.basisScrap[0])
	bt := math.BernsteinBasis(l.spans[1], t, l.basisScrap[1])
	bu := math.BernsteinBasis(l.spans[2], u, l.basisScrap[2])
	l.basisScrap = [3][]float64{bs, bt, bu}

	var result math.Vec3
	for i := 0; i < l.counts[0]; i++ {
		var pi math.Vec3
		for j := 0; j < l.counts[1]; j++ {
			var pij math.Vec3
			base := l.Index(i, j, 0)
			for k := 0; k < l.counts[2]; k++ {
				pij = r3.Add(pij, r3.Scale(bu[k], l.ctrlPts[base+k]))
			}
			pi = r3.Add(pi, r3.Scale(bt[j], pij))
		}
		result = r3.Add(result, r3.Scale(bs[i], pi))
	}
	return result, nil
}

// EvalWorld returns the deformed position of an undeformed world point.
// It is a forward map from rest pose to deformed pose.
func (l *Lattice) EvalWorld(world math.Vec3) (math.Vec3, error) {
	if l.total == 0 {
		return math.Vec3{}, fmt.Errorf("%w: lattice not built", ErrDegenerateLattice)
	}
	p, err := ConvertToParam(world, l.box, l.axes)
	if err != nil {
		return math.Vec3{}, err
	}
	if l.clamp {
		p = math.Vec3{X: clamp01(p.X), Y: clamp01(p.Y), Z: clamp01(p.Z)}
	}
	return l.EvalTrivariate(p.X, p.Y, p.Z)
}

// Eval implements Evaluator.
func (l *Lattice) Eval(p math.Vec3) (math.Vec3, error) {
	return l.EvalWorld(p)
}

// SamplePoints evaluates the lattice on a uniform (n+1)^3 parametric grid,
// ordered like the control points. The result is what the editor shows as
// evaluation points.
func (l *Lattice) SamplePoints(n int) ([]math.Vec3, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: sample divisions %d", ErrDegenerateLattice, n)
	}
	pts := make([]math.Vec3, 0, (n+1)*(n+1)*(n+1))
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			for k := 0; k <= n; k++ {
				p, err := l.EvalTrivariate(float64(i)/float64(n), float64(j)/float64(n), float64(k)/float64(n))
				if err != nil {
					return nil, err
				}
				pts = append(pts, p)
			}
		}
	}
	return pts, nil
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
