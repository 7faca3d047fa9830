package ffd

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/pkg/math"
)

// Resolution is the number of control points along X, Y and Z.
type Resolution [3]int

// LatticeDeformer is a trilinear control lattice over the normalized cube
// [-0.5,0.5]^3. Mesh vertices are expected in that same local space.
type LatticeDeformer struct {
	res      Resolution
	current  []math.Vec3
	original []math.Vec3
	handles  HandleBuffer
	applier  *Applier
	log      *zap.Logger
}

// NewLatticeDeformer builds a uniform lattice with res control points per
// axis. An axis with a single control point collapses onto its midplane.
func NewLatticeDeformer(res Resolution, opts ...Option) (*LatticeDeformer, error) {
	for axis, n := range res {
		if n < 1 {
			return nil, fmt.Errorf("%w: resolution %d on axis %d", ErrDegenerateLattice, n, axis)
		}
	}

	o := buildOptions(opts)
	d := &LatticeDeformer{
		res:     res,
		applier: NewApplier(opts...),
		log:     o.log,
	}

	total := res[0] * res[1] * res[2]
	d.current = make([]math.Vec3, total)
	d.original = make([]math.Vec3, total)
	for x := 0; x < res[0]; x++ {
		for y := 0; y < res[1]; y++ {
			for z := 0; z < res[2]; z++ {
				p := math.Vec3{X: gridCoord(x, res[0]), Y: gridCoord(y, res[1]), Z: gridCoord(z, res[2])}
				i := d.Index(x, y, z)
				d.current[i] = p
				d.original[i] = p
			}
		}
	}
	d.handles.SyncAll(d.current)

	d.log.Debug("lattice deformer created", zap.Ints("resolution", res[:]))
	return d, nil
}

func gridCoord(i, n int) float64 {
	if n == 1 {
		return 0
	}
	return float64(i)/float64(n-1) - 0.5
}

// Resolution returns the control point counts per axis.
func (d *LatticeDeformer) Resolution() Resolution {
	return d.res
}

// Len returns the number of control points.
func (d *LatticeDeformer) Len() int {
	return len(d.current)
}

// Index linearizes (x, y, z). It does not validate its arguments.
func (d *LatticeDeformer) Index(x, y, z int) int {
	return x*d.res[1]*d.res[2] + y*d.res[2] + z
}

// ControlPoint returns the current position of a control point.
func (d *LatticeDeformer) ControlPoint(index int) (math.Vec3, error) {
	if index < 0 || index >= len(d.current) {
		return math.Vec3{}, fmt.Errorf("%w: control point %d of %d", ErrIndexOutOfRange, index, len(d.current))
	}
	return d.current[index], nil
}

// RestPoint returns the construction-time position of a control point.
func (d *LatticeDeformer) RestPoint(index int) (math.Vec3, error) {
	if index < 0 || index >= len(d.original) {
		return math.Vec3{}, fmt.Errorf("%w: control point %d of %d", ErrIndexOutOfRange, index, len(d.original))
	}
	return d.original[index], nil
}

// UpdateControlPoint moves a control point and its handle.
func (d *LatticeDeformer) UpdateControlPoint(index int, p math.Vec3) error {
	if index < 0 || index >= len(d.current) {
		return fmt.Errorf("%w: control point %d of %d", ErrIndexOutOfRange, index, len(d.current))
	}
	d.current[index] = p
	d.handles.Sync(index, p)
	return nil
}

// Reset restores every control point to its rest position. Meshes keep their
// deformed vertices until the next Deform.
func (d *LatticeDeformer) Reset() {
	copy(d.current, d.original)
	d.handles.SyncAll(d.current)
}

// Handles returns the visual-handle mirror of the control points.
func (d *LatticeDeformer) Handles() *HandleBuffer {
	return &d.handles
}

// Applier returns the applier holding this deformer's rest-pose cache.
func (d *LatticeDeformer) Applier() *Applier {
	return d.applier
}

// Deform writes the deformed rest pose of mesh into its live vertex buffer.
func (d *LatticeDeformer) Deform(m Mesh) error {
	return d.applier.Apply(m, d)
}

// Eval implements Evaluator for a point in local [-0.5,0.5]^3 space.
func (d *LatticeDeformer) Eval(p math.Vec3) (math.Vec3, error) {
	return d.Interpolate(r3.Add(p, math.Vec3{X: 0.5, Y: 0.5, Z: 0.5})), nil
}

// Interpolate blends the eight control points around a point in [0,1]^3.
// Grid coordinates are clamped before the cell lookup, so points on or
// beyond the boundary reuse the boundary control points.
func (d *LatticeDeformer) Interpolate(p math.Vec3) math.Vec3 {
	var cell [3]int
	var frac [3]float64
	for axis := 0; axis < 3; axis++ {
		last := float64(d.res[axis] - 1)
		g := gomath.Max(0, gomath.Min(last, math.Component(p, axis)*last))
		c := gomath.Floor(g)
		cell[axis] = int(c)
		frac[axis] = g - c
	}

	var out math.Vec3
	for ox := 0; ox <= 1; ox++ {
		for oy := 0; oy <= 1; oy++ {
			for oz := 0; oz <= 1; oz++ {
				w := weight(frac[0], ox) * weight(frac[1], oy) * weight(frac[2], oz)
				if w == 0 {
					continue
				}
				ix := clampIndex(cell[0]+ox, d.res[0])
				iy := clampIndex(cell[1]+oy, d.res[1])
				iz := clampIndex(cell[2]+oz, d.res[2])
				out = r3.Add(out, r3.Scale(w, d.current[d.Index(ix, iy, iz)]))
			}
		}
	}
	return out
}

func weight(f float64, bit int) float64 {
	if bit == 1 {
		return f
	}
	return 1 - f
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
