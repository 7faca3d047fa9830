package ffd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/latticeffd/pkg/math"
)

// SpanCounts is the number of Bezier spans along X, Y and Z.
// Each axis has span+1 control points.
type SpanCounts [3]int

// Lattice is a trivariate Bernstein control lattice enclosing a bounding box.
// The zero value is not usable; create one with NewLattice and populate it
// with Rebuild.
type Lattice struct {
	box        math.Box
	spans      SpanCounts
	counts     [3]int
	total      int
	axes       [3]math.Vec3
	ctrlPts    []math.Vec3
	handles    HandleBuffer
	clamp      bool
	log        *zap.Logger
	basisScrap [3][]float64
}

// NewLattice returns an empty lattice with a zero box and zero spans.
func NewLattice(opts ...Option) *Lattice {
	o := buildOptions(opts)
	return &Lattice{
		clamp: o.clampParams,
		log:   o.log,
	}
}

// Rebuild fits a uniform control grid to box with the given span counts.
// If box and spans equal the current ones it does nothing and existing
// control-point edits survive. Any other change discards all edits.
func (l *Lattice) Rebuild(box math.Box, spans SpanCounts) error {
	if l.total > 0 && box == l.box && spans == l.spans {
		return nil
	}

	for axis, n := range spans {
		if n < 1 {
			return fmt.Errorf("%w: span count %d on axis %d", ErrDegenerateLattice, n, axis)
		}
	}
	ext := math.Extent(box)
	if !math.IsFinite(box.Min) || !math.IsFinite(box.Max) || !math.IsFinite(ext) {
		return fmt.Errorf("%w: box %v - %v is not finite", ErrDegenerateLattice, box.Min, box.Max)
	}
	for axis := 0; axis < 3; axis++ {
		if e := math.Component(ext, axis); !(e > 0) {
			return fmt.Errorf("%w: box extent %v on axis %d", ErrDegenerateLattice, e, axis)
		}
	}

	l.box = box
	l.spans = spans
	l.counts = [3]int{spans[0] + 1, spans[1] + 1, spans[2] + 1}
	l.total = l.counts[0] * l.counts[1] * l.counts[2]
	l.axes = [3]math.Vec3{
		{X: ext.X},
		{Y: ext.Y},
		{Z: ext.Z},
	}
	l.ctrlPts = make([]math.Vec3, l.total)
	l.fillGrid()

	l.log.Debug("lattice rebuilt",
		zap.Ints("spans", spans[:]),
		zap.Int("controlPoints", l.total),
	)
	return nil
}

// Reset moves every control point back onto the uniform grid of the current
// box and spans. It does nothing on an empty lattice.
func (l *Lattice) Reset() {
	if l.total == 0 {
		return
	}
	l.fillGrid()
}

func (l *Lattice) fillGrid() {
	for i := 0; i < l.counts[0]; i++ {
		for j := 0; j < l.counts[1]; j++ {
			for k := 0; k < l.counts[2]; k++ {
				l.ctrlPts[l.Index(i, j, k)] = math.Vec3{
					X: l.box.Min.X + float64(i)/float64(l.spans[0])*l.axes[0].X,
					Y: l.box.Min.Y + float64(j)/float64(l.spans[1])*l.axes[1].Y,
					Z: l.box.Min.Z + float64(k)/float64(l.spans[2])*l.axes[2].Z,
				}
			}
		}
	}
	l.handles.SyncAll(l.ctrlPts)
}

// Built reports whether Rebuild has succeeded at least once.
func (l *Lattice) Built() bool {
	return l.total > 0
}

// Box returns the bounding box the lattice was built around.
func (l *Lattice) Box() math.Box {
	return l.box
}

// SpanCounts returns the current span counts.
func (l *Lattice) SpanCounts() SpanCounts {
	return l.spans
}

// CtrlPtCount returns the number of control points along axis.
func (l *Lattice) CtrlPtCount(axis int) int {
	return l.counts[axis]
}

// TotalCtrlPtCount returns the total number of control points.
func (l *Lattice) TotalCtrlPtCount() int {
	return l.total
}

// Axes returns the lattice axis vectors. Each spans the box along one
// coordinate axis.
func (l *Lattice) Axes() [3]math.Vec3 {
	return l.axes
}

// Handles returns the visual-handle mirror of the control points.
func (l *Lattice) Handles() *HandleBuffer {
	return &l.handles
}

// Index linearizes (i, j, k). It does not validate its arguments.
func (l *Lattice) Index(i, j, k int) int {
	return i*l.counts[1]*l.counts[2] + j*l.counts[2] + k
}

// Position returns the control point at a linear index.
func (l *Lattice) Position(index int) (math.Vec3, error) {
	if index < 0 || index >= l.total {
		return math.Vec3{}, fmt.Errorf("%w: control point %d of %d", ErrIndexOutOfRange, index, l.total)
	}
	return l.ctrlPts[index], nil
}

// SetPosition moves the control point at a linear index.
func (l *Lattice) SetPosition(index int, p math.Vec3) error {
	if index < 0 || index >= l.total {
		return fmt.Errorf("%w: control point %d of %d", ErrIndexOutOfRange, index, l.total)
	}
	l.ctrlPts[index] = p
	l.handles.Sync(index, p)
	return nil
}

// PositionAt returns the control point at (i, j, k).
func (l *Lattice) PositionAt(i, j, k int) (math.Vec3, error) {
	if err := l.checkTernary(i, j, k); err != nil {
		return math.Vec3{}, err
	}
	return l.ctrlPts[l.Index(i, j, k)], nil
}

// SetPositionAt moves the control point at (i, j, k).
func (l *Lattice) SetPositionAt(i, j, k int, p math.Vec3) error {
	if err := l.checkTernary(i, j, k); err != nil {
		return err
	}
	return l.SetPosition(l.Index(i, j, k), p)
}

func (l *Lattice) checkTernary(i, j, k int) error {
	if i < 0 || i >= l.counts[0] || j < 0 || j >= l.counts[1] || k < 0 || k >= l.counts[2] {
		return fmt.Errorf("%w: control point (%d,%d,%d) in %dx%dx%d lattice",
			ErrIndexOutOfRange, i, j, k, l.counts[0], l.counts[1], l.counts[2])
	}
	return nil
}
