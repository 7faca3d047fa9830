package ffd

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/pkg/math"
)

const eps = 1e-9

func testBox() math.Box {
	return math.Box{
		Min: math.Vec3{X: -1, Y: 0, Z: -5},
		Max: math.Vec3{X: 2, Y: 3, Z: 5},
	}
}

func assertVecNear(t *testing.T, want, got math.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, eps, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, eps, msgAndArgs...)
}

// handleEps covers the float32 rounding of the handle buffer.
const handleEps = 1e-6

func assertHandleNear(t *testing.T, want, got math.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, handleEps, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, handleEps, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, handleEps, msgAndArgs...)
}

func TestLatticeEmpty(t *testing.T) {
	l := NewLattice()
	assert.False(t, l.Built())
	assert.Equal(t, 0, l.TotalCtrlPtCount())

	_, err := l.EvalWorld(math.Vec3{})
	assert.ErrorIs(t, err, ErrDegenerateLattice)

	_, err = l.Position(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestLatticeRebuild(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{2, 3, 1}))

	assert.True(t, l.Built())
	assert.Equal(t, 3, l.CtrlPtCount(0))
	assert.Equal(t, 4, l.CtrlPtCount(1))
	assert.Equal(t, 2, l.CtrlPtCount(2))
	assert.Equal(t, 24, l.TotalCtrlPtCount())
	assert.Equal(t, SpanCounts{2, 3, 1}, l.SpanCounts())
	assert.Equal(t, testBox(), l.Box())

	axes := l.Axes()
	assert.Equal(t, math.Vec3{X: 3}, axes[0])
	assert.Equal(t, math.Vec3{Y: 3}, axes[1])
	assert.Equal(t, math.Vec3{Z: 10}, axes[2])

	p, err := l.PositionAt(1, 2, 1)
	require.NoError(t, err)
	assertVecNear(t, math.Vec3{X: 0.5, Y: 2, Z: 5}, p)

	p, err = l.PositionAt(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, testBox().Min, p)

	p, err = l.PositionAt(2, 3, 1)
	require.NoError(t, err)
	assertVecNear(t, testBox().Max, p)
}

func TestLatticeRebuildDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		box   math.Box
		spans SpanCounts
	}{
		{"zero span", testBox(), SpanCounts{2, 0, 2}},
		{"negative span", testBox(), SpanCounts{-1, 2, 2}},
		{"flat box", math.Box{Max: math.Vec3{X: 1, Y: 0, Z: 1}}, SpanCounts{1, 1, 1}},
		{"inverted box", math.Box{Min: math.Vec3{X: 1, Y: 1, Z: 1}}, SpanCounts{1, 1, 1}},
		{"infinite corner", math.Box{Max: math.Vec3{X: gomath.Inf(1), Y: 1, Z: 1}}, SpanCounts{1, 1, 1}},
		{"NaN corner", math.Box{Min: math.Vec3{Y: gomath.NaN()}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}, SpanCounts{1, 1, 1}},
		{"overflowing extent", math.Box{
			Min: math.Vec3{X: -gomath.MaxFloat64, Y: 0, Z: 0},
			Max: math.Vec3{X: gomath.MaxFloat64, Y: 1, Z: 1},
		}, SpanCounts{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLattice()
			require.NoError(t, l.Rebuild(testBox(), SpanCounts{1, 1, 1}))

			err := l.Rebuild(tt.box, tt.spans)
			assert.ErrorIs(t, err, ErrDegenerateLattice)
			// Failed rebuilds leave the lattice alone.
			assert.Equal(t, SpanCounts{1, 1, 1}, l.SpanCounts())
			assert.Equal(t, 8, l.TotalCtrlPtCount())
		})
	}
}

func TestLatticeRebuildIdempotent(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{2, 2, 2}))

	moved := math.Vec3{X: 10, Y: 10, Z: 10}
	require.NoError(t, l.SetPositionAt(1, 1, 1, moved))
	version := l.Handles().Version()

	require.NoError(t, l.Rebuild(testBox(), SpanCounts{2, 2, 2}))

	p, err := l.PositionAt(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, moved, p, "rebuild with identical inputs must keep edits")
	assert.Equal(t, version, l.Handles().Version())

	// A different span count discards edits.
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{2, 2, 3}))
	p, err = l.PositionAt(1, 1, 1)
	require.NoError(t, err)
	assert.NotEqual(t, moved, p)
}

func TestLatticeIndexBounds(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{1, 1, 1}))

	assert.Equal(t, 0, l.Index(0, 0, 0))
	assert.Equal(t, 1, l.Index(0, 0, 1))
	assert.Equal(t, 2, l.Index(0, 1, 0))
	assert.Equal(t, 4, l.Index(1, 0, 0))
	assert.Equal(t, 7, l.Index(1, 1, 1))

	for _, idx := range []int{-1, 8, 100} {
		assert.ErrorIs(t, l.SetPosition(idx, math.Vec3{}), ErrIndexOutOfRange)
		_, err := l.Position(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	assert.ErrorIs(t, l.SetPositionAt(2, 0, 0, math.Vec3{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, l.SetPositionAt(0, -1, 0, math.Vec3{}), ErrIndexOutOfRange)
	_, err := l.PositionAt(0, 0, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestLatticeIdentityAtRest(t *testing.T) {
	for _, spans := range []SpanCounts{{1, 1, 1}, {2, 3, 1}, {4, 4, 4}, {8, 2, 5}} {
		l := NewLattice()
		require.NoError(t, l.Rebuild(testBox(), spans))

		for _, p := range []math.Vec3{
			{X: 0, Y: 1, Z: 0},
			{X: -0.75, Y: 2.9, Z: 4.2},
			{X: 1.99, Y: 0.01, Z: -4.5},
			testBox().Min,
			testBox().Max,
		} {
			got, err := l.EvalWorld(p)
			require.NoError(t, err)
			assertVecNear(t, p, got, "spans %v point %v", spans, p)
		}
	}
}

func TestLatticeCornerExactness(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{3, 2, 2}))

	for idx := 0; idx < l.TotalCtrlPtCount(); idx++ {
		cp, err := l.Position(idx)
		require.NoError(t, err)
		got, err := l.EvalWorld(cp)
		require.NoError(t, err)
		assertVecNear(t, cp, got, "control point %d", idx)
	}
}

func TestLatticeSingleSpanAtOrigin(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{1, 1, 1}))

	// Move every control point so the result can only come from (0,0,0).
	for idx := 0; idx < l.TotalCtrlPtCount(); idx++ {
		require.NoError(t, l.SetPosition(idx, math.Vec3{X: float64(idx), Y: float64(idx * 2), Z: 7}))
	}
	want, err := l.PositionAt(0, 0, 0)
	require.NoError(t, err)

	got, err := l.EvalTrivariate(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	want, err = l.PositionAt(1, 1, 1)
	require.NoError(t, err)
	got, err = l.EvalTrivariate(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLatticeGlobalInfluence(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{2, 2, 2}))

	probes := []math.Vec3{
		{X: -0.9, Y: 0.1, Z: -4.9},
		{X: 1.9, Y: 2.9, Z: 4.9},
		{X: -0.9, Y: 2.9, Z: 0},
		{X: 0.5, Y: 1.5, Z: 0},
	}
	before := make([]math.Vec3, len(probes))
	for i, p := range probes {
		var err error
		before[i], err = l.EvalWorld(p)
		require.NoError(t, err)
	}

	cp, err := l.PositionAt(1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, l.SetPositionAt(1, 1, 1, r3.Add(cp, math.Vec3{Z: 1})))

	for i, p := range probes {
		after, err := l.EvalWorld(p)
		require.NoError(t, err)
		assert.Greater(t, after.Z-before[i].Z, 0.0, "probe %v should move", p)
		assert.InDelta(t, before[i].X, after.X, eps)
		assert.InDelta(t, before[i].Y, after.Y, eps)
	}
}

func TestLatticeExtrapolateAndClamp(t *testing.T) {
	outside := math.Vec3{X: 3.5, Y: 1.5, Z: 0}

	l := NewLattice()
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{2, 2, 2}))
	got, err := l.EvalWorld(outside)
	require.NoError(t, err)
	assertVecNear(t, outside, got, "unedited lattice extrapolates as identity")

	c := NewLattice(WithClampParams(true))
	require.NoError(t, c.Rebuild(testBox(), SpanCounts{2, 2, 2}))
	got, err = c.EvalWorld(outside)
	require.NoError(t, err)
	assertVecNear(t, math.Vec3{X: 2, Y: 1.5, Z: 0}, got, "clamped to the box face")
}

func TestLatticeReset(t *testing.T) {
	l := NewLattice()
	l.Reset() // no-op on an empty lattice
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{2, 2, 2}))

	orig, err := l.Position(5)
	require.NoError(t, err)
	require.NoError(t, l.SetPosition(5, math.Vec3{X: 42}))

	l.Reset()
	p, err := l.Position(5)
	require.NoError(t, err)
	assertVecNear(t, orig, p)
	assertHandleNear(t, orig, l.Handles().Handle(5))
}

func TestLatticeHandlesMirror(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.Rebuild(testBox(), SpanCounts{1, 2, 1}))
	require.Equal(t, l.TotalCtrlPtCount(), l.Handles().Len())

	v := l.Handles().Version()
	require.NoError(t, l.SetPosition(3, math.Vec3{X: 1.5, Y: -2, Z: 0.25}))
	assert.Greater(t, l.Handles().Version(), v)

	for idx := 0; idx < l.TotalCtrlPtCount(); idx++ {
		p, err := l.Position(idx)
		require.NoError(t, err)
		assertHandleNear(t, p, l.Handles().Handle(idx), "handle %d", idx)
	}
}

func TestLatticeSamplePoints(t *testing.T) {
	l := NewLattice()
	_, err := l.SamplePoints(2)
	assert.ErrorIs(t, err, ErrDegenerateLattice)

	require.NoError(t, l.Rebuild(testBox(), SpanCounts{2, 2, 2}))
	_, err = l.SamplePoints(0)
	assert.ErrorIs(t, err, ErrDegenerateLattice)

	pts, err := l.SamplePoints(2)
	require.NoError(t, err)
	require.Len(t, pts, 27)
	assertVecNear(t, testBox().Min, pts[0])
	assertVecNear(t, testBox().Max, pts[26])
	assertVecNear(t, testBox().Center(), pts[13])
}
