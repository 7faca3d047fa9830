package ffd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/pkg/math"
)

func TestConvertToParamAxisAligned(t *testing.T) {
	box := testBox()
	axes := [3]math.Vec3{{X: 3}, {Y: 3}, {Z: 10}}

	tests := []struct {
		world, want math.Vec3
	}{
		{box.Min, math.Vec3{}},
		{box.Max, math.Vec3{X: 1, Y: 1, Z: 1}},
		{box.Center(), math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}},
		{math.Vec3{X: -4, Y: 6, Z: -5}, math.Vec3{X: -1, Y: 2, Z: 0}},
	}
	for _, tt := range tests {
		got, err := ConvertToParam(tt.world, box, axes)
		require.NoError(t, err)
		assertVecNear(t, tt.want, got, "world %v", tt.world)
	}
}

func TestConvertToParamOblique(t *testing.T) {
	// A sheared frame: param (s,t,u) must reproduce min + s*a0 + t*a1 + u*a2.
	box := math.Box{Min: math.Vec3{X: 1, Y: 2, Z: 3}}
	axes := [3]math.Vec3{
		{X: 2, Y: 0.5, Z: 0},
		{X: 0.3, Y: 1, Z: 0.2},
		{X: -0.4, Y: 0.1, Z: 3},
	}
	want := math.Vec3{X: 0.25, Y: 0.6, Z: 0.9}
	world := r3.Add(box.Min, r3.Add(r3.Scale(want.X, axes[0]), r3.Add(r3.Scale(want.Y, axes[1]), r3.Scale(want.Z, axes[2]))))

	got, err := ConvertToParam(world, box, axes)
	require.NoError(t, err)
	assertVecNear(t, want, got)
}

func TestConvertToParamDegenerate(t *testing.T) {
	box := testBox()
	tests := []struct {
		name string
		axes [3]math.Vec3
	}{
		{"zero axis", [3]math.Vec3{{X: 1}, {}, {Z: 1}}},
		{"coplanar axes", [3]math.Vec3{{X: 1}, {Y: 1}, {X: 1, Y: 1}}},
		{"all zero", [3]math.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertToParam(math.Vec3{}, box, tt.axes)
			assert.ErrorIs(t, err, ErrDegenerateLattice)
		})
	}
}
