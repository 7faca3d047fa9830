package picking

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/pkg/math"
)

// PickHandle returns the index of the nearest handle whose sphere of the
// given radius the ray hits, or -1. handles is a flat xyz buffer as kept by
// ffd.HandleBuffer.
func PickHandle(r Ray, handles []float32, radius float64) int {
	best := -1
	bestT := gomath.Inf(1)
	for i := 0; i < len(handles)/3; i++ {
		t, hit := r.IntersectSphere(math.ReadVec3(handles, i), radius)
		if hit && t < bestT {
			best, bestT = i, t
		}
	}
	return best
}

// DragPlanePoint projects a drag ray onto the plane through anchor facing
// back along view. It is the new position for a handle picked at anchor.
func DragPlanePoint(r Ray, anchor, view math.Vec3) (math.Vec3, bool) {
	if r3.Norm2(view) == 0 {
		return math.Vec3{}, false
	}
	return r.IntersectPlane(anchor, r3.Scale(-1, view))
}
