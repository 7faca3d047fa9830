// Package picking provides ray casting against lattice boxes and control
// point handles.
package picking

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay builds a ray and normalizes its direction. A zero direction gives
// ok == false.
func NewRay(origin, dir math.Vec3) (Ray, bool) {
	n := r3.Norm(dir)
	if n == 0 {
		return Ray{}, false
	}
	return Ray{Origin: origin, Direction: r3.Scale(1/n, dir)}, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math.Vec3 {
	return r3.Add(r.Origin, r3.Scale(t, r.Direction))
}

// IntersectBox tests ray intersection with an axis-aligned box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBox(box math.Box) (t float64, hit bool) {
	tmin := gomath.Inf(-1)
	tmax := gomath.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o := math.Component(r.Origin, axis)
		d := math.Component(r.Direction, axis)
		lo := math.Component(box.Min, axis)
		hi := math.Component(box.Max, axis)

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = gomath.Max(tmin, t1)
		tmax = gomath.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectSphere returns the nearest non-negative distance at which the
// ray enters (or, from inside, leaves) a sphere.
func (r Ray) IntersectSphere(center math.Vec3, radius float64) (t float64, hit bool) {
	oc := r3.Sub(r.Origin, center)
	b := r3.Dot(oc, r.Direction)
	c := r3.Norm2(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := gomath.Sqrt(disc)
	t = -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal.
func (r Ray) IntersectPlane(point, normal math.Vec3) (math.Vec3, bool) {
	denom := r3.Dot(normal, r.Direction)
	if gomath.Abs(denom) < 1e-9 {
		return math.Vec3{}, false // Ray parallel to plane
	}
	t := r3.Dot(normal, r3.Sub(point, r.Origin)) / denom
	if t < 0 {
		return math.Vec3{}, false // Intersection behind ray origin
	}
	return r.At(t), true
}
