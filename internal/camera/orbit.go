// Package camera provides the orbit camera that turns cursor positions into
// picking rays.
package camera

import (
	gomath "math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/latticeffd/internal/picking"
	"github.com/Faultbox/latticeffd/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float64 // Distance from center
	RotationX float64 // Pitch (vertical angle, radians)
	RotationY float64 // Yaw (horizontal angle, radians)

	FovY float64 // Vertical field of view, radians

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64
}

// NewOrbitCamera creates a camera 500 units down +Z from the origin with a
// 70 degree field of view.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        500,
		FovY:            70 * gomath.Pi / 180,
		MinDistance:     1,
		MaxDistance:     5000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cx := gomath.Cos(c.RotationX)
	offset := math.Vec3{
		X: c.Distance * cx * gomath.Sin(c.RotationY),
		Y: c.Distance * gomath.Sin(c.RotationX),
		Z: c.Distance * cx * gomath.Cos(c.RotationY),
	}
	return r3.Add(c.Center, offset)
}

// Forward returns the unit view direction.
func (c *OrbitCamera) Forward() math.Vec3 {
	return r3.Unit(r3.Sub(c.Center, c.Position()))
}

// basis returns the camera right and up vectors.
func (c *OrbitCamera) basis() (right, up math.Vec3) {
	f := c.Forward()
	right = r3.Unit(r3.Cross(f, math.Vec3{Y: 1}))
	up = r3.Cross(right, f)
	return right, up
}

// Ray returns the picking ray through normalized device coordinates
// (ndcX, ndcY in [-1, 1], +Y up) for a viewport of the given aspect ratio.
func (c *OrbitCamera) Ray(ndcX, ndcY, aspect float64) picking.Ray {
	right, up := c.basis()
	h := gomath.Tan(c.FovY / 2)
	dir := r3.Add(c.Forward(), r3.Add(
		r3.Scale(ndcX*h*aspect, right),
		r3.Scale(ndcY*h, up),
	))
	r, _ := picking.NewRay(c.Position(), dir)
	return r
}

// ScreenRay converts pixel coordinates to a picking ray.
func (c *OrbitCamera) ScreenRay(screenX, screenY, viewportW, viewportH float64) picking.Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y
	return c.Ray(ndcX, ndcY, viewportW/viewportH)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float64) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationX = gomath.Max(c.MinPitch, gomath.Min(c.MaxPitch, c.RotationX))
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float64) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = gomath.Max(c.MinDistance, gomath.Min(c.MaxDistance, c.Distance))
}

// FitToBox centres the camera on b and backs off until the box fits the
// vertical field of view.
func (c *OrbitCamera) FitToBox(b math.Box) {
	c.Center = b.Center()
	radius := r3.Norm(b.Size()) / 2
	c.Distance = radius / gomath.Sin(c.FovY/2)
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	c.RotationX = 0
	c.RotationY = 0
}
