// Package camera provides an orbit camera around the sphere's centre.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the world up axis. The sphere's poles lie on z.
var Up = r3.Vec{Z: 1}

// Pitch stays just short of the poles so the view basis is defined.
const maxPitch = math.Pi/2 - 0.01

// Camera orbits the origin on a sphere of radius Distance.
type Camera struct {
	// Orbit angles in radians: yaw around z, pitch above the xy plane
	Yaw, Pitch float64

	// Distance from the origin
	Distance float64

	// Vertical field of view in degrees
	FovY float64

	// Radians of yaw per second when auto-orbiting
	OrbitSpeed float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Distance constraints
	MinDistance, MaxDistance float64

	home struct{ yaw, pitch, distance float64 }
}

// New creates a camera looking at the origin from distance.
func New(viewportW, viewportH, distance, fovY float64) *Camera {
	c := &Camera{
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 8,
		Distance:    distance,
		FovY:        fovY,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: distance / 4,
		MaxDistance: distance * 4,
	}
	c.home.yaw, c.home.pitch, c.home.distance = c.Yaw, c.Pitch, c.Distance
	return c
}

// Eye returns the camera position.
func (c *Camera) Eye() r3.Vec {
	sinY, cosY := math.Sincos(c.Yaw)
	sinP, cosP := math.Sincos(c.Pitch)
	return r3.Scale(c.Distance, r3.Vec{X: cosP * cosY, Y: cosP * sinY, Z: sinP})
}

// basis returns the camera's right, up and forward unit vectors.
func (c *Camera) basis() (right, up, forward r3.Vec) {
	forward = r3.Unit(r3.Scale(-1, c.Eye()))
	right = r3.Unit(r3.Cross(forward, Up))
	up = r3.Cross(right, forward)
	return right, up, forward
}

// Project maps a world point to screen coordinates. depth is the distance
// along the view direction; ok is false for points behind the camera.
func (c *Camera) Project(p r3.Vec) (sx, sy, depth float64, ok bool) {
	right, up, forward := c.basis()
	rel := r3.Sub(p, c.Eye())
	depth = r3.Dot(rel, forward)
	if depth <= 1e-6 {
		return 0, 0, depth, false
	}
	focal := c.ViewportH / 2 / math.Tan(c.FovY*math.Pi/360)
	sx = c.ViewportW/2 + r3.Dot(rel, right)*focal/depth
	sy = c.ViewportH/2 - r3.Dot(rel, up)*focal/depth
	return sx, sy, depth, true
}

// Facing reports whether a point on a sphere centred at the origin faces
// the camera.
func (c *Camera) Facing(p r3.Vec) bool {
	return r3.Dot(p, r3.Sub(c.Eye(), p)) > 0
}

// Orbit rotates the camera by the given angles, clamping pitch short of the
// poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Advance applies the automatic orbit for dt seconds.
func (c *Camera) Advance(dt float64) {
	if c.OrbitSpeed != 0 {
		c.Orbit(c.OrbitSpeed*dt, 0)
	}
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the distance by factor; factors above 1 move closer.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to its initial orbit.
func (c *Camera) Reset() {
	c.Yaw, c.Pitch, c.Distance = c.home.yaw, c.home.pitch, c.home.distance
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
