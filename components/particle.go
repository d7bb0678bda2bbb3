// Package components defines the plain particle data shared by the engine
// and the readers that draw it.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Spherical is a direction on the unit sphere.
// Theta is the azimuth and wraps through the trigonometric functions;
// Phi is the polar angle in [0, pi].
type Spherical struct {
	Theta float64
	Phi   float64
}

// Particle is one point on the sphere.
// Velocity is expressed in world Cartesian axes and kept tangent to the
// sphere at Position after every step.
type Particle struct {
	Position Spherical
	Velocity r3.Vec
}

// Speed returns the velocity magnitude.
func (p Particle) Speed() float64 {
	return r3.Norm(p.Velocity)
}
