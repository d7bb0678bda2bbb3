package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spherefield/components"
)

// ToCartesian returns the point at direction s on the sphere of the given radius.
func ToCartesian(s components.Spherical, radius float64) r3.Vec {
	sinPhi, cosPhi := math.Sincos(s.Phi)
	sinTheta, cosTheta := math.Sincos(s.Theta)
	return r3.Vec{
		X: radius * sinPhi * cosTheta,
		Y: radius * sinPhi * sinTheta,
		Z: radius * cosPhi,
	}
}

// ToSpherical returns the direction of v. v must be non-zero; the engine
// re-normalises every point to a positive radius before converting.
func ToSpherical(v r3.Vec) components.Spherical {
	r := r3.Norm(v)
	return components.Spherical{
		Theta: math.Atan2(v.Y, v.X),
		Phi:   math.Acos(clampUnit(v.Z / r)),
	}
}

// SurfaceNormal returns the outward unit normal at direction s.
func SurfaceNormal(s components.Spherical) r3.Vec {
	return ToCartesian(s, 1)
}

// clampUnit guards acos against rounding just outside [-1, 1].
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
