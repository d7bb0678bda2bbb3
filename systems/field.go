package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/noise"
	"github.com/pthm-cable/spherefield/rng"
)

// DefaultAngleScale maps noise values in [-1, 1] to angles in [-pi, pi].
const DefaultAngleScale = math.Pi

// VectorField maps a point in space to a unit planar direction.
// It is pure: sampling never consumes randomness.
type VectorField func(x, y, z float64) r2.Vec

// NewVectorField samples src at (x, y, z) * resolution and turns the value
// into the direction at angle value * angleScale.
func NewVectorField(src noise.Source, resolution, angleScale float64) VectorField {
	return func(x, y, z float64) r2.Vec {
		angle := src.Sample3(x*resolution, y*resolution, z*resolution) * angleScale
		sin, cos := math.Sincos(angle)
		return r2.Vec{X: cos, Y: sin}
	}
}

// BuildVectorField seeds the configured noise backend with one draw from r
// and returns the field over it.
func BuildVectorField(r *rng.Random, cfg config.SimulationConfig) (VectorField, error) {
	seed := r.Int63()
	src, err := noise.New(noise.Backend(cfg.Noise.Backend), seed)
	if err != nil {
		return nil, err
	}
	if cfg.Noise.Octaves > 1 {
		src = &noise.Fractal{
			Base:       src,
			Octaves:    cfg.Noise.Octaves,
			Lacunarity: cfg.Noise.Lacunarity,
			Gain:       cfg.Noise.Gain,
		}
	}
	scale := cfg.AngleScale
	if scale == 0 {
		scale = DefaultAngleScale
	}
	return NewVectorField(src, cfg.Resolution, scale), nil
}
