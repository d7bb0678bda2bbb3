// Package noise provides deterministic coherent-noise backends behind a
// single sampling capability.
package noise

import (
	"fmt"
)

// Source is a seeded, continuous 3D noise function.
// Sample3 returns values in [-1, 1].
type Source interface {
	Sample3(x, y, z float64) float64
}

// Backend names a concrete Source implementation.
type Backend string

const (
	BackendPerlin  Backend = "perlin"
	BackendSimplex Backend = "simplex"
)

// New creates the named backend seeded with seed.
func New(backend Backend, seed int64) (Source, error) {
	switch backend {
	case BackendPerlin, "":
		return NewPerlin(seed), nil
	case BackendSimplex:
		return NewSimplex(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", backend)
	}
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
