package noise

import (
	"github.com/ojrac/opensimplex-go"
)

// Simplex wraps OpenSimplex noise.
type Simplex struct {
	n opensimplex.Noise
}

// NewSimplex creates an OpenSimplex generator seeded with seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{n: opensimplex.New(seed)}
}

// Sample3 returns the noise value at (x, y, z).
func (s *Simplex) Sample3(x, y, z float64) float64 {
	return clamp1(s.n.Eval3(x, y, z))
}
