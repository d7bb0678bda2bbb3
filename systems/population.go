package systems

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spherefield/components"
	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/rng"
)

// Population is the fixed-length, positionally stable set of particles.
// Index i always refers to the same logical particle, so draw buffers can be
// filled positionally.
type Population struct {
	particles []components.Particle
}

// NewPopulation allocates n zero-valued particles.
func NewPopulation(n int) *Population {
	return &Population{particles: make([]components.Particle, n)}
}

// Len returns the number of particles.
func (p *Population) Len() int {
	return len(p.particles)
}

// At returns a copy of particle i.
func (p *Population) At(i int) components.Particle {
	return p.particles[i]
}

// All iterates over the particles in index order.
func (p *Population) All() iter.Seq2[int, components.Particle] {
	return func(yield func(int, components.Particle) bool) {
		for i, pt := range p.particles {
			if !yield(i, pt) {
				return
			}
		}
	}
}

// Snapshot copies the particles into dst, growing it if needed.
func (p *Population) Snapshot(dst []components.Particle) []components.Particle {
	dst = append(dst[:0], p.particles...)
	return dst
}

// fill overwrites every particle with a fresh draw, in index order.
func (p *Population) fill(spawn func() components.Particle) {
	for i := range p.particles {
		p.particles[i] = spawn()
	}
}

// Spawner draws new particles: positions uniform on the sphere, velocities
// from the configured initial range projected onto the tangent plane.
type Spawner struct {
	rand   *rng.Random
	spread float64
	bias   float64
}

// NewSpawner creates a spawner drawing from r.
func NewSpawner(r *rng.Random, v config.InitialVelocityConfig) *Spawner {
	return &Spawner{rand: r, spread: v.Spread, bias: v.Bias}
}

// Resample returns a fresh particle. Draw order is fixed: theta, phi, then
// two draws per velocity component in x, y, z order.
func (s *Spawner) Resample() components.Particle {
	theta := s.rand.Float64() * 2 * math.Pi
	phi := math.Acos(2*s.rand.Float64() - 1)
	pos := components.Spherical{Theta: theta, Phi: phi}

	v := r3.Vec{
		X: s.component(),
		Y: s.component(),
		Z: s.component(),
	}

	return components.Particle{
		Position: pos,
		Velocity: tangential(v, SurfaceNormal(pos)),
	}
}

func (s *Spawner) component() float64 {
	c := s.rand.Float64()*s.spread - s.spread/2
	return c + s.rand.Float64()*s.bias
}

// tangential removes the component of v along the unit normal n.
func tangential(v, n r3.Vec) r3.Vec {
	return r3.Sub(v, r3.Scale(r3.Dot(v, n), n))
}
