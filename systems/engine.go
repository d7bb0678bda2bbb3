package systems

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spherefield/components"
	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/rng"
)

// ErrDegenerate marks a point that collapsed to zero magnitude, or an
// effective radius that is not positive. It is raised by panic: both are
// contract violations, not recoverable conditions.
var ErrDegenerate = errors.New("degenerate geometry")

// ErrSignalRange marks an UpdateInput.Signal that is NaN or outside [0, 1].
// Callers normalise and validate the signal at their boundary; reaching
// Update with a bad value is a contract violation and panics.
var ErrSignalRange = errors.New("signal outside [0, 1]")

// UpdateInput is the per-frame input of Engine.Update.
type UpdateInput struct {
	DeltaTime float64
	Step      uint64
	Signal    float64 // Normalised amplitude in [0, 1], validated by Update
}

// Engine advances a particle population constrained to a sphere.
//
// Update is synchronous: one call fully updates every particle before
// returning. Per-particle integration may run on a worker pool; every draw
// from the shared random stream (jitter, respawn) happens serially in index
// order, so results do not depend on the worker count.
type Engine struct {
	cfg       config.SimulationConfig
	rand      *rng.Random
	field     VectorField
	modulator Modulator
	spawner   *Spawner
	pool      *workerPool

	pop     *Population
	back    []components.Particle // write buffer, swapped with pop after each step
	dormant []bool
	jitter  []r3.Vec

	radius   float64 // effective radius of the last step
	mod      Modulation
	respawns uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithModulator installs the external-signal modulation strategy.
func WithModulator(m Modulator) Option {
	return func(e *Engine) {
		if m != nil {
			e.modulator = m
		}
	}
}

// WithWorkers overrides the configured worker count.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.pool = newWorkerPool(n)
	}
}

// NewEngine validates cfg, seeds the vector field from r and allocates the
// population. Call Init to draw the initial particles.
func NewEngine(cfg config.SimulationConfig, r *rng.Random, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		rand:      r,
		modulator: NoModulation{},
		spawner:   NewSpawner(r, cfg.InitialVelocity),
		pool:      newWorkerPool(cfg.Workers),
		pop:       NewPopulation(cfg.Particles),
		back:      make([]components.Particle, cfg.Particles),
		dormant:   make([]bool, cfg.Particles),
		radius:    cfg.Radius,
		mod:       Modulation{Radius: cfg.Radius},
	}
	if cfg.Jitter > 0 {
		e.jitter = make([]r3.Vec, cfg.Particles)
	}
	for _, opt := range opts {
		opt(e)
	}

	field, err := BuildVectorField(r, cfg)
	if err != nil {
		return nil, fmt.Errorf("building vector field: %w", err)
	}
	e.field = field

	return e, nil
}

// Init draws the initial population.
func (e *Engine) Init() {
	e.pop.fill(e.spawner.Resample)
	e.respawns = 0
	e.radius = e.cfg.Radius
	e.mod = Modulation{Radius: e.cfg.Radius}
}

// Reseed installs seed, rebuilds the vector field and redraws the population.
// The engine then follows the same trajectory as a new engine built with seed.
func (e *Engine) Reseed(seed rng.Seed) error {
	e.rand.SetSeed(seed)
	field, err := BuildVectorField(e.rand, e.cfg)
	if err != nil {
		return fmt.Errorf("building vector field: %w", err)
	}
	e.field = field
	if r, ok := e.modulator.(Resetter); ok {
		r.Reset()
	}
	e.Init()
	return nil
}

// Restore replaces the population with particles at effective radius
// radius. The random stream and modulator state are left as they are.
func (e *Engine) Restore(particles []components.Particle, radius float64) error {
	if len(particles) != e.pop.Len() {
		return fmt.Errorf("restoring %d particles into a population of %d", len(particles), e.pop.Len())
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return fmt.Errorf("%w: effective radius %v", ErrDegenerate, radius)
	}
	copy(e.pop.particles, particles)
	e.radius = radius
	e.mod = Modulation{Radius: radius}
	return nil
}

// Update advances every particle by one step.
func (e *Engine) Update(in UpdateInput) {
	if math.IsNaN(in.Signal) || in.Signal < 0 || in.Signal > 1 {
		panic(fmt.Errorf("%w: %v", ErrSignalRange, in.Signal))
	}
	n := e.pop.Len()
	if n == 0 {
		return
	}

	mod := e.modulator.Modulate(e.cfg.Radius, in.Signal, in.Step)
	if !(mod.Radius > 0) || math.IsInf(mod.Radius, 0) {
		panic(fmt.Errorf("%w: effective radius %v", ErrDegenerate, mod.Radius))
	}

	if e.jitter != nil {
		e.drawJitter()
	}

	front := e.pop.particles
	e.pool.run(n, func(start, end int) {
		for i := start; i < end; i++ {
			var j r3.Vec
			if e.jitter != nil {
				j = e.jitter[i]
			}
			e.back[i], e.dormant[i] = e.integrate(front[i], j, in.DeltaTime, mod.Radius)
		}
	})

	for i, dormant := range e.dormant {
		if dormant {
			e.back[i] = e.spawner.Resample()
			e.respawns++
		}
	}

	e.pop.particles, e.back = e.back, front
	e.radius = mod.Radius
	e.mod = mod
}

// drawJitter draws the per-particle perturbations for this step: an angle
// then a vertical component, particle by particle.
func (e *Engine) drawJitter() {
	amp := e.cfg.Jitter
	for i := range e.jitter {
		a := e.rand.Float64() * 2 * math.Pi
		u := e.rand.Float64()
		sin, cos := math.Sincos(a)
		e.jitter[i] = r3.Vec{X: cos * amp, Y: sin * amp, Z: (u - 0.5) * amp}
	}
}

// integrate returns the particle after one step and whether it went dormant.
func (e *Engine) integrate(p components.Particle, jitter r3.Vec, dt, radius float64) (components.Particle, bool) {
	pos := ToCartesian(p.Position, e.radius)
	v := r3.Add(p.Velocity, jitter)

	// The field acts in the x/y plane only
	f := e.field(pos.X, pos.Y, pos.Z)
	k := e.cfg.Coupling * dt
	v.X += f.X * k
	v.Y += f.Y * k

	pos = r3.Add(pos, r3.Scale(dt, v))
	if e.cfg.RotationSpeed != 0 {
		pos = rotateZ(pos, e.cfg.RotationSpeed*dt)
	}

	r := r3.Norm(pos)
	if !(r > 0) || math.IsInf(r, 0) {
		panic(fmt.Errorf("%w: point %v before re-projection", ErrDegenerate, pos))
	}
	pos = r3.Scale(radius/r, pos)
	p.Position = ToSpherical(pos)

	normal := r3.Scale(1/radius, pos)
	v = tangential(v, normal)
	v = r3.Scale(1-e.cfg.Friction, v)
	p.Velocity = v

	return p, r3.Norm(v) < e.cfg.DormancyThreshold
}

func rotateZ(v r3.Vec, angle float64) r3.Vec {
	sin, cos := math.Sincos(angle)
	return r3.Vec{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos, Z: v.Z}
}

// Population returns the particles for read-only use.
func (e *Engine) Population() *Population {
	return e.pop
}

// Cartesian returns particle i on the sphere of the current effective radius.
func (e *Engine) Cartesian(i int) r3.Vec {
	return ToCartesian(e.pop.particles[i].Position, e.radius)
}

// EffectiveRadius returns the radius particles were projected to in the last step.
func (e *Engine) EffectiveRadius() float64 {
	return e.radius
}

// Modulation returns the modulation of the last step.
func (e *Engine) Modulation() Modulation {
	return e.mod
}

// Respawns returns the number of dormancy respawns since Init.
func (e *Engine) Respawns() uint64 {
	return e.respawns
}

// Config returns the engine configuration.
func (e *Engine) Config() config.SimulationConfig {
	return e.cfg
}

// Seed returns the seed of the engine's random stream.
func (e *Engine) Seed() rng.Seed {
	return e.rand.Seed()
}

// Field returns the vector field.
func (e *Engine) Field() VectorField {
	return e.field
}

// Close stops the worker goroutines.
func (e *Engine) Close() {
	e.pool.stop()
}
