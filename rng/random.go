// Package rng provides the reseedable pseudo-random stream shared by the
// vector field and the particle population.
//
// A Random is an explicitly owned handle rather than a process-wide
// singleton: every consumer receives the handle it draws from, so a run is
// reproducible whenever the seed is fixed before the first draw.
package rng

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"sync"
)

// Seed is the value a sequence is derived from. Integer seeds are carried in
// their decimal form, so Seed("42") and SeedFromInt(42) are the same seed.
type Seed string

// maxRandomSeed bounds seeds drawn by NewSeed.
const maxRandomSeed = 99999999

// SeedFromInt returns the seed for an integer value.
func SeedFromInt(n int64) Seed {
	return Seed(strconv.FormatInt(n, 10))
}

// Random is a deterministic generator of uniform values in [0, 1).
// It is safe for concurrent use; draws are serialized.
type Random struct {
	mu   sync.Mutex
	seed Seed
	gen  *rand.Rand
}

// New creates a generator for seed. An empty seed draws a random one.
func New(seed Seed) *Random {
	r := &Random{}
	if seed == "" {
		r.NewSeed()
		return r
	}
	r.SetSeed(seed)
	return r
}

// Float64 returns the next value of the sequence, in [0, 1).
func (r *Random) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen.Float64()
}

// Int63 returns the next value of the sequence as a non-negative int64.
// It consumes one draw, like Float64.
func (r *Random) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen.Int64()
}

// Seed returns the active seed.
func (r *Random) Seed() Seed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seed
}

// SetSeed installs seed and restarts the sequence from its beginning.
func (r *Random) SetSeed(seed Seed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.install(seed)
}

// NewSeed draws a fresh seed from a non-deterministic source, installs it
// and returns it.
func (r *Random) NewSeed() Seed {
	seed := SeedFromInt(rand.Int64N(maxRandomSeed + 1))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.install(seed)
	return seed
}

// Reset restarts the sequence of the active seed.
func (r *Random) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.install(r.seed)
}

func (r *Random) install(seed Seed) {
	h := fnv.New64a()
	h.Write([]byte(seed))
	hi := h.Sum64()
	r.seed = seed
	r.gen = rand.New(rand.NewPCG(hi, splitmix(hi)))
}

// splitmix derives the second PCG word from the seed hash.
func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
