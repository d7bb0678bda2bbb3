package noise

import (
	"math"
	"math/rand"
)

// Perlin generates classic gradient noise.
type Perlin struct {
	perm [512]int
}

// NewPerlin creates a Perlin noise generator whose permutation table is
// shuffled from seed.
func NewPerlin(seed int64) *Perlin {
	p := &Perlin{}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// Sample3 returns the noise value at (x, y, z).
// Values are zero on integer lattice points.
func (p *Perlin) Sample3(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	A := p.perm[X] + Y
	AA := p.perm[A] + Z
	AB := p.perm[A+1] + Z
	B := p.perm[X+1] + Y
	BA := p.perm[B] + Z
	BB := p.perm[B+1] + Z

	n := lerp(w, lerp(v, lerp(u, grad3(p.perm[AA], x, y, z),
		grad3(p.perm[BA], x-1, y, z)),
		lerp(u, grad3(p.perm[AB], x, y-1, z),
			grad3(p.perm[BB], x-1, y-1, z))),
		lerp(v, lerp(u, grad3(p.perm[AA+1], x, y, z-1),
			grad3(p.perm[BA+1], x-1, y, z-1)),
			lerp(u, grad3(p.perm[AB+1], x, y-1, z-1),
				grad3(p.perm[BB+1], x-1, y-1, z-1))))
	return clamp1(n)
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad3(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
