package noise

// Fractal sums octaves of a base source (fractional Brownian motion).
// The sum is normalised by the total amplitude so the result stays in [-1, 1].
type Fractal struct {
	Base       Source
	Octaves    int
	Lacunarity float64 // frequency multiplier per octave
	Gain       float64 // amplitude multiplier per octave
}

// Sample3 returns the fBm value at (x, y, z).
func (f *Fractal) Sample3(x, y, z float64) float64 {
	if f.Octaves <= 1 {
		return f.Base.Sample3(x, y, z)
	}

	var sum, norm float64
	amp, freq := 1.0, 1.0
	for o := 0; o < f.Octaves; o++ {
		sum += amp * f.Base.Sample3(x*freq, y*freq, z*freq)
		norm += amp
		amp *= f.Gain
		freq *= f.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return clamp1(sum / norm)
}
