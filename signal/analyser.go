package signal

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyser turns a stream of samples into byte frequency data.
//
// It keeps the last FFTSize mono samples in a ring buffer. Each call to
// ByteFrequencyData windows them with a Blackman window, transforms them,
// smooths the magnitudes over time and maps decibels in
// [MinDecibels, MaxDecibels] onto [0, 255].
type Analyser struct {
	size      int
	smoothing float64
	minDB     float64
	maxDB     float64

	ring   []float64
	head   int
	window []float64
	frame  []float64
	coeffs []complex128
	smooth []float64
	fft    *fourier.FFT
}

// AnalyserOptions configures an Analyser.
type AnalyserOptions struct {
	FFTSize     int
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

// NewAnalyser creates an analyser. FFTSize must be a power of two of at
// least 32.
func NewAnalyser(opts AnalyserOptions) (*Analyser, error) {
	n := opts.FFTSize
	if n < 32 || n&(n-1) != 0 {
		return nil, fmt.Errorf("fft size %d is not a power of two >= 32", n)
	}
	if opts.Smoothing < 0 || opts.Smoothing >= 1 {
		return nil, fmt.Errorf("smoothing %v outside [0, 1)", opts.Smoothing)
	}
	if !(opts.MinDecibels < opts.MaxDecibels) {
		return nil, fmt.Errorf("decibel range [%v, %v] is empty", opts.MinDecibels, opts.MaxDecibels)
	}

	a := &Analyser{
		size:      n,
		smoothing: opts.Smoothing,
		minDB:     opts.MinDecibels,
		maxDB:     opts.MaxDecibels,
		ring:      make([]float64, n),
		window:    blackman(n),
		frame:     make([]float64, n),
		coeffs:    make([]complex128, n/2+1),
		smooth:    make([]float64, n/2),
		fft:       fourier.NewFFT(n),
	}
	return a, nil
}

// blackman returns the classic Blackman window (alpha = 0.16).
func blackman(n int) []float64 {
	const (
		a0 = 0.42
		a1 = 0.5
		a2 = 0.08
	)
	w := make([]float64, n)
	for i := range w {
		x := float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return w
}

// Bins returns the number of frequency bins (FFTSize/2).
func (a *Analyser) Bins() int {
	return a.size / 2
}

// Write appends stereo samples, mixed down to mono.
func (a *Analyser) Write(samples [][2]float64) {
	for _, s := range samples {
		a.ring[a.head] = (s[0] + s[1]) / 2
		a.head++
		if a.head == a.size {
			a.head = 0
		}
	}
}

// Reset clears the sample history and the smoothed spectrum.
func (a *Analyser) Reset() {
	clear(a.ring)
	clear(a.smooth)
	a.head = 0
}

// ByteFrequencyData analyses the current window into dst, which is grown to
// Bins() entries if needed.
func (a *Analyser) ByteFrequencyData(dst []uint8) []uint8 {
	for i := range a.frame {
		a.frame[i] = a.ring[(a.head+i)%a.size] * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.frame)

	if cap(dst) < len(a.smooth) {
		dst = make([]uint8, len(a.smooth))
	}
	dst = dst[:len(a.smooth)]

	scale := 1 / float64(a.size)
	span := a.maxDB - a.minDB
	for k := range a.smooth {
		mag := cmplx.Abs(a.coeffs[k]) * scale
		a.smooth[k] = a.smoothing*a.smooth[k] + (1-a.smoothing)*mag

		db := 20 * math.Log10(a.smooth[k])
		v := 255 * (db - a.minDB) / span
		switch {
		case math.IsNaN(v) || v < 0:
			dst[k] = 0
		case v > 255:
			dst[k] = 255
		default:
			dst[k] = uint8(v)
		}
	}
	return dst
}
