// Package signal is the boundary between external audio and the simulation.
//
// Audio arrives as beep streamers (a synthetic pulse, a WAV file, or
// silence), is analysed into byte frequency bins the way a browser
// AnalyserNode does, and is reduced to one normalised amplitude in [0, 1]
// per frame.
package signal

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrShortSignal is returned when a frequency array holds no bins.
	ErrShortSignal = errors.New("signal has no frequency bins")

	// ErrOutOfRange is returned for amplitudes outside [0, 1] or NaN.
	ErrOutOfRange = errors.New("signal amplitude out of range")
)

// Scalar validates an already-normalised amplitude.
func Scalar(v float64) (float64, error) {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, v)
	}
	return v, nil
}

// Level converts byte frequency data into an amplitude in [0, 1] using the
// first bin as the amplitude proxy.
func Level(bins []uint8) (float64, error) {
	return LevelAt(bins, 0)
}

// LevelAt is Level reading bin i.
func LevelAt(bins []uint8, i int) (float64, error) {
	if len(bins) == 0 {
		return 0, ErrShortSignal
	}
	if i < 0 || i >= len(bins) {
		return 0, fmt.Errorf("%w: bin %d of %d", ErrShortSignal, i, len(bins))
	}
	return float64(bins[i]) / 255, nil
}
