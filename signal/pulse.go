package signal

import (
	"fmt"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// Peak amplitude of the pulse and how fast each beat dies away, as a
// fraction of the beat period.
const (
	pulseGain  = 0.1
	pulseDecay = 0.25
)

// beat shapes a carrier with an exponentially decaying envelope that
// restarts on every beat.
type beat struct {
	carrier  beep.Streamer
	period   int // samples per beat
	position int
	decay    float64 // samples
}

// NewPulse returns an endless low sine at tone Hz whose loudness kicks on
// every beat of a bpm tempo.
func NewPulse(rate beep.SampleRate, tone, bpm float64) (beep.Streamer, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("beats per minute must be positive, got %v", bpm)
	}
	carrier, err := generators.SineTone(rate, tone)
	if err != nil {
		return nil, fmt.Errorf("pulse carrier: %w", err)
	}
	period := int(math.Round(float64(rate) * 60 / bpm))
	if period < 1 {
		period = 1
	}
	return &beat{
		carrier: carrier,
		period:  period,
		decay:   pulseDecay * float64(period),
	}, nil
}

func (b *beat) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = b.carrier.Stream(samples)
	for i := 0; i < n; i++ {
		vol := pulseGain * math.Exp(-float64(b.position)/b.decay)
		samples[i][0] *= vol
		samples[i][1] *= vol

		b.position++
		if b.position == b.period {
			b.position = 0
		}
	}
	return n, ok
}

func (b *beat) Err() error { return b.carrier.Err() }
