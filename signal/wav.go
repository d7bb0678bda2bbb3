package signal

import (
	"errors"
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is the beep resampler quality for file sources.
const resampleQuality = 4

// OpenWAV decodes a WAV file as an endless stream at rate. The returned
// closer releases the file.
func OpenWAV(path string, rate beep.SampleRate) (beep.Streamer, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening wav: %w", err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if s.Len() == 0 {
		s.Close()
		return nil, nil, fmt.Errorf("decoding %s: %w", path, ErrShortSignal)
	}

	var out beep.Streamer = &repeat{s: s}
	if format.SampleRate != rate {
		out = beep.Resample(resampleQuality, format.SampleRate, rate, out)
	}
	return out, s.Close, nil
}

// repeat rewinds s whenever it runs dry.
type repeat struct {
	s   beep.StreamSeeker
	err error
}

func (r *repeat) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		sn, sok := r.s.Stream(samples[n:])
		n += sn
		if sok && sn > 0 {
			continue
		}
		if err := r.s.Err(); err != nil {
			r.err = err
			return n, n > 0
		}
		if err := r.s.Seek(0); err != nil {
			r.err = err
			return n, n > 0
		}
		if sn == 0 && r.s.Len() == 0 {
			r.err = errors.New("wav stream is empty")
			return n, n > 0
		}
	}
	return n, true
}

func (r *repeat) Err() error { return r.err }
