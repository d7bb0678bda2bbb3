package signal

import (
	"fmt"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/spherefield/config"
)

// Monitor pulls audio from a source in step with the simulation clock and
// reports its level once per frame.
type Monitor struct {
	source   beep.Streamer
	close    func() error
	rate     beep.SampleRate
	analyser *Analyser
	bin      int

	buf     [][2]float64
	bins    []uint8
	carry   float64 // fractional samples owed from earlier frames
	level   float64
	samples uint64
}

// NewSource builds the configured audio source. A nil streamer means no
// signal. The closer is never nil.
func NewSource(cfg config.SignalConfig) (beep.Streamer, func() error, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	noop := func() error { return nil }

	switch cfg.Source {
	case "", config.SourceNone:
		return nil, noop, nil
	case config.SourcePulse:
		s, err := NewPulse(rate, cfg.ToneFrequency, cfg.BeatsPerMinute)
		return s, noop, err
	case config.SourceWAV:
		return OpenWAV(cfg.File, rate)
	}
	return nil, noop, fmt.Errorf("unknown signal source %q", cfg.Source)
}

// NewMonitor opens the configured source and its analyser.
func NewMonitor(cfg config.SignalConfig) (*Monitor, error) {
	source, closer, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}
	m := &Monitor{
		source: source,
		close:  closer,
		rate:   beep.SampleRate(cfg.SampleRate),
		bin:    cfg.Bin,
	}
	if source == nil {
		return m, nil
	}

	m.analyser, err = NewAnalyser(AnalyserOptions{
		FFTSize:     cfg.FFTSize,
		Smoothing:   cfg.Smoothing,
		MinDecibels: cfg.MinDecibels,
		MaxDecibels: cfg.MaxDecibels,
	})
	if err != nil {
		closer()
		return nil, err
	}
	return m, nil
}

// Advance consumes seconds of audio and returns the level of the configured
// bin in [0, 1]. Without a source the level is always 0.
func (m *Monitor) Advance(seconds float64) (float64, error) {
	if m.source == nil {
		return 0, nil
	}

	want := m.carry + seconds*float64(m.rate)
	n := int(want)
	m.carry = want - float64(n)
	if n > 0 {
		if cap(m.buf) < n {
			m.buf = make([][2]float64, n)
		}
		buf := m.buf[:n]
		got, _ := m.source.Stream(buf)
		clear(buf[got:])
		m.analyser.Write(buf)
		m.samples += uint64(n)
		if got < n {
			if err := m.source.Err(); err != nil {
				return 0, fmt.Errorf("reading signal: %w", err)
			}
		}
	}

	m.bins = m.analyser.ByteFrequencyData(m.bins)
	level, err := LevelAt(m.bins, m.bin)
	if err != nil {
		return 0, err
	}
	m.level = level
	return level, nil
}

// Level returns the level computed by the last Advance.
func (m *Monitor) Level() float64 {
	return m.level
}

// Bins returns the byte frequency data of the last Advance. The slice is
// reused by the next call.
func (m *Monitor) Bins() []uint8 {
	return m.bins
}

// Samples returns the number of samples consumed so far.
func (m *Monitor) Samples() uint64 {
	return m.samples
}

// Active reports whether a source is attached.
func (m *Monitor) Active() bool {
	return m.source != nil
}

// Close releases the source.
func (m *Monitor) Close() error {
	return m.close()
}
