package signal

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"

	"github.com/pthm-cable/spherefield/config"
)

func TestScalar(t *testing.T) {
	tests := []struct {
		in      float64
		wantErr bool
	}{
		{0, false},
		{0.5, false},
		{1, false},
		{-0.01, true},
		{1.01, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}
	for _, tt := range tests {
		got, err := Scalar(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Scalar(%v) error = %v, want ErrOutOfRange", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.in {
			t.Errorf("Scalar(%v) = %v, %v", tt.in, got, err)
		}
	}
}

func TestLevel(t *testing.T) {
	if _, err := Level(nil); !errors.Is(err, ErrShortSignal) {
		t.Errorf("Level(nil) error = %v, want ErrShortSignal", err)
	}
	if _, err := LevelAt([]uint8{1, 2}, 2); !errors.Is(err, ErrShortSignal) {
		t.Errorf("LevelAt out of range error = %v, want ErrShortSignal", err)
	}

	tests := []struct {
		bins []uint8
		want float64
	}{
		{[]uint8{0}, 0},
		{[]uint8{255, 0, 0}, 1},
		{[]uint8{51, 255}, 0.2},
	}
	for _, tt := range tests {
		got, err := Level(tt.bins)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Level(%v) = %v, want %v", tt.bins, got, tt.want)
		}
	}
}

func testAnalyser(t *testing.T, smoothing float64) *Analyser {
	t.Helper()
	a, err := NewAnalyser(AnalyserOptions{FFTSize: 2048, Smoothing: smoothing, MinDecibels: -100, MaxDecibels: -30})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func tone(n, bin, size int, amp float64) [][2]float64 {
	out := make([][2]float64, n)
	for i := range out {
		v := amp * math.Sin(2*math.Pi*float64(bin)*float64(i)/float64(size))
		out[i] = [2]float64{v, v}
	}
	return out
}

func TestNewAnalyserRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts AnalyserOptions
	}{
		{"not power of two", AnalyserOptions{FFTSize: 1000, Smoothing: 0.8, MinDecibels: -100, MaxDecibels: -30}},
		{"too small", AnalyserOptions{FFTSize: 16, Smoothing: 0.8, MinDecibels: -100, MaxDecibels: -30}},
		{"smoothing one", AnalyserOptions{FFTSize: 2048, Smoothing: 1, MinDecibels: -100, MaxDecibels: -30}},
		{"empty range", AnalyserOptions{FFTSize: 2048, Smoothing: 0.8, MinDecibels: -30, MaxDecibels: -30}},
	}
	for _, tt := range tests {
		if _, err := NewAnalyser(tt.opts); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestAnalyserSilence(t *testing.T) {
	a := testAnalyser(t, 0.8)
	a.Write(make([][2]float64, 4096))
	bins := a.ByteFrequencyData(nil)
	if len(bins) != a.Bins() {
		t.Fatalf("len = %d, want %d", len(bins), a.Bins())
	}
	for k, b := range bins {
		if b != 0 {
			t.Fatalf("bin %d = %d, want 0", k, b)
		}
	}
}

func TestAnalyserTonePeak(t *testing.T) {
	a := testAnalyser(t, 0)
	a.Write(tone(2048, 100, 2048, 0.01))
	bins := a.ByteFrequencyData(nil)

	peak := 0
	for k := range bins {
		if bins[k] > bins[peak] {
			peak = k
		}
	}
	if peak != 100 {
		t.Errorf("peak bin = %d, want 100", peak)
	}
	if bins[100] < 100 {
		t.Errorf("peak level = %d, want a loud bin", bins[100])
	}
	if bins[500] > 10 {
		t.Errorf("bin 500 = %d, want near silence", bins[500])
	}
}

func TestAnalyserSmoothingDecays(t *testing.T) {
	smoothed := testAnalyser(t, 0.8)
	raw := testAnalyser(t, 0)
	for _, a := range []*Analyser{smoothed, raw} {
		a.Write(tone(2048, 100, 2048, 0.01))
		a.ByteFrequencyData(nil)
		a.Write(make([][2]float64, 2048))
	}

	if got := raw.ByteFrequencyData(nil)[100]; got != 0 {
		t.Errorf("unsmoothed bin after silence = %d, want 0", got)
	}
	if got := smoothed.ByteFrequencyData(nil)[100]; got == 0 {
		t.Error("smoothed bin dropped to 0 after one frame of silence")
	}

	smoothed.Reset()
	if got := smoothed.ByteFrequencyData(nil)[100]; got != 0 {
		t.Errorf("bin after Reset = %d, want 0", got)
	}
}

func TestPulseEnvelope(t *testing.T) {
	const rate = beep.SampleRate(44100)
	s, err := NewPulse(rate, 12, 120)
	if err != nil {
		t.Fatal(err)
	}
	period := int(rate) / 2
	buf := make([][2]float64, period)
	if n, ok := s.Stream(buf); n != period || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}

	peak := func(samples [][2]float64) float64 {
		var m float64
		for _, v := range samples {
			m = math.Max(m, math.Abs(v[0]))
		}
		return m
	}
	head := peak(buf[:period/10])
	tail := peak(buf[period*9/10:])
	if head <= tail {
		t.Errorf("beat does not decay: head %v, tail %v", head, tail)
	}
	if head > pulseGain {
		t.Errorf("peak %v exceeds gain %v", head, pulseGain)
	}

	if _, err := NewPulse(rate, 12, 0); err == nil {
		t.Error("expected error for zero bpm")
	}
}

func pulseConfig() config.SignalConfig {
	return config.SignalConfig{
		Source:         config.SourcePulse,
		SampleRate:     44100,
		FFTSize:        2048,
		Smoothing:      0.8,
		MinDecibels:    -100,
		MaxDecibels:    -30,
		ToneFrequency:  12,
		BeatsPerMinute: 96,
	}
}

func TestMonitorWithoutSource(t *testing.T) {
	m, err := NewMonitor(config.SignalConfig{Source: config.SourceNone})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	if m.Active() {
		t.Error("Active = true without source")
	}
	level, err := m.Advance(1.0 / 60)
	if err != nil || level != 0 {
		t.Errorf("Advance = %v, %v; want 0, nil", level, err)
	}
}

func TestMonitorPulse(t *testing.T) {
	a, err := NewMonitor(pulseConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := NewMonitor(pulseConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	const frames = 120
	lo, hi := 1.0, 0.0
	for f := 0; f < frames; f++ {
		la, err := a.Advance(1.0 / 60)
		if err != nil {
			t.Fatal(err)
		}
		lb, _ := b.Advance(1.0 / 60)
		if la != lb {
			t.Fatalf("frame %d: monitors diverged %v != %v", f, la, lb)
		}
		if la < 0 || la > 1 {
			t.Fatalf("frame %d: level %v out of range", f, la)
		}
		lo, hi = math.Min(lo, la), math.Max(hi, la)
	}
	if hi-lo < 0.05 {
		t.Errorf("pulse level barely moves: [%v, %v]", lo, hi)
	}
	if got := a.Samples(); got < 44100*2-1 || got > 44100*2 {
		t.Errorf("Samples = %d, want ~%d", got, 44100*2)
	}
	if len(a.Bins()) != 1024 {
		t.Errorf("len(Bins) = %d, want 1024", len(a.Bins()))
	}
}

func writeWAV(t *testing.T, rate beep.SampleRate, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sine, err := generators.SineTone(rate, 440)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Take(n, sine), format); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenWAVLoopsAndResamples(t *testing.T) {
	path := writeWAV(t, 22050, 220)
	s, closer, err := OpenWAV(path, 44100)
	if err != nil {
		t.Fatal(err)
	}
	defer closer()

	buf := make([][2]float64, 10000)
	n, ok := s.Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Stream = %d, %v; want %d, true", n, ok, len(buf))
	}
	var energy float64
	for _, v := range buf[8000:] {
		energy += v[0] * v[0]
	}
	if energy == 0 {
		t.Error("no audio after several loops")
	}
}

func TestOpenWAVMissing(t *testing.T) {
	if _, _, err := OpenWAV(filepath.Join(t.TempDir(), "missing.wav"), 44100); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewSourceUnknown(t *testing.T) {
	if _, _, err := NewSource(config.SignalConfig{Source: "radio"}); err == nil {
		t.Error("expected error for unknown source")
	}
}
