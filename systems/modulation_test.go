package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/spherefield/config"
)

func TestNoModulation(t *testing.T) {
	m := NoModulation{}.Modulate(50, 0.9, 10)
	if m.Radius != 50 || m.Intensity != 0 {
		t.Errorf("Modulate = %+v, want radius 50", m)
	}
}

func TestPulseModulator(t *testing.T) {
	m := PulseModulator{Pulse: 0.5, Spike: 0.2, SpikeRate: 0}
	tests := []struct {
		name   string
		signal float64
		want   float64
	}{
		{"silent", 0, 50},
		{"full", 1, 50*1.5 + 0.2*0.5},
		{"half", 0.5, 50*1.25 + 0.2*0.5*0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Modulate(50, tt.signal, 0)
			if math.Abs(got.Radius-tt.want) > 1e-12 {
				t.Errorf("radius = %v, want %v", got.Radius, tt.want)
			}
			if got.Intensity != tt.signal {
				t.Errorf("intensity = %v, want %v", got.Intensity, tt.signal)
			}
		})
	}
}

func TestPulseNeverShrinks(t *testing.T) {
	m := PulseModulator{Pulse: 0.5, Spike: 1, SpikeRate: 0.37}
	for step := uint64(0); step < 1000; step++ {
		s := float64(step%11) / 10
		if r := m.Modulate(10, s, step).Radius; r < 10 {
			t.Fatalf("step %d: radius %v below base", step, r)
		}
	}
}

func TestSpringModulatorConverges(t *testing.T) {
	m := NewSpringModulator(PulseModulator{Pulse: 1}, 60, 6, 1)

	first := m.Modulate(10, 1, 0)
	if first.Radius >= 20 {
		t.Errorf("spring jumped straight to target: %v", first.Radius)
	}

	var last Modulation
	for step := uint64(1); step < 600; step++ {
		last = m.Modulate(10, 1, step)
		if last.Radius < 10 || last.Radius > 20+1e-9 {
			t.Fatalf("step %d: radius %v outside [10, 20]", step, last.Radius)
		}
	}
	if math.Abs(last.Radius-20) > 1e-3 {
		t.Errorf("radius after settling = %v, want ~20", last.Radius)
	}

	m.Reset()
	if r := m.Modulate(10, 0, 0).Radius; r != 10 {
		t.Errorf("radius after reset = %v, want 10", r)
	}
}

func TestSpringOvershootStaysInUnit(t *testing.T) {
	// Damping well below 1 overshoots the target
	m := NewSpringModulator(PulseModulator{Pulse: 1}, 60, 12, 0.1)
	for step := uint64(0); step < 300; step++ {
		got := m.Modulate(10, 1, step)
		if got.Intensity < 0 || got.Intensity > 1 {
			t.Fatalf("step %d: intensity %v outside [0, 1]", step, got.Intensity)
		}
	}
}

func TestNewModulator(t *testing.T) {
	tests := []struct {
		mode    string
		want    string
		wantErr bool
	}{
		{config.ModePlain, "none", false},
		{"", "none", false},
		{config.ModePulse, "pulse", false},
		{config.ModeSpring, "spring", false},
		{"strobe", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			m, err := NewModulator(config.ModulationConfig{
				Mode: tt.mode, PulseFactor: 0.5, SpringFrequency: 6, SpringDamping: 1,
			}, 60)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			var got string
			switch m.(type) {
			case NoModulation:
				got = "none"
			case PulseModulator:
				got = "pulse"
			case *SpringModulator:
				got = "spring"
			}
			if got != tt.want {
				t.Errorf("modulator kind = %q, want %q", got, tt.want)
			}
		})
	}
}
