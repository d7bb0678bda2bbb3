package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	if cfg.Simulation.Radius != 50 {
		t.Errorf("radius = %v, want 50", cfg.Simulation.Radius)
	}
	if cfg.Simulation.AngleScale != math.Pi {
		t.Errorf("angle_scale = %v, want pi", cfg.Simulation.AngleScale)
	}
	if math.Abs(cfg.Derived.FrameSeconds-1.0/60) > 1e-12 {
		t.Errorf("frame seconds = %v", cfg.Derived.FrameSeconds)
	}
	if cfg.Derived.Headroom <= cfg.Simulation.Radius {
		t.Errorf("headroom %v should exceed radius with modulation %q", cfg.Derived.Headroom, cfg.Modulation.Mode)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("simulation:\n  seed: \"42\"\n  particles: 3\n  friction: 0.2\nmodulation:\n  mode: none\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Seed != "42" || cfg.Simulation.Particles != 3 || cfg.Simulation.Friction != 0.2 {
		t.Errorf("overlay not applied: %+v", cfg.Simulation)
	}
	// Fields absent from the overlay keep their defaults
	if cfg.Simulation.Radius != 50 {
		t.Errorf("radius = %v, want default 50", cfg.Simulation.Radius)
	}
	if cfg.Derived.Headroom != cfg.Simulation.Radius {
		t.Errorf("headroom = %v, want radius without modulation", cfg.Derived.Headroom)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("simulation:\n  radius: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSimulationValidate(t *testing.T) {
	base := Default().Simulation

	tests := []struct {
		name   string
		mutate func(*SimulationConfig)
		field  string
	}{
		{"zero radius", func(s *SimulationConfig) { s.Radius = 0 }, "simulation.radius"},
		{"negative radius", func(s *SimulationConfig) { s.Radius = -1 }, "simulation.radius"},
		{"friction one", func(s *SimulationConfig) { s.Friction = 1.0 }, "simulation.friction"},
		{"negative friction", func(s *SimulationConfig) { s.Friction = -0.1 }, "simulation.friction"},
		{"zero dormancy", func(s *SimulationConfig) { s.DormancyThreshold = 0 }, "simulation.dormancy_threshold"},
		{"zero resolution", func(s *SimulationConfig) { s.Resolution = 0 }, "simulation.resolution"},
		{"nan coupling", func(s *SimulationConfig) { s.Coupling = math.NaN() }, "simulation.coupling"},
		{"negative particles", func(s *SimulationConfig) { s.Particles = -1 }, "simulation.particles"},
		{"unknown backend", func(s *SimulationConfig) { s.Noise.Backend = "value" }, "simulation.noise.backend"},
		{"negative jitter", func(s *SimulationConfig) { s.Jitter = -1 }, "simulation.jitter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			err := s.Validate()
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() = %v, want *ConfigurationError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("field = %q, want %q", cerr.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Error("error does not match ErrInvalidConfig")
			}
		})
	}
}

func TestSimulationValidateAcceptsEmptyPopulation(t *testing.T) {
	s := Default().Simulation
	s.Particles = 0
	if err := s.Validate(); err != nil {
		t.Errorf("zero particles rejected: %v", err)
	}
}

func TestModulationValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       ModulationConfig
		wantErr bool
	}{
		{"none", ModulationConfig{Mode: ModePlain}, false},
		{"pulse", ModulationConfig{Mode: ModePulse, PulseFactor: 0.5}, false},
		{"negative pulse", ModulationConfig{Mode: ModePulse, PulseFactor: -0.5}, true},
		{"spring without frequency", ModulationConfig{Mode: ModeSpring}, true},
		{"spring", ModulationConfig{Mode: ModeSpring, SpringFrequency: 6, SpringDamping: 1}, false},
		{"unknown", ModulationConfig{Mode: "wobble"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSignalValidate(t *testing.T) {
	ok := Default().Signal
	tests := []struct {
		name    string
		mutate  func(*SignalConfig)
		wantErr bool
	}{
		{"defaults", func(*SignalConfig) {}, false},
		{"fft not power of two", func(s *SignalConfig) { s.FFTSize = 1000 }, true},
		{"wav without file", func(s *SignalConfig) { s.Source = SourceWAV; s.File = "" }, true},
		{"bin out of range", func(s *SignalConfig) { s.Bin = s.FFTSize }, true},
		{"inverted decibels", func(s *SignalConfig) { s.MinDecibels = 0 }, true},
		{"none ignores analyser", func(s *SignalConfig) { s.Source = SourceNone; s.FFTSize = 3 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ok
			tt.mutate(&s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteYAML(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Seed = "snapshot"
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Simulation != cfg.Simulation {
		t.Errorf("simulation section changed: %+v != %+v", back.Simulation, cfg.Simulation)
	}
}

func TestScreenValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScreenConfig)
		wantErr bool
	}{
		{"defaults", func(*ScreenConfig) {}, false},
		{"full clear", func(s *ScreenConfig) { s.Fade = 1 }, false},
		{"no fade", func(s *ScreenConfig) { s.Fade = 0 }, true},
		{"fade above one", func(s *ScreenConfig) { s.Fade = 1.5 }, true},
		{"zero width", func(s *ScreenConfig) { s.Width = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default().Screen
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not match ErrInvalidConfig", err)
			}
		})
	}
}
