package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is matched by every ConfigurationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigurationError reports a construction parameter outside its domain.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Modulation modes.
const (
	ModePlain  = "none"
	ModePulse  = "pulse"
	ModeSpring = "spring"
)

// Signal sources.
const (
	SourceNone  = "none"
	SourcePulse = "pulse"
	SourceWAV   = "wav"
)

func invalid(field string, value any, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Screen.Validate(); err != nil {
		return err
	}
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if err := c.Modulation.Validate(); err != nil {
		return err
	}
	return c.Signal.Validate()
}

// Validate checks the display settings.
func (s ScreenConfig) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return invalid("screen", fmt.Sprintf("%dx%d", s.Width, s.Height), "dimensions must be positive")
	case !finite(s.Fade) || s.Fade <= 0 || s.Fade > 1:
		return invalid("screen.fade", s.Fade, "must be in (0, 1]")
	}
	return nil
}

// Validate checks the engine parameters. A population of zero particles is
// legal; the engine then does nothing per step.
func (s SimulationConfig) Validate() error {
	switch {
	case !finite(s.Radius) || s.Radius <= 0:
		return invalid("simulation.radius", s.Radius, "must be positive")
	case !finite(s.Resolution) || s.Resolution <= 0:
		return invalid("simulation.resolution", s.Resolution, "must be positive")
	case !finite(s.Friction) || s.Friction < 0 || s.Friction >= 1:
		return invalid("simulation.friction", s.Friction, "must be in [0, 1)")
	case !finite(s.DormancyThreshold) || s.DormancyThreshold <= 0:
		return invalid("simulation.dormancy_threshold", s.DormancyThreshold, "must be positive")
	case !finite(s.Coupling):
		return invalid("simulation.coupling", s.Coupling, "must be finite")
	case !finite(s.AngleScale) || s.AngleScale < 0:
		return invalid("simulation.angle_scale", s.AngleScale, "must not be negative (0 = pi)")
	case !finite(s.RotationSpeed):
		return invalid("simulation.rotation_speed", s.RotationSpeed, "must be finite")
	case !finite(s.Jitter) || s.Jitter < 0:
		return invalid("simulation.jitter", s.Jitter, "must be non-negative")
	case s.Particles < 0:
		return invalid("simulation.particles", s.Particles, "must not be negative")
	case s.Workers < 0:
		return invalid("simulation.workers", s.Workers, "must not be negative")
	case !finite(s.InitialVelocity.Spread) || s.InitialVelocity.Spread < 0:
		return invalid("simulation.initial_velocity.spread", s.InitialVelocity.Spread, "must be non-negative")
	case !finite(s.InitialVelocity.Bias):
		return invalid("simulation.initial_velocity.bias", s.InitialVelocity.Bias, "must be finite")
	}

	switch s.Noise.Backend {
	case "", "perlin", "simplex":
	default:
		return invalid("simulation.noise.backend", s.Noise.Backend, "must be perlin or simplex")
	}
	if s.Noise.Octaves > 1 && (s.Noise.Lacunarity <= 0 || s.Noise.Gain <= 0) {
		return invalid("simulation.noise", s.Noise, "lacunarity and gain must be positive with octaves > 1")
	}
	return nil
}

// Validate checks the modulation parameters. Factors must be non-negative so
// the effective radius never drops below the base radius.
func (m ModulationConfig) Validate() error {
	switch m.Mode {
	case "", ModePlain:
		return nil
	case ModePulse, ModeSpring:
	default:
		return invalid("modulation.mode", m.Mode, "must be none, pulse or spring")
	}
	switch {
	case !finite(m.PulseFactor) || m.PulseFactor < 0:
		return invalid("modulation.pulse_factor", m.PulseFactor, "must be non-negative")
	case !finite(m.SpikeFactor) || m.SpikeFactor < 0:
		return invalid("modulation.spike_factor", m.SpikeFactor, "must be non-negative")
	case !finite(m.SpikeRate):
		return invalid("modulation.spike_rate", m.SpikeRate, "must be finite")
	}
	if m.Mode == ModeSpring {
		if !finite(m.SpringFrequency) || m.SpringFrequency <= 0 {
			return invalid("modulation.spring_frequency", m.SpringFrequency, "must be positive")
		}
		if !finite(m.SpringDamping) || m.SpringDamping < 0 {
			return invalid("modulation.spring_damping", m.SpringDamping, "must be non-negative")
		}
	}
	return nil
}

// Validate checks the signal source and analyser parameters.
func (s SignalConfig) Validate() error {
	switch s.Source {
	case "", SourceNone:
		return nil
	case SourcePulse:
	case SourceWAV:
		if s.File == "" {
			return invalid("signal.file", s.File, "required for wav source")
		}
	default:
		return invalid("signal.source", s.Source, "must be none, pulse or wav")
	}
	switch {
	case s.SampleRate <= 0:
		return invalid("signal.sample_rate", s.SampleRate, "must be positive")
	case s.FFTSize < 32 || s.FFTSize&(s.FFTSize-1) != 0:
		return invalid("signal.fft_size", s.FFTSize, "must be a power of two >= 32")
	case s.Smoothing < 0 || s.Smoothing >= 1:
		return invalid("signal.smoothing", s.Smoothing, "must be in [0, 1)")
	case s.MinDecibels >= s.MaxDecibels:
		return invalid("signal.min_decibels", s.MinDecibels, "must be below max_decibels")
	case s.Bin < 0 || s.Bin >= s.FFTSize/2:
		return invalid("signal.bin", s.Bin, "must index a frequency bin")
	}
	return nil
}
