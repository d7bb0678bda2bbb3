package systems

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/pthm-cable/spherefield/config"
)

// Modulation is the per-step result of coupling the external signal.
type Modulation struct {
	Radius    float64 // Effective sphere radius for this step
	Intensity float64 // Colour intensity in [0, 1] for the renderer
}

// Modulator turns the base radius and a normalised signal sample in [0, 1]
// into the step's modulation. Implementations must return a positive radius.
type Modulator interface {
	Modulate(radius, signal float64, step uint64) Modulation
}

// Resetter is implemented by modulators that carry state between steps.
type Resetter interface {
	Reset()
}

// NoModulation ignores the signal.
type NoModulation struct{}

// Modulate returns the base radius.
func (NoModulation) Modulate(radius, _ float64, _ uint64) Modulation {
	return Modulation{Radius: radius}
}

// PulseModulator inflates the sphere with the signal and adds a small
// oscillating spike on top:
//
//	R_eff = R*(1 + s*Pulse) + Spike*s*(0.5 + 0.5*sin(step*SpikeRate))
type PulseModulator struct {
	Pulse     float64
	Spike     float64
	SpikeRate float64
}

// Modulate applies the pulse.
func (m PulseModulator) Modulate(radius, s float64, step uint64) Modulation {
	spike := m.Spike * s * (0.5 + 0.5*math.Sin(float64(step)*m.SpikeRate))
	return Modulation{
		Radius:    radius*(1+s*m.Pulse) + spike,
		Intensity: s,
	}
}

// SpringModulator smooths the signal through a damped spring before handing
// it to the inner modulator, so the sphere breathes instead of flickering.
type SpringModulator struct {
	Inner Modulator

	spring   harmonica.Spring
	pos, vel float64
}

// NewSpringModulator creates a spring stepped once per update at fps.
func NewSpringModulator(inner Modulator, fps int, frequency, damping float64) *SpringModulator {
	if fps <= 0 {
		fps = 60
	}
	return &SpringModulator{
		Inner:  inner,
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// Modulate advances the spring toward the signal and modulates with the
// smoothed value.
func (m *SpringModulator) Modulate(radius, signal float64, step uint64) Modulation {
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, signal)
	// An underdamped spring overshoots its target
	return m.Inner.Modulate(radius, clamp01(m.pos), step)
}

// Reset returns the spring to rest at zero.
func (m *SpringModulator) Reset() {
	m.pos, m.vel = 0, 0
	if r, ok := m.Inner.(Resetter); ok {
		r.Reset()
	}
}

// NewModulator builds the modulator named by cfg.Mode.
func NewModulator(cfg config.ModulationConfig, fps int) (Modulator, error) {
	pulse := PulseModulator{Pulse: cfg.PulseFactor, Spike: cfg.SpikeFactor, SpikeRate: cfg.SpikeRate}
	switch cfg.Mode {
	case "", config.ModePlain:
		return NoModulation{}, nil
	case config.ModePulse:
		return pulse, nil
	case config.ModeSpring:
		return NewSpringModulator(pulse, fps, cfg.SpringFrequency, cfg.SpringDamping), nil
	default:
		return nil, fmt.Errorf("unknown modulation mode %q", cfg.Mode)
	}
}

func clamp01(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
