// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Modulation ModulationConfig `yaml:"modulation"`
	Signal     SignalConfig     `yaml:"signal"`
	Palette    PaletteConfig    `yaml:"palette"`
	Camera     CameraConfig     `yaml:"camera"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	Fade      float64 `yaml:"fade"` // Trail fade alpha per frame (1 = clear every frame)
}

// SimulationConfig is the immutable configuration of the particle engine.
type SimulationConfig struct {
	Seed              string  `yaml:"seed"`               // Empty = random seed
	Particles         int     `yaml:"particles"`          // Population size, fixed for the run
	Radius            float64 `yaml:"radius"`             // Sphere radius R
	Resolution        float64 `yaml:"resolution"`         // Noise sampling resolution k
	Friction          float64 `yaml:"friction"`           // Velocity damping per step, in [0, 1)
	DormancyThreshold float64 `yaml:"dormancy_threshold"` // Speed below which a particle respawns
	Coupling          float64 `yaml:"coupling"`           // Field coupling strength alpha
	AngleScale        float64 `yaml:"angle_scale"`        // Noise value to angle multiplier
	RotationSpeed     float64 `yaml:"rotation_speed"`     // Azimuthal drift in radians per unit time
	Jitter            float64 `yaml:"jitter"`             // Per-step random velocity perturbation
	DeltaTime         float64 `yaml:"delta_time"`         // Time step handed to each update
	Workers           int     `yaml:"workers"`            // Update workers (0 = GOMAXPROCS)

	Noise           NoiseConfig           `yaml:"noise"`
	InitialVelocity InitialVelocityConfig `yaml:"initial_velocity"`
}

// NoiseConfig selects the coherent-noise backend.
type NoiseConfig struct {
	Backend    string  `yaml:"backend"`    // perlin | simplex
	Octaves    int     `yaml:"octaves"`    // fBm octaves (1 = plain backend)
	Lacunarity float64 `yaml:"lacunarity"` // Frequency multiplier per octave
	Gain       float64 `yaml:"gain"`       // Amplitude multiplier per octave
}

// InitialVelocityConfig shapes the velocity of new particles.
// Each component is drawn as rand*spread - spread/2 + rand*bias.
type InitialVelocityConfig struct {
	Spread float64 `yaml:"spread"`
	Bias   float64 `yaml:"bias"`
}

// ModulationConfig holds the external-signal coupling.
type ModulationConfig struct {
	Mode            string  `yaml:"mode"`             // none | pulse | spring
	PulseFactor     float64 `yaml:"pulse_factor"`     // Radius gain per unit signal
	SpikeFactor     float64 `yaml:"spike_factor"`     // Additive spike amplitude
	SpikeRate       float64 `yaml:"spike_rate"`       // Spike oscillation per step
	SpringFrequency float64 `yaml:"spring_frequency"` // Angular frequency of the smoothing spring
	SpringDamping   float64 `yaml:"spring_damping"`   // Damping ratio (>= 1 never overshoots)
}

// SignalConfig holds audio signal source and analyser parameters.
type SignalConfig struct {
	Source         string  `yaml:"source"` // none | pulse | wav
	File           string  `yaml:"file"`
	SampleRate     int     `yaml:"sample_rate"`
	FFTSize        int     `yaml:"fft_size"`
	Smoothing      float64 `yaml:"smoothing"` // Time constant between analyser frames
	MinDecibels    float64 `yaml:"min_decibels"`
	MaxDecibels    float64 `yaml:"max_decibels"`
	Bin            int     `yaml:"bin"`             // Frequency bin used as amplitude proxy
	ToneFrequency  float64 `yaml:"tone_frequency"`  // Pulse source carrier in Hz
	BeatsPerMinute float64 `yaml:"beats_per_minute"` // Pulse source envelope rate
}

// PaletteConfig holds colour settings for the renderer.
type PaletteConfig struct {
	Name       string  `yaml:"name"`
	Cycle      float64 `yaml:"cycle"`      // Steps per full palette sweep
	Background string  `yaml:"background"` // Hex colour
}

// CameraConfig holds the orbit camera settings.
type CameraConfig struct {
	Distance   float64 `yaml:"distance"`
	FovY       float64 `yaml:"fov_y"`
	OrbitSpeed float64 `yaml:"orbit_speed"` // Radians per second of auto orbit
	PointSize  float64 `yaml:"point_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Steps per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameSeconds float64 // 1 / Screen.TargetFPS
	ScreenW32    float32
	ScreenH32    float32
	Headroom     float64 // Largest effective radius the modulation can produce
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.FrameSeconds = 1.0 / float64(fps)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.Headroom = c.Simulation.Radius
	if c.Modulation.Mode != ModePlain {
		c.Derived.Headroom = c.Simulation.Radius*(1+c.Modulation.PulseFactor) + c.Modulation.SpikeFactor
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
