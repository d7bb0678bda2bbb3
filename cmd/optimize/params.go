// Package main provides CMA-ES optimization for spherefield engine parameters.
package main

import (
	"github.com/pthm-cable/spherefield/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "coupling", Path: "simulation.coupling", Min: 0.001, Max: 0.1, Default: 0.01},
			{Name: "friction", Path: "simulation.friction", Min: 0.0, Max: 0.1, Default: 0.01},
			{Name: "dormancy_threshold", Path: "simulation.dormancy_threshold", Min: 0.001, Max: 0.05, Default: 0.01},
			{Name: "resolution", Path: "simulation.resolution", Min: 0.01, Max: 0.5, Default: 0.1},
			{Name: "jitter", Path: "simulation.jitter", Min: 0.0, Max: 0.02, Default: 0.0},
			// Initial velocity shapes how long a fresh particle survives
			{Name: "initial_spread", Path: "simulation.initial_velocity.spread", Min: 0.0, Max: 0.5, Default: 0.1},
			{Name: "initial_bias", Path: "simulation.initial_velocity.bias", Min: 0.0, Max: 0.2, Default: 0.05},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	sim := &cfg.Simulation

	i := 0
	sim.Coupling = clamped[i]; i++
	sim.Friction = clamped[i]; i++
	sim.DormancyThreshold = clamped[i]; i++
	sim.Resolution = clamped[i]; i++
	sim.Jitter = clamped[i]; i++
	sim.InitialVelocity.Spread = clamped[i]; i++
	sim.InitialVelocity.Bias = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	sim := cfg.Simulation
	return []float64{
		sim.Coupling,
		sim.Friction,
		sim.DormancyThreshold,
		sim.Resolution,
		sim.Jitter,
		sim.InitialVelocity.Spread,
		sim.InitialVelocity.Bias,
	}
}
