package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/telemetry"
)

func TestApplyToConfigMatchesExtract(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	want := pv.DefaultVector()
	want[0] = 0.05
	pv.ApplyToConfig(cfg, want)

	got := pv.ExtractFromConfig(cfg)
	if len(got) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(got), pv.Dim())
	}
	for i, spec := range pv.Specs {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", spec.Name, got[i], want[i])
		}
	}
	if err := cfg.Simulation.Validate(); err != nil {
		t.Errorf("applied defaults are invalid: %v", err)
	}
}

func TestClampBounds(t *testing.T) {
	pv := NewParamVector()
	low := make([]float64, pv.Dim())
	high := make([]float64, pv.Dim())
	for i := range low {
		low[i] = -1e9
		high[i] = 1e9
	}
	for i, v := range pv.Clamp(low) {
		if v != pv.Specs[i].Min {
			t.Errorf("%s clamped to %v, want %v", pv.Specs[i].Name, v, pv.Specs[i].Min)
		}
	}
	for i, v := range pv.Clamp(high) {
		if v != pv.Specs[i].Max {
			t.Errorf("%s clamped to %v, want %v", pv.Specs[i].Name, v, pv.Specs[i].Max)
		}
	}
}

func TestComputeQuality(t *testing.T) {
	fe := &FitnessEvaluator{targets: Targets{SpeedMean: 0.05, RespawnRate: 0.001}}
	onTarget := telemetry.WindowStats{SpeedMean: 0.05, RespawnRate: 0.001}
	stalled := telemetry.WindowStats{SpeedMean: 0.0, RespawnRate: 0, FaceCV: 1}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"too few windows", []telemetry.WindowStats{onTarget, onTarget}, 0},
		{"on target", []telemetry.WindowStats{stalled, stalled, onTarget, onTarget, onTarget}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fe.computeQuality(tt.windows)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeQuality = %v, want %v", got, tt.want)
			}
		})
	}

	off := fe.computeQuality([]telemetry.WindowStats{onTarget, onTarget, stalled, stalled, stalled})
	if off >= 0.5 {
		t.Errorf("stalled flow scored %v, want < 0.5", off)
	}
}

func TestCV(t *testing.T) {
	if got := cv([]float64{2, 2, 2}); got != 0 {
		t.Errorf("cv of constant series = %v, want 0", got)
	}
	if got := cv([]float64{1, 3}); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("cv = %v, want 0.5", got)
	}
}
