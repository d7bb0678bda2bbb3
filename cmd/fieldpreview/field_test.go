package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/rng"
	"github.com/pthm-cable/spherefield/systems"
)

func TestSampleMatchesEngineField(t *testing.T) {
	sim := config.Default().Simulation
	sim.Seed = "preview"
	p := paramsFromConfig(sim)

	grid, err := p.Sample(sim, 16, 8)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	field, err := systems.BuildVectorField(rng.New("preview"), sim)
	if err != nil {
		t.Fatalf("BuildVectorField: %v", err)
	}
	want := SampleGrid(field, sim.Radius, 16, 8)
	for i := range grid.Dir {
		if grid.Dir[i] != want.Dir[i] {
			t.Fatalf("cell %d: got %v, want %v", i, grid.Dir[i], want.Dir[i])
		}
	}
	for i, d := range grid.Dir {
		if n := r2.Norm(d); math.Abs(n-1) > 1e-9 {
			t.Errorf("cell %d has norm %v, want unit", i, n)
		}
	}
}

func TestSampleRejectsInvalid(t *testing.T) {
	sim := config.Default().Simulation
	p := paramsFromConfig(sim)
	p.Radius = 0
	if _, err := p.Sample(sim, 4, 2); err == nil {
		t.Error("expected error for zero radius")
	}
}

func TestTurns(t *testing.T) {
	uniform := &FieldGrid{W: 3, H: 1, Dir: []r2.Vec{{X: 1}, {X: 1}, {X: 1}}}
	if got := uniform.MaxTurn(); got != 0 {
		t.Errorf("uniform MaxTurn = %v, want 0", got)
	}
	quarter := &FieldGrid{W: 3, H: 1, Dir: []r2.Vec{{X: 1}, {Y: 1}, {Y: 1}}}
	if got := quarter.MaxTurn(); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("MaxTurn = %v, want pi/2", got)
	}
	if got := quarter.MeanTurn(); math.Abs(got-math.Pi/4) > 1e-12 {
		t.Errorf("MeanTurn = %v, want pi/4", got)
	}
}

func TestNextBackend(t *testing.T) {
	if got := nextBackend("perlin"); got != "simplex" {
		t.Errorf("nextBackend(perlin) = %q", got)
	}
	if got := nextBackend("simplex"); got != "perlin" {
		t.Errorf("nextBackend(simplex) = %q", got)
	}
}
