package systems

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spherefield/components"
	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/rng"
)

var testVelocity = config.InitialVelocityConfig{Spread: 0.1, Bias: 0.05}

func TestResampleUniformOnSphere(t *testing.T) {
	s := NewSpawner(rng.New("uniform"), testVelocity)

	const n = 60000
	var faces [6]int
	var sumZ, sumX float64
	for i := 0; i < n; i++ {
		p := s.Resample()
		c := ToCartesian(p.Position, 1)
		sumZ += c.Z
		sumX += c.X
		faces[s2.CellFromPoint(s2.PointFromCoords(c.X, c.Y, c.Z)).ID().Face()]++
	}

	// Each cube face covers exactly a sixth of the sphere
	want := n / 6
	for f, count := range faces {
		if math.Abs(float64(count-want)) > 0.05*float64(want) {
			t.Errorf("face %d: %d samples, want ~%d", f, count, want)
		}
	}
	if m := sumZ / n; math.Abs(m) > 0.02 {
		t.Errorf("mean z = %v, want ~0", m)
	}
	if m := sumX / n; math.Abs(m) > 0.02 {
		t.Errorf("mean x = %v, want ~0", m)
	}
}

func TestResampleVelocity(t *testing.T) {
	s := NewSpawner(rng.New("velocity"), testVelocity)
	// Raw components lie in [-spread/2, spread/2 + bias)
	maxRaw := math.Sqrt(3) * (testVelocity.Spread/2 + testVelocity.Bias)

	for i := 0; i < 10000; i++ {
		p := s.Resample()
		speed := p.Speed()
		if speed > maxRaw {
			t.Fatalf("speed %v exceeds initial range %v", speed, maxRaw)
		}
		n := SurfaceNormal(p.Position)
		if d := math.Abs(r3.Dot(p.Velocity, n)); d > 1e-12 {
			t.Fatalf("new particle not tangent: v.n = %v", d)
		}
		if p.Position.Phi < 0 || p.Position.Phi > math.Pi {
			t.Fatalf("phi %v out of range", p.Position.Phi)
		}
	}
}

func TestResampleDeterministic(t *testing.T) {
	a := NewSpawner(rng.New("same"), testVelocity)
	b := NewSpawner(rng.New("same"), testVelocity)
	for i := 0; i < 100; i++ {
		if pa, pb := a.Resample(), b.Resample(); pa != pb {
			t.Fatalf("draw %d: %+v != %+v", i, pa, pb)
		}
	}
}

func TestResampleDrawOrder(t *testing.T) {
	// theta, phi, then two draws per velocity component
	r := rng.New("order")
	s := NewSpawner(r, config.InitialVelocityConfig{})
	p := s.Resample()

	ref := rng.New("order")
	theta := ref.Float64() * 2 * math.Pi
	phi := math.Acos(2*ref.Float64() - 1)
	if p.Position.Theta != theta || p.Position.Phi != phi {
		t.Errorf("position = %+v, want theta %v phi %v", p.Position, theta, phi)
	}
	for i := 0; i < 6; i++ {
		ref.Float64()
	}
	if got, want := r.Float64(), ref.Float64(); got != want {
		t.Errorf("resample consumed a different number of draws")
	}
	if p.Velocity != (r3.Vec{}) {
		t.Errorf("zero spread and bias gave velocity %v", p.Velocity)
	}
}

func TestPopulationAccess(t *testing.T) {
	pop := NewPopulation(4)
	s := NewSpawner(rng.New("pop"), testVelocity)
	pop.fill(s.Resample)

	if pop.Len() != 4 {
		t.Fatalf("Len = %d, want 4", pop.Len())
	}

	count := 0
	for i, p := range pop.All() {
		if p != pop.At(i) {
			t.Errorf("All()[%d] != At(%d)", i, i)
		}
		count++
	}
	if count != 4 {
		t.Errorf("All yielded %d particles, want 4", count)
	}

	snap := pop.Snapshot(nil)
	snap[0] = components.Particle{}
	if pop.At(0) == snap[0] {
		t.Error("Snapshot aliases population storage")
	}
}
