package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/rng"
)

// constSource returns the same noise value everywhere.
type constSource float64

func (c constSource) Sample3(_, _, _ float64) float64 { return float64(c) }

// recordSource records the coordinates it was sampled at.
type recordSource struct{ x, y, z float64 }

func (r *recordSource) Sample3(x, y, z float64) float64 {
	r.x, r.y, r.z = x, y, z
	return 0
}

func TestVectorFieldAngle(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		scale float64
		wantX float64
		wantY float64
	}{
		{"zero", 0, math.Pi, 1, 0},
		{"half", 0.5, math.Pi, 0, 1},
		{"max", 1, math.Pi, -1, 0},
		{"min", -1, math.Pi, -1, 0},
		{"negative half", -0.5, math.Pi, 0, -1},
		{"two pi scale", 0.25, 2 * math.Pi, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewVectorField(constSource(tt.value), 1, tt.scale)
			v := f(3, 4, 5)
			if math.Abs(v.X-tt.wantX) > 1e-12 || math.Abs(v.Y-tt.wantY) > 1e-12 {
				t.Errorf("field = %v, want (%v, %v)", v, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestVectorFieldResolution(t *testing.T) {
	src := &recordSource{}
	f := NewVectorField(src, 0.1, math.Pi)
	f(10, 20, -30)
	if math.Abs(src.x-1) > 1e-12 || math.Abs(src.y-2) > 1e-12 || math.Abs(src.z+3) > 1e-12 {
		t.Errorf("sampled at (%v, %v, %v), want (1, 2, -3)", src.x, src.y, src.z)
	}
}

func TestBuildVectorField(t *testing.T) {
	cfg := testConfig()
	for _, backend := range []string{"perlin", "simplex"} {
		t.Run(backend, func(t *testing.T) {
			cfg.Noise.Backend = backend
			a, err := BuildVectorField(rng.New("field"), cfg)
			if err != nil {
				t.Fatal(err)
			}
			b, err := BuildVectorField(rng.New("field"), cfg)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 100; i++ {
				x, y, z := float64(i)*1.3, float64(i)*-0.7, float64(i)*2.1
				va, vb := a(x, y, z), b(x, y, z)
				if va != vb {
					t.Fatalf("equal seeds differ at %d: %v != %v", i, va, vb)
				}
				if va != a(x, y, z) {
					t.Fatal("field is not pure")
				}
				if n := math.Hypot(va.X, va.Y); math.Abs(n-1) > 1e-12 {
					t.Fatalf("|field| = %v, want 1", n)
				}
			}
		})
	}
}

func TestBuildVectorFieldConsumesOneDraw(t *testing.T) {
	r := rng.New("draws")
	if _, err := BuildVectorField(r, testConfig()); err != nil {
		t.Fatal(err)
	}
	got := r.Float64()

	ref := rng.New("draws")
	ref.Float64()
	if want := ref.Float64(); got != want {
		t.Errorf("next draw = %v, want %v", got, want)
	}
}

func TestBuildVectorFieldFractal(t *testing.T) {
	cfg := testConfig()
	cfg.Noise = config.NoiseConfig{Backend: "perlin", Octaves: 3, Lacunarity: 2, Gain: 0.5}
	f, err := BuildVectorField(rng.New("fbm"), cfg)
	if err != nil {
		t.Fatal(err)
	}
	v := f(1.5, 2.5, 3.5)
	if n := math.Hypot(v.X, v.Y); math.Abs(n-1) > 1e-12 {
		t.Errorf("|field| = %v, want 1", n)
	}
}

func TestBuildVectorFieldUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Noise.Backend = "cellular"
	if _, err := BuildVectorField(rng.New("x"), cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}
