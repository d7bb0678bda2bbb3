package rng

import (
	"strconv"
	"sync"
	"testing"
)

func draw(r *Random, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Float64()
	}
	return out
}

func TestSameSeedSameSequence(t *testing.T) {
	a := draw(New("42"), 100)
	b := draw(New("42"), 100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := draw(New("42"), 10)
	b := draw(New("43"), 10)
	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("seeds 42 and 43 produced identical sequences")
	}
}

func TestSeedFromIntMatchesString(t *testing.T) {
	a := draw(New(SeedFromInt(1234)), 20)
	b := draw(New("1234"), 20)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestRange(t *testing.T) {
	r := New("range")
	for i := 0; i < 100000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, v)
		}
	}
}

func TestUniformMean(t *testing.T) {
	r := New("mean")
	const n = 200000
	var sum float64
	for i := 0; i < n; i++ {
		sum += r.Float64()
	}
	if mean := sum / n; mean < 0.49 || mean > 0.51 {
		t.Errorf("mean = %v, want ~0.5", mean)
	}
}

func TestReset(t *testing.T) {
	r := New("reset")
	first := draw(r, 5)
	draw(r, 17)
	r.Reset()
	if r.Seed() != "reset" {
		t.Errorf("Reset changed seed to %q", r.Seed())
	}
	again := draw(r, 5)
	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("draw %d after reset: %v != %v", i, again[i], first[i])
		}
	}
}

func TestSetSeedHasNoCarryOver(t *testing.T) {
	r := New("a")
	draw(r, 33)
	r.SetSeed("b")
	got := draw(r, 10)
	want := draw(New("b"), 10)
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("draw %d: %v != %v", i, got[i], want[i])
		}
	}
}

func TestNewSeed(t *testing.T) {
	r := New("fixed")
	seed := r.NewSeed()
	if r.Seed() != seed {
		t.Errorf("Seed() = %q, want %q", r.Seed(), seed)
	}
	n, err := strconv.ParseInt(string(seed), 10, 64)
	if err != nil {
		t.Fatalf("seed %q is not an integer: %v", seed, err)
	}
	if n < 0 || n > maxRandomSeed {
		t.Errorf("seed %d out of range", n)
	}
	got := draw(r, 5)
	want := draw(New(seed), 5)
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("draw %d: %v != %v", i, got[i], want[i])
		}
	}
}

func TestEmptySeedIsRandom(t *testing.T) {
	r := New("")
	if r.Seed() == "" {
		t.Error("empty seed was not replaced")
	}
}

func TestConcurrentDraws(t *testing.T) {
	r := New("concurrent")
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if v := r.Float64(); v < 0 || v >= 1 {
					t.Errorf("out of range: %v", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}
