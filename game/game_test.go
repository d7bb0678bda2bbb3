package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/signal"
	"github.com/pthm-cable/spherefield/telemetry"
)

func newHeadless(t *testing.T, seed string, opts Options) *Game {
	t.Helper()
	cfg := config.Default()
	cfg.Simulation.Particles = 300
	cfg.Simulation.Workers = 1
	opts.Seed = seed
	opts.Headless = true
	opts.Config = cfg
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(g.Unload)
	return g
}

func run(t *testing.T, g *Game, updates int) {
	t.Helper()
	for range updates {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatalf("tick %d: %v", g.Tick(), err)
		}
	}
}

func samePopulation(t *testing.T, a, b *Game) {
	t.Helper()
	pa, pb := a.Engine().Population(), b.Engine().Population()
	if pa.Len() != pb.Len() {
		t.Fatalf("population sizes %d and %d", pa.Len(), pb.Len())
	}
	for i := range pa.Len() {
		if pa.At(i) != pb.At(i) {
			t.Fatalf("particle %d differs: %+v vs %+v", i, pa.At(i), pb.At(i))
		}
	}
	if a.Engine().EffectiveRadius() != b.Engine().EffectiveRadius() {
		t.Fatalf("effective radius %v vs %v", a.Engine().EffectiveRadius(), b.Engine().EffectiveRadius())
	}
}

func TestHeadlessRunWritesTelemetry(t *testing.T) {
	dir := t.TempDir()
	var windows []telemetry.WindowStats
	g := newHeadless(t, "headless", Options{
		StatsWindow:    10,
		OutputDir:      dir,
		StepsPerUpdate: 2,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	run(t, g, 25)
	if g.Tick() != 50 {
		t.Fatalf("Tick() = %d, want 50", g.Tick())
	}
	if len(windows) != 5 {
		t.Fatalf("got %d windows, want 5", len(windows))
	}
	for i, w := range windows {
		if w.WindowEndTick != int32(10*(i+1)) {
			t.Errorf("window %d ends at %d", i, w.WindowEndTick)
		}
		if w.Seed != "headless" || w.Particles != 300 {
			t.Errorf("window %d: seed %q particles %d", i, w.Seed, w.Particles)
		}
	}
	last, ok := g.LastStats()
	if !ok || last.WindowEndTick != 50 {
		t.Errorf("LastStats() = %+v, %v", last, ok)
	}

	g.outputManager.Close()
	g.outputManager = nil
	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if rows := strings.Count(strings.TrimSpace(string(data)), "\n"); rows != 5 {
		t.Errorf("telemetry.csv has %d data rows, want 5", rows)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestHeadlessDeterminism(t *testing.T) {
	a := newHeadless(t, "same", Options{})
	b := newHeadless(t, "same", Options{StepsPerUpdate: 3})
	run(t, a, 30)
	run(t, b, 10)
	samePopulation(t, a, b)
	if a.Level() != b.Level() {
		t.Errorf("signal level %v vs %v", a.Level(), b.Level())
	}
}

func TestReseedMatchesFreshGame(t *testing.T) {
	a := newHeadless(t, "first", Options{})
	run(t, a, 20)
	if err := a.Reseed("second"); err != nil {
		t.Fatal(err)
	}
	if a.Tick() != 0 {
		t.Fatalf("Tick() after reseed = %d", a.Tick())
	}
	run(t, a, 15)

	b := newHeadless(t, "second", Options{})
	run(t, b, 15)
	samePopulation(t, a, b)
}

func TestRandomReseed(t *testing.T) {
	g := newHeadless(t, "fixed", Options{})
	if err := g.Reseed(""); err != nil {
		t.Fatal(err)
	}
	if g.Engine().Seed() == "" {
		t.Error("random reseed left an empty seed")
	}
}

func TestSnapshotRestore(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, "snap", Options{SnapshotDir: dir})
	run(t, g, 12)
	g.saveSnapshot(nil)

	matches, err := filepath.Glob(filepath.Join(dir, "snapshot_12*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("snapshot files = %v, %v", matches, err)
	}
	snap, err := telemetry.LoadSnapshot(matches[0])
	if err != nil {
		t.Fatal(err)
	}

	other := newHeadless(t, "other", Options{})
	if err := other.Engine().Restore(snap.Population(), snap.EffectiveRadius); err != nil {
		t.Fatal(err)
	}
	samePopulation(t, g, other)
}

func TestPaletteCycling(t *testing.T) {
	g := newHeadless(t, "colors", Options{})
	start := g.paletteName
	seen := map[string]bool{start: true}
	for range 20 {
		g.nextPalette()
		seen[g.paletteName] = true
	}
	if len(seen) < 10 {
		t.Errorf("cycled through %d palettes, want all 10", len(seen))
	}

	c := g.currentColor()
	if !c.IsValid() {
		t.Errorf("currentColor() = %v is not a valid colour", c)
	}
}

func TestNewGameRejectsBadPalette(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Particles = 10
	cfg.Palette.Name = "nope"
	if _, err := NewGameWithOptions(Options{Headless: true, Seed: "x", Config: cfg}); err == nil {
		t.Fatal("NewGameWithOptions accepted an unknown palette")
	}
}

func TestSignalErrorStopsStep(t *testing.T) {
	g := newHeadless(t, "boundary", Options{StepsPerUpdate: 3})
	run(t, g, 2)
	before := g.Engine().Population().Snapshot(nil)
	tick := g.Tick()

	// A monitor reading past the last frequency bin fails at the boundary
	sigCfg := config.Default().Signal
	sigCfg.Bin = sigCfg.FFTSize
	m, err := signal.NewMonitor(sigCfg)
	if err != nil {
		t.Fatal(err)
	}
	g.monitor.Close()
	g.monitor = m

	err = g.UpdateHeadless()
	if !errors.Is(err, signal.ErrShortSignal) {
		t.Fatalf("UpdateHeadless error = %v, want ErrShortSignal", err)
	}
	if g.Tick() != tick {
		t.Errorf("tick advanced to %d after a signal error, want %d", g.Tick(), tick)
	}
	for i, p := range g.Engine().Population().All() {
		if p != before[i] {
			t.Fatalf("particle %d moved after a signal error", i)
		}
	}
}

func TestSnapshotFallsBackToOutputDir(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, "out", Options{OutputDir: dir})
	run(t, g, 3)
	g.saveSnapshot(nil)

	matches, err := filepath.Glob(filepath.Join(dir, "snapshots", "snapshot_3.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("snapshot files = %v, %v", matches, err)
	}
}
