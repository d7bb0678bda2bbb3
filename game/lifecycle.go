package game

import (
	"log/slog"

	"github.com/pthm-cable/spherefield/rng"
	"github.com/pthm-cable/spherefield/signal"
)

// Reseed restarts the run with seed, or a fresh random seed when seed is
// empty. The field, population and modulator state are rebuilt; telemetry
// starts a new window, the signal restarts from its beginning and trails
// are cleared.
func (g *Game) Reseed(seed string) error {
	s := rng.Seed(seed)
	if seed == "" {
		s = g.rand.NewSeed()
	}
	monitor, err := signal.NewMonitor(g.cfg.Signal)
	if err != nil {
		return err
	}
	if err := g.engine.Reseed(s); err != nil {
		monitor.Close()
		return err
	}
	if err := g.monitor.Close(); err != nil {
		slog.Warn("closing signal", "error", err)
	}
	g.monitor = monitor

	g.tick = 0
	g.step = 0
	g.level = 0
	g.haveStats = false
	g.collector.Reset(0, string(s))
	g.bookmarkDetector.Reset()
	if g.trails != nil {
		g.trails.Clear()
	}
	if g.inspector != nil {
		g.inspector.Deselect()
	}

	slog.Info("reseed", "seed", string(s), "particles", g.engine.Population().Len())
	return nil
}
