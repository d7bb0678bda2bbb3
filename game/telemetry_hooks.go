package game

import (
	"log/slog"

	"github.com/pthm-cable/spherefield/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.engine)
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats
	g.haveStats = true

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if g.snapshotDir != "" || g.outputManager != nil {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the population to the snapshot directory, else the
// run's output directory, else ./snapshots. b may be nil for a manual
// snapshot.
func (g *Game) saveSnapshot(b *telemetry.Bookmark) {
	snap := telemetry.NewSnapshot(g.engine, g.tick, b)
	var path string
	var err error
	switch {
	case g.snapshotDir != "":
		path, err = telemetry.SaveSnapshot(snap, g.snapshotDir)
	case g.outputManager != nil:
		path, err = g.outputManager.WriteSnapshot(snap)
	default:
		path, err = telemetry.SaveSnapshot(snap, "snapshots")
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}
