package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guptarohit/asciigraph"

	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/game"
	"github.com/pthm-cable/spherefield/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in steps (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.String("seed", "", "Seed string (empty = config, then random)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	audio := flag.Bool("audio", false, "Play the signal source on the speaker")
	plot := flag.Bool("plot", true, "Print a speed and respawn summary after a headless run")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindow:    *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Audio:          *audio,
	}

	if *headless {
		var history summary
		opts.StatsCallback = history.record
		if err := runHeadless(opts, *maxTicks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		if *plot {
			history.print()
		}
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "spherefield")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			slog.Error("simulation stopped", "error", err)
			return
		}
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the simulation until maxTicks or an interrupt.
func runHeadless(opts game.Options, maxTicks int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", string(g.Engine().Seed()),
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for ctx.Err() == nil {
		if err := g.UpdateHeadless(); err != nil {
			return err
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return nil
		}
	}
	slog.Info("interrupted", "tick", g.Tick())
	return nil
}

// summary keeps the headline series of every stats window.
type summary struct {
	speed    []float64
	respawns []float64
	signal   []float64
}

func (s *summary) record(w telemetry.WindowStats) {
	s.speed = append(s.speed, w.SpeedMean)
	s.respawns = append(s.respawns, w.RespawnRate)
	s.signal = append(s.signal, w.SignalMean)
}

func (s *summary) print() {
	if len(s.speed) < 2 {
		return
	}
	charts := []struct {
		caption string
		data    []float64
	}{
		{"mean speed per window", s.speed},
		{"respawns per particle per tick", s.respawns},
		{"mean signal level", s.signal},
	}
	for _, c := range charts {
		fmt.Fprintln(os.Stderr, asciigraph.Plot(c.data,
			asciigraph.Height(6),
			asciigraph.Width(60),
			asciigraph.Caption(c.caption),
		))
		fmt.Fprintln(os.Stderr)
	}
}
