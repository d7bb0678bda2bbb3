// Package game drives the particle engine frame by frame: it feeds the
// signal, steps the engine, collects telemetry and, unless headless, draws
// the sphere and its UI.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/spherefield/camera"
	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/inspector"
	"github.com/pthm-cable/spherefield/palette"
	"github.com/pthm-cable/spherefield/renderer"
	"github.com/pthm-cable/spherefield/rng"
	"github.com/pthm-cable/spherefield/signal"
	"github.com/pthm-cable/spherefield/signal/playback"
	"github.com/pthm-cable/spherefield/systems"
	"github.com/pthm-cable/spherefield/telemetry"
	"github.com/pthm-cable/spherefield/ui"
)

// Game holds the complete run state.
type Game struct {
	cfg    *config.Config
	rand   *rng.Random
	engine *systems.Engine

	// Signal
	monitor *signal.Monitor
	player  *playback.Player
	level   float64

	// Colour
	paletteName string
	gradient    palette.Gradient
	background  colorful.Color

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	snapshotDir      string
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	// Rendering (nil when headless)
	camera    *camera.Camera
	trails    *renderer.TrailBuffer
	particles *renderer.ParticleRenderer
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	overlays  *ui.OverlayRegistry
	inspector *inspector.Inspector

	// State
	tick           int32
	step           uint64
	paused         bool
	headless       bool
	stepsPerUpdate int
	lastStats      telemetry.WindowStats
	haveStats      bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions builds a game from opts.Config, or the global
// configuration when it is nil. Windowed games must be created after the
// raylib window.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	simCfg := cfg.Simulation
	if opts.Seed != "" {
		simCfg.Seed = opts.Seed
	}

	g := &Game{
		cfg:            cfg,
		rand:           rng.New(rng.Seed(simCfg.Seed)),
		headless:       opts.Headless,
		stepsPerUpdate: opts.stepsPerUpdate(),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	modulator, err := systems.NewModulator(cfg.Modulation, cfg.Screen.TargetFPS)
	if err != nil {
		return nil, err
	}
	g.engine, err = systems.NewEngine(simCfg, g.rand, systems.WithModulator(modulator))
	if err != nil {
		return nil, err
	}
	g.engine.Init()

	if err := g.initSignal(opts.Audio); err != nil {
		g.engine.Close()
		return nil, err
	}
	if err := g.setPalette(cfg.Palette.Name); err != nil {
		g.Unload()
		return nil, err
	}
	g.background, err = colorful.Hex(cfg.Palette.Background)
	if err != nil {
		g.Unload()
		return nil, fmt.Errorf("palette background: %w", err)
	}

	if err := g.initTelemetry(opts); err != nil {
		g.Unload()
		return nil, err
	}

	if !g.headless {
		g.initRendering()
	}

	g.logRunStart()
	return g, nil
}

func (g *Game) initSignal(audio bool) error {
	var err error
	g.monitor, err = signal.NewMonitor(g.cfg.Signal)
	if err != nil {
		return fmt.Errorf("opening signal: %w", err)
	}
	if audio && !g.headless {
		g.player, err = playback.Play(g.cfg.Signal)
		if err != nil {
			// Silent playback still leaves the analysed signal driving the run
			slog.Warn("audio playback unavailable", "error", err)
			g.player = nil
		}
	}
	return nil
}

func (g *Game) initTelemetry(opts Options) error {
	window := g.cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		window = opts.StatsWindow
	}
	g.collector = telemetry.NewCollector(int32(window), g.cfg.Derived.FrameSeconds)
	g.collector.Reset(0, string(g.engine.Seed()))
	g.perfCollector = telemetry.NewPerfCollector(g.cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return err
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	g.snapshotDir = opts.SnapshotDir
	return nil
}

func (g *Game) initRendering() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)
	g.camera = camera.New(float64(w), float64(h), g.cfg.Camera.Distance, g.cfg.Camera.FovY)
	g.camera.OrbitSpeed = g.cfg.Camera.OrbitSpeed
	g.trails = renderer.NewTrailBuffer(w, h, renderer.ToRL(g.background, 255), g.cfg.Screen.Fade)
	g.trails.Init()
	g.particles = renderer.NewParticleRenderer()
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(w-260, h-120)
	g.controls = ui.NewControlsPanel(10, 240, 220)
	g.overlays = ui.NewOverlayRegistry()
	g.inspector = inspector.NewInspector(w, h)
	g.applyOverlays()
}

// setPalette switches the particle gradient.
func (g *Game) setPalette(name string) error {
	gradient, err := palette.Get(name)
	if err != nil {
		return err
	}
	g.paletteName = name
	g.gradient = gradient
	return nil
}

// nextPalette cycles through the named palettes.
func (g *Game) nextPalette() {
	names := palette.Names()
	next := names[0]
	for i, n := range names {
		if n == g.paletteName {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := g.setPalette(next); err != nil {
		slog.Error("palette switch failed", "palette", next, "error", err)
		return
	}
	slog.Info("palette", "name", next)
}

// currentColor is the particle colour for the current step.
func (g *Game) currentColor() colorful.Color {
	c := g.gradient(palette.Cycle(g.step, int(g.cfg.Palette.Cycle)))
	return palette.Brighten(c, g.engine.Modulation().Intensity)
}

// Unload releases all resources.
func (g *Game) Unload() {
	var errs []error
	if g.trails != nil {
		g.trails.Unload()
	}
	if g.player != nil {
		errs = append(errs, g.player.Close())
	}
	if g.monitor != nil {
		errs = append(errs, g.monitor.Close())
	}
	if g.outputManager != nil {
		errs = append(errs, g.outputManager.Close())
	}
	if g.engine != nil {
		g.engine.Close()
	}
	if err := errors.Join(errs...); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("simulation stopped", "tick", g.tick, "respawns", g.engineRespawns())
}

func (g *Game) engineRespawns() uint64 {
	if g.engine == nil {
		return 0
	}
	return g.engine.Respawns()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Engine returns the particle engine.
func (g *Game) Engine() *systems.Engine {
	return g.engine
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused pauses or resumes the simulation and playback.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
	g.player.SetPaused(paused)
}

// Level returns the signal level of the last step.
func (g *Game) Level() float64 {
	return g.level
}
