// Terminal viewer - renders the particle sphere as density glyphs.
//
// Usage: go run ./cmd/termview [--config path] [--seed s] [--snapshot file]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/spherefield/camera"
	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/palette"
	"github.com/pthm-cable/spherefield/rng"
	"github.com/pthm-cable/spherefield/signal"
	"github.com/pthm-cable/spherefield/systems"
	"github.com/pthm-cable/spherefield/telemetry"
)

const (
	orbitPerKey = 0.08
	zoomPerKey  = 1.15
)

type viewer struct {
	cfg      *config.Config
	screen   tcell.Screen
	engine   *systems.Engine
	monitor  *signal.Monitor
	cam      *camera.Camera
	raster   *Raster
	gradient palette.Gradient
	bg       colorful.Color

	step     uint64
	paused   bool
	hideBack bool
	frozen   bool // Snapshot view: no reseed
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.String("seed", "", "Seed string (empty = config, then random)")
	particles := flag.Int("particles", 4000, "Particles (0 = use config)")
	snapshotPath := flag.String("snapshot", "", "Show a saved snapshot instead of a fresh population")
	fps := flag.Int("fps", 30, "Frames per second")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	v, err := newViewer(cfg, *seed, *particles, *snapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	err = v.run(*fps)
	v.cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Stopped: %v\n", err)
		os.Exit(1)
	}
}

func newViewer(cfg *config.Config, seed string, particles int, snapshotPath string) (*viewer, error) {
	sim := cfg.Simulation
	if seed != "" {
		sim.Seed = seed
	}
	if particles > 0 {
		sim.Particles = particles
	}

	var snap *telemetry.Snapshot
	if snapshotPath != "" {
		var err error
		snap, err = telemetry.LoadSnapshot(snapshotPath)
		if err != nil {
			return nil, err
		}
		sim.Seed = snap.Seed
		sim.Particles = len(snap.Particles)
		sim.Radius = snap.Radius
	}

	modulator, err := systems.NewModulator(cfg.Modulation, cfg.Screen.TargetFPS)
	if err != nil {
		return nil, err
	}
	engine, err := systems.NewEngine(sim, rng.New(rng.Seed(sim.Seed)), systems.WithModulator(modulator))
	if err != nil {
		return nil, err
	}
	engine.Init()
	if snap != nil {
		if err := engine.Restore(snap.Population(), snap.EffectiveRadius); err != nil {
			engine.Close()
			return nil, err
		}
	}

	gradient, err := palette.Get(cfg.Palette.Name)
	if err != nil {
		engine.Close()
		return nil, err
	}
	bg, err := colorful.Hex(cfg.Palette.Background)
	if err != nil {
		engine.Close()
		return nil, fmt.Errorf("palette background: %w", err)
	}

	monitor, err := signal.NewMonitor(cfg.Signal)
	if err != nil {
		engine.Close()
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err == nil {
		err = screen.Init()
	}
	if err != nil {
		monitor.Close()
		engine.Close()
		return nil, err
	}

	w, h := screen.Size()
	cam := camera.New(float64(w), float64(h*cellAspect), cfg.Camera.Distance*sim.Radius/cfg.Simulation.Radius, cfg.Camera.FovY)
	cam.OrbitSpeed = cfg.Camera.OrbitSpeed

	return &viewer{
		cfg:      cfg,
		screen:   screen,
		engine:   engine,
		monitor:  monitor,
		cam:      cam,
		raster:   NewRaster(w, h),
		gradient: gradient,
		bg:       bg,
		paused:   snap != nil,
		frozen:   snap != nil,
	}, nil
}

func (v *viewer) run(fps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	dt := 1 / float64(max(fps, 1))
	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return nil
			}
		case <-ticker.C:
			v.cam.Advance(dt)
			if !v.paused {
				if err := v.stepOnce(); err != nil {
					return err
				}
			}
			v.draw()
		}
	}
}

func (v *viewer) stepOnce() error {
	level, err := v.monitor.Advance(v.cfg.Derived.FrameSeconds)
	if err == nil {
		level, err = signal.Scalar(level)
	}
	if err != nil {
		return fmt.Errorf("step %d: %w", v.step, err)
	}
	v.engine.Update(systems.UpdateInput{
		DeltaTime: v.cfg.Simulation.DeltaTime,
		Step:      v.step,
		Signal:    level,
	})
	v.step++
	return nil
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.cam.Orbit(-orbitPerKey, 0)
		case tcell.KeyRight:
			v.cam.Orbit(orbitPerKey, 0)
		case tcell.KeyUp:
			v.cam.Orbit(0, orbitPerKey)
		case tcell.KeyDown:
			v.cam.Orbit(0, -orbitPerKey)
		case tcell.KeyHome:
			v.cam.Reset()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			case 'b':
				v.hideBack = !v.hideBack
			case '+', '=':
				v.cam.ZoomBy(zoomPerKey)
			case '-':
				v.cam.ZoomBy(1 / zoomPerKey)
			case 'r':
				if !v.frozen {
					v.reseed()
				}
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) reseed() {
	seed := rng.New("").Seed()
	if err := v.engine.Reseed(seed); err != nil {
		return
	}
	v.step = 0
}

func (v *viewer) draw() {
	w, h := v.screen.Size()
	v.cam.Resize(float64(w), float64(h*cellAspect))
	v.raster.Reset(w, h)
	v.raster.Rasterize(v.engine, v.cam, v.hideBack)

	c := v.gradient(palette.Cycle(v.step, int(v.cfg.Palette.Cycle)))
	c = palette.Brighten(c, v.engine.Modulation().Intensity)
	bg := tcellColor(v.bg)
	front := tcell.StyleDefault.Background(bg).Foreground(tcellColor(shade(c, v.bg, true)))
	back := tcell.StyleDefault.Background(bg).Foreground(tcellColor(shade(c, v.bg, false)))

	v.screen.Clear()
	for y := range h {
		for x := range w {
			glyph, isFront := v.raster.Glyph(x, y)
			style := back
			if isFront {
				style = front
			}
			v.screen.SetContent(x, y, glyph, nil, style)
		}
	}

	status := fmt.Sprintf(" seed %s  step %d  radius %.2f  %s ",
		v.engine.Seed(), v.step, v.engine.EffectiveRadius(), v.modeLabel())
	for i, r := range status {
		if i >= w {
			break
		}
		v.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}
	v.screen.Show()
}

func (v *viewer) modeLabel() string {
	switch {
	case v.frozen && v.paused:
		return "[snapshot, space to run]"
	case v.paused:
		return "[paused]"
	default:
		return "[q quit, space pause, r reseed, b backside]"
	}
}

func (v *viewer) cleanup() {
	v.screen.Fini()
	v.monitor.Close()
	v.engine.Close()
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
