// Package game wires the simulation substrate to the display: it owns the
// world store, the worker pool, the frame driver, and the host-side input
// and telemetry plumbing.
package game

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/DDR0/stardust/camera"
	"github.com/DDR0/stardust/config"
	"github.com/DDR0/stardust/emitters"
	"github.com/DDR0/stardust/engine"
	"github.com/DDR0/stardust/inspector"
	"github.com/DDR0/stardust/renderer"
	"github.com/DDR0/stardust/scene"
	"github.com/DDR0/stardust/species"
	"github.com/DDR0/stardust/telemetry"
	"github.com/DDR0/stardust/ui"
	"github.com/DDR0/stardust/world"
)

// Options configures game creation.
type Options struct {
	Seed      int64
	OutputDir string // empty disables CSV output
	Headless  bool
}

// Game owns the full simulation stack for one run.
type Game struct {
	cfg   *config.Config
	world *world.World
	buf   *world.RenderBuffer
	pool  *engine.Pool
	drive *engine.Driver
	emit  *emitters.System

	perf   *telemetry.PerfCollector
	output *telemetry.OutputManager

	cam       *camera.Camera
	pixels    *renderer.PixelRenderer
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	insp      *inspector.Inspector
	showPerf  bool
	showProbe bool

	brush    uint16
	headless bool

	// Telemetry window bookkeeping: totals as of the last flush.
	lastLogFrame int64
	lastAdvanced int64
	lastDropped  int64
}

// NewGameWithOptions builds the world, seeds the scene, and starts the
// worker pool. The pool is fully RUNNING before this returns.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	w := world.New(world.MaxWidth, world.MaxHeight)
	w.Pause()
	if err := w.SetBounds(cfg.Derived.WorldWidth, cfg.Derived.WorldHeight); err != nil {
		return nil, fmt.Errorf("game: initial bounds: %w", err)
	}
	w.Resume()

	for edge, name := range map[int]string{
		world.EdgeTop:    cfg.Edges.Top,
		world.EdgeLeft:   cfg.Edges.Left,
		world.EdgeBottom: cfg.Edges.Bottom,
		world.EdgeRight:  cfg.Edges.Right,
	} {
		w.SetEdge(edge, edgeBehavior(name))
	}

	if cfg.Scene.Enabled {
		sceneSeed := cfg.Scene.Seed
		if sceneSeed == 0 {
			sceneSeed = opts.Seed
		}
		p := scene.Params{
			Seed:      sceneSeed,
			Scale:     cfg.Scene.Scale,
			Threshold: cfg.Scene.Threshold,
			SandFill:  cfg.Scene.SandFill,
			WaterFill: cfg.Scene.WaterFill,
		}
		scene.Seed(w, p)
	}

	emit := emitters.NewSystem(opts.Seed)
	for _, e := range cfg.Emitters {
		emit.Add(e.X, e.Y, e.Species, float32(e.Rate), e.Radius)
	}

	buf := world.NewRenderBuffer(world.MaxWidth, world.MaxHeight, cfg.Render.DoubleBuffer)
	pool, err := engine.Start(w, engine.Options{
		Workers: cfg.Derived.Workers,
		Settle:  time.Duration(cfg.Workers.SettleMS) * time.Millisecond,
		Buffer:  buf,
	})
	if err != nil {
		return nil, err
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	drive := engine.NewDriver(w, pool, engine.DriverOptions{
		Emitters:   emit,
		Perf:       perf,
		StallAfter: cfg.Telemetry.StallFrames,
	})

	g := &Game{
		cfg:   cfg,
		world: w,
		buf:   buf,
		pool:  pool,
		drive: drive,
		emit:  emit,
		perf:  perf,
		cam: camera.New(
			float32(cfg.Screen.Width), float32(cfg.Screen.Height),
			float32(cfg.Derived.WorldWidth), float32(cfg.Derived.WorldHeight)),
		pixels:    renderer.NewPixelRenderer(),
		hud:       ui.NewHUD(),
		perfPanel: ui.NewPerfPanel(10, 120),
		insp:      inspector.NewInspector(int32(cfg.Screen.Width)),
		brush:     species.Sand,
		headless:  opts.Headless,
	}
	g.insp.SpeciesName = species.Name

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("game: output dir: %w", err)
		}
		g.output = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Warn("could not snapshot config", "error", err)
		}
	}
	return g, nil
}

func edgeBehavior(name string) world.EdgeBehavior {
	if name == "open" {
		return world.EdgeOpen
	}
	return world.EdgeWall
}

// Update runs one graphical refresh: input, frame drive, telemetry.
func (g *Game) Update() {
	g.handleInput()
	g.drive.Frame()
	g.flushTelemetry()
}

// UpdateHeadless runs one refresh without any raylib calls.
func (g *Game) UpdateHeadless() {
	g.drive.Frame()
	g.flushTelemetry()
}

// Draw renders the pixel region and the HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	bw, bh := g.world.Bounds()
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	g.pixels.Draw(g.buf, g.cam, bw, bh)

	g.hud.Draw(ui.HUDData{
		Title:        "Stardust",
		Tick:         g.world.Tick(),
		Workers:      g.pool.Size,
		Frames:       g.drive.Frames(),
		Dropped:      g.drive.Dropped(),
		FPS:          int32(rl.GetFPS()),
		Paused:       g.world.Paused(),
		RenderOK:     g.pool.RenderOK(),
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
	})
	if g.showPerf {
		g.perfPanel.Draw(g.perf)
	}
	if g.showProbe {
		pos := rl.GetMousePosition()
		wx, wy := g.cam.ScreenToWorld(pos.X, pos.Y)
		if probe, ok := inspector.Probe(g.world, int(wx), int(wy)); ok {
			g.insp.Draw(probe)
		}
	}
	g.hud.DrawControls(screenW, screenH,
		"Space: pause | 1-5: brush | LMB: paint | RMB: erase | wheel: zoom | MMB: pan | I: probe | T: test card | F: fill | P: perf")

	rl.EndDrawing()
}

// flushTelemetry emits the rolling stats and barrier accounting once per
// configured tick interval.
func (g *Game) flushTelemetry() {
	every := int64(g.cfg.Telemetry.LogEveryTicks)
	if every <= 0 {
		return
	}
	frame := g.drive.Frames()
	if frame-g.lastLogFrame < every {
		return
	}
	g.lastLogFrame = frame

	stats := g.perf.Stats()
	stats.LogStats()

	tick := g.world.Tick()
	advanced, dropped := g.drive.Advanced(), g.drive.Dropped()
	win := telemetry.NewFrameWindow(tick,
		(advanced-g.lastAdvanced)+(dropped-g.lastDropped),
		advanced-g.lastAdvanced,
		dropped-g.lastDropped)
	g.lastAdvanced, g.lastDropped = advanced, dropped

	if g.output != nil {
		if err := g.output.WritePerf(stats, tick); err != nil {
			slog.Warn("perf csv write failed", "error", err)
		}
		if err := g.output.WriteFrames(win); err != nil {
			slog.Warn("frames csv write failed", "error", err)
		}
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 { return g.world.Tick() }

// Unload stops the pool and releases resources.
func (g *Game) Unload() {
	g.pool.Stop()
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			slog.Warn("telemetry output close failed", "error", err)
		}
	}
	if !g.headless {
		g.pixels.Unload()
	}
}
