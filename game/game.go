package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/driftbox/config"
	"github.com/pthm-cable/driftbox/renderer"
	"github.com/pthm-cable/driftbox/telemetry"
)

// Options configures a Game beyond what config.Config holds.
type Options struct {
	Seed          int64                       // RNG seed (0 = time-based)
	LogStats      bool                        // Log telemetry windows via slog
	StatsWindow   int                         // Frames per telemetry window (0 = use config)
	OutputDir     string                      // CSV output directory (empty = disabled)
	StatsCallback func(telemetry.WindowStats) // Called on each telemetry flush
}

// Renderer is what a Game draws with: a frame consumer that also loads sprites.
type Renderer interface {
	renderer.Renderer
	renderer.SpriteLoader
}

// Game assembles the context, frame loop and viewport over an event source.
type Game struct {
	ctx      *Context
	loop     *FrameLoop
	viewport *Viewport

	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	seed int64
}

// New builds a game on surface and registers its frame and resize handlers
// with events. The loop stays Idle until Start. Returns ErrNoSurface
// unchanged when surface is nil.
func New(cfg *config.Config, surface Surface, r Renderer, events EventSource, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, err := NewContext(cfg, surface, r, r, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		window = opts.StatsWindow
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if om != nil {
		slog.Info("writing output", "dir", om.Dir())
	}
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g := &Game{
		ctx:           ctx,
		viewport:      NewViewport(ctx),
		collector:     telemetry.NewCollector(window),
		outputManager: om,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		seed:          seed,
	}

	g.loop = NewFrameLoop(ctx, events, telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow))
	g.loop.OnFrame(g.flushTelemetry)

	events.OnResize(g.handleResize)

	return g, nil
}

// Start begins the frame loop.
func (g *Game) Start() error {
	if err := g.loop.Start(); err != nil {
		return err
	}
	slog.Info("starting",
		"seed", g.seed,
		"count", g.ctx.Field.Len(),
		"radius", g.ctx.Field.Radius(),
		"speed_scale", g.ctx.Field.SpeedScale(),
	)
	return nil
}

func (g *Game) handleResize(width, height int) {
	g.viewport.OnResize(width, height)
	g.collector.RecordResize()
}

// flushTelemetry records the frame and flushes the stats window when due.
func (g *Game) flushTelemetry(frame uint64) {
	f := g.ctx.Field
	g.collector.RecordFrame(f.Reflections(), f.Overshoot())
	if !g.collector.ShouldFlush(frame) {
		return
	}

	w, h := g.viewport.Size()
	stats := g.collector.Flush(frame, f, *g.ctx.Scene.Rotation(), w, h)
	perfStats := g.loop.Perf().Stats()

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
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Context returns the shared rendering state.
func (g *Game) Context() *Context {
	return g.ctx
}

// Loop returns the frame loop.
func (g *Game) Loop() *FrameLoop {
	return g.loop
}

// Viewport returns the viewport adapter.
func (g *Game) Viewport() *Viewport {
	return g.viewport
}

// Frame returns the number of completed frames.
func (g *Game) Frame() uint64 {
	return g.loop.Frame()
}

// Seed returns the RNG seed the field was drawn with.
func (g *Game) Seed() int64 {
	return g.seed
}

// Close flushes output files and stops field workers.
func (g *Game) Close() error {
	g.ctx.Close()
	return g.outputManager.Close()
}
