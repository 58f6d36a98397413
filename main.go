package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/driftbox/config"
	"github.com/pthm-cable/driftbox/game"
	"github.com/pthm-cable/driftbox/renderer"
	"github.com/pthm-cable/driftbox/window"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in frames (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Uint64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	resizeScript := flag.String("resize", "", "Headless resizes as WxH@frame[,WxH@frame...]")
	showHUD := flag.Bool("hud", false, "Draw the heads-up display")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		OutputDir:   *outputDir,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	if *headless {
		err = runHeadless(ctx, cfg, opts, *maxFrames, *resizeScript)
	} else {
		err = runWindow(ctx, cfg, opts, *maxFrames, *showHUD)
	}

	switch {
	case errors.Is(err, game.ErrNoSurface):
		// Nothing to draw on; exit quietly
		slog.Debug("no host surface")
	case errors.Is(err, context.Canceled):
		slog.Info("interrupted")
	case err != nil:
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless runs the frame loop against a virtual surface.
func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, maxFrames uint64, resizeScript string) error {
	resizes, err := window.ParseResizes(resizeScript)
	if err != nil {
		return err
	}

	host := window.NewHeadless(cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.TargetFPS, maxFrames, resizes)
	d := game.NewDispatcher(len(resizes) + 1)
	rec := renderer.NewRecorder(0, 0)

	g, err := game.New(cfg, host, rec, d, opts)
	if err != nil {
		return err
	}
	defer closeGame(g)

	if err := g.Start(); err != nil {
		return err
	}
	slog.Info("headless host started", "max_frames", maxFrames, "resizes", len(resizes))

	err = host.Run(ctx, d)
	slog.Info("host closed", "frames", g.Frame())
	return err
}

// runWindow runs the frame loop in a desktop window.
func runWindow(ctx context.Context, cfg *config.Config, opts game.Options, maxFrames uint64, showHUD bool) error {
	host, err := window.OpenRaylib(cfg.Screen, maxFrames)
	if err != nil {
		return err
	}
	defer host.Close()

	var title string
	if showHUD {
		title = cfg.Screen.Title
	}
	w, h := host.Size()
	r := renderer.NewRaylib(w, h, cfg.Screen.Transparent, title)
	defer r.Unload()

	d := game.NewDispatcher(0)
	g, err := game.New(cfg, host, r, d, opts)
	if err != nil {
		return err
	}
	defer closeGame(g)

	if err := g.Start(); err != nil {
		return err
	}

	err = host.Run(ctx, d)
	slog.Info("host closed", "frames", g.Frame())
	return err
}

func closeGame(g *game.Game) {
	if err := g.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
