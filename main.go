package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tavern/config"
	"github.com/pthm-cable/tavern/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	realtime := flag.Bool("realtime", false, "Pace headless ticks at screen.target_fps")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
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
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		os.Exit(runHeadless(opts, *realtime, *maxTicks, cfg.Screen.TargetFPS))
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Tavern")
	defer rl.CloseWindow()
	rl.SetExitKey(0) // Escape clears the selection

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
	g.LogPeople()
}

// runHeadless drives the simulation without raylib and returns the exit code.
func runHeadless(opts game.Options, realtime bool, maxTicks, fps int) int {
	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"realtime", realtime,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := func() bool {
		return maxTicks > 0 && int(g.Tick()) >= maxTicks
	}

	if realtime {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		sched := game.NewFrameScheduler(fps, func() {
			g.UpdateHeadless()
			if done() {
				cancel()
			}
		})
		if err := sched.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("scheduler stopped", "error", err)
			return 1
		}
	} else {
		for ctx.Err() == nil && !done() {
			g.UpdateHeadless()
		}
	}

	if done() {
		slog.Info("max ticks reached", "tick", g.Tick())
	}
	g.LogPeople()
	return 0
}
