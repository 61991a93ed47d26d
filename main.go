package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/plot/config"
	"github.com/pthm-cable/plot/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, event log and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = until interrupted)")
	policy := flag.String("policy", "", "Irrigation policy override: threshold or fuzzy")
	debug := flag.Bool("debug", false, "Log individual harvests and removals")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *policy != "" {
		cfg.Irrigator.Policy = *policy
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid policy", "error", err)
			os.Exit(1)
		}
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting plot simulation",
		"seed", rngSeed,
		"plants", cfg.Field.Plants,
		"policy", cfg.Irrigator.Policy,
		"clock", cfg.Physics.Clock,
		"max_ticks", *maxTicks,
	)

	// Wall-clock runs are paced to real time so cooldowns mean something
	var pace <-chan time.Time
	if cfg.Physics.Clock == config.ClockWall {
		ticker := time.NewTicker(cfg.Derived.TickDuration)
		defer ticker.Stop()
		pace = ticker.C
	}

	run(ctx, g, *maxTicks, pace)

	slog.Info("final report", "report", g.FinalReport())
	if err := g.Unload(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

func run(ctx context.Context, g *game.Game, maxTicks int, pace <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", g.Tick())
			return
		default:
		}

		if pace != nil {
			select {
			case <-ctx.Done():
				slog.Info("interrupted", "tick", g.Tick())
				return
			case <-pace:
			}
		}

		if err := g.UpdateHeadless(); err != nil {
			slog.Error("simulation step failed", "tick", g.Tick(), "error", err)
			return
		}

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
}
