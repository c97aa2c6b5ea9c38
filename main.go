package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/particlecore/config"
	"github.com/pthm-cable/particlecore/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, -1 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = use config)")

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
	switch {
	case rngSeed == 0:
		rngSeed = cfg.Simulation.Seed
	case rngSeed < 0:
		rngSeed = time.Now().UnixNano()
	}

	limit := cfg.Simulation.MaxTicks
	if *maxTicks > 0 {
		limit = *maxTicks
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		OutputDir:   *outputDir,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", limit,
		"output_dir", *outputDir,
	)

	start := time.Now()
	for limit <= 0 || int(g.Tick()) < limit {
		g.Update()
	}

	slog.Info("max ticks reached",
		"tick", g.Tick(),
		"live", g.Live(),
		"groups", g.Groups().Total(),
		"elapsed", time.Since(start).String(),
	)
}
