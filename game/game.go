// Package game is a headless reference host for the particle runtime. It
// owns its particles, spawns them from configured emitters, applies base
// physics and calls the runtime hooks in the order a real host would.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/particlecore/config"
	"github.com/pthm-cable/particlecore/core"
	"github.com/pthm-cable/particlecore/systems"
	"github.com/pthm-cable/particlecore/telemetry"
)

// Options configures a game instance.
type Options struct {
	Seed        int64
	LogStats    bool
	StatsWindow int    // Ticks per stats window; 0 uses config
	OutputDir   string // CSV and config output; empty disables

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete host state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	core      *core.Core
	table     *systems.SpawnTable
	scheduler *systems.Scheduler[spawnRequest]
	groups    Groups
	emitters  []emitter
	parallel  *parallelState

	// State
	tick     int32
	nextID   uint64
	clearing bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	lifetimes     *telemetry.LifetimeTracker
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewGameWithOptions creates a game from the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		window = opts.StatsWindow
	}

	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		table:         systems.NewSpawnTable(),
		scheduler:     systems.NewScheduler[spawnRequest](cfg.Scheduler.MaxBatch),
		groups:        make(Groups),
		parallel:      newParallelState(),
		collector:     telemetry.NewCollector(window),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		lifetimes:     telemetry.NewLifetimeTracker(),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	g.core = core.New(core.Options{
		Capacity: cfg.Pool.Capacity,
		MaxLight: cfg.Lighting.MaxLevel,
		Falloff:  cfg.Lighting.Falloff,
	}, g.table, g.groups)
	g.core.Pool().OnEvict(g.onEvict)

	for _, ec := range cfg.Emitters {
		b, err := BuildBehavior(ec)
		if err != nil {
			return nil, err
		}
		em := emitter{cfg: ec}
		if b != nil {
			em.site = g.table.Register(b)
		}
		g.emitters = append(g.emitters, em)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	slog.Info("game created",
		"seed", opts.Seed,
		"emitters", len(g.emitters),
		"custom_sites", g.table.Len(),
		"stats_window", window,
	)
	return g, nil
}

func (g *Game) config() *config.Config {
	return g.cfg
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Core returns the particle runtime.
func (g *Game) Core() *core.Core {
	return g.core
}

// Groups returns the host's group counters.
func (g *Game) Groups() Groups {
	return g.groups
}

// Live returns the number of pooled particles.
func (g *Game) Live() int {
	return g.core.Pool().Total()
}

// Unload stops the physics workers and closes output.
func (g *Game) Unload() {
	g.parallel.stopWorkers()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
