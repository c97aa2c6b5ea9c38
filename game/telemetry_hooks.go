package game

import (
	"log/slog"

	"github.com/pthm-cable/particlecore/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteWindow(stats); err != nil {
			slog.Error("failed to write window stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// samplePopulation gathers the window-end state and resets per-window work counters.
func (g *Game) samplePopulation() telemetry.Population {
	pool := g.core.Pool()
	reg := g.core.Registry()

	kinds := pool.Kinds()
	fill := make([]float64, 0, len(kinds))
	for _, k := range kinds {
		fill = append(fill, float64(pool.Len(k))/float64(pool.Capacity()))
	}

	pop := telemetry.Population{
		Live:      pool.Total(),
		Pending:   pool.Pending(),
		Tracked:   reg.Len(),
		Emitting:  reg.Emitting(),
		LitCells:  g.core.Lights().Len(),
		Groups:    g.groups.Total(),
		Fill:      fill,
		Lifetimes: g.lifetimes.Drain(),
		Work:      reg.Stats(),
	}
	reg.ResetStats()
	return pop
}
