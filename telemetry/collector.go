package telemetry

import "github.com/pthm-cable/particlecore/systems"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawned    int
	evicted    int
	expired    int
	siteKilled int
	cleared    int
	byKind     map[string]int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		byKind:              make(map[string]int),
	}
}

// Record counts a lifecycle event.
func (c *Collector) Record(e Event) {
	n := e.count()
	switch e.Type {
	case EventSpawn:
		c.spawned += n
		c.byKind[string(e.Kind)] += n
	case EventEvict:
		c.evicted += n
	case EventExpire:
		c.expired += n
	case EventSiteKill:
		c.siteKilled += n
	case EventClear:
		c.cleared += n
	}
}

// SpawnedByKind returns spawn counts per kind for the current window.
func (c *Collector) SpawnedByKind() map[string]int {
	out := make(map[string]int, len(c.byKind))
	for k, v := range c.byKind {
		out[k] = v
	}
	return out
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is the state sampled at window end.
type Population struct {
	Live      int
	Pending   int
	Tracked   int
	Emitting  int
	LitCells  int
	Groups    int
	Fill      []float64 // Per-kind queue length / capacity
	Lifetimes []float64 // Ages at death during the window
	Work      systems.TickStats
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop Population) WindowStats {
	fillMean, fillP50, fillMax := ComputeFillStats(pop.Fill)
	lifeMean, lifeStd, lifeP10, lifeP50, lifeP90 := ComputeLifetimeStats(pop.Lifetimes)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Live:     pop.Live,
		Pending:  pop.Pending,
		Tracked:  pop.Tracked,
		Emitting: pop.Emitting,
		LitCells: pop.LitCells,
		Groups:   pop.Groups,

		Spawned:    c.spawned,
		Evicted:    c.evicted,
		Expired:    c.expired,
		SiteKilled: c.siteKilled,
		Cleared:    c.cleared,

		PathSteps:   pop.Work.PathSteps,
		Rotations:   pop.Work.Rotations,
		Blends:      pop.Work.Blends,
		Scripts:     pop.Work.Scripts,
		LightWrites: pop.Work.LightWrites,

		FillMean: fillMean,
		FillP50:  fillP50,
		FillMax:  fillMax,

		LifetimeMean: lifeMean,
		LifetimeStd:  lifeStd,
		LifetimeP10:  lifeP10,
		LifetimeP50:  lifeP50,
		LifetimeP90:  lifeP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawned = 0
	c.evicted = 0
	c.expired = 0
	c.siteKilled = 0
	c.cleared = 0
	clear(c.byKind)

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
