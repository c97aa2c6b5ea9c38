package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Live     int `csv:"live"`
	Pending  int `csv:"pending"`
	Tracked  int `csv:"tracked"`
	Emitting int `csv:"emitting"`
	LitCells int `csv:"lit_cells"`
	Groups   int `csv:"group_total"` // Sum of the host's group counters

	// Events during window
	Spawned    int `csv:"spawned"`
	Evicted    int `csv:"evicted"`
	Expired    int `csv:"expired"`
	SiteKilled int `csv:"site_killed"`
	Cleared    int `csv:"cleared"`

	// Overlay work during window
	PathSteps   int `csv:"path_steps"`
	Rotations   int `csv:"rotations"`
	Blends      int `csv:"blends"`
	Scripts     int `csv:"scripts"`
	LightWrites int `csv:"light_writes"`

	// Per-kind pool fill (fraction of capacity) at window end
	FillMean float64 `csv:"fill_mean"`
	FillP50  float64 `csv:"fill_p50"`
	FillMax  float64 `csv:"fill_max"`

	// Age at death for particles that died in the window
	LifetimeMean float64 `csv:"lifetime_mean"`
	LifetimeStd  float64 `csv:"lifetime_std"`
	LifetimeP10  float64 `csv:"lifetime_p10"`
	LifetimeP50  float64 `csv:"lifetime_p50"`
	LifetimeP90  float64 `csv:"lifetime_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFillStats returns mean, median and max of per-kind fill ratios.
func ComputeFillStats(values []float64) (mean, p50, max float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return stat.Mean(sorted, nil), Percentile(sorted, 0.5), sorted[len(sorted)-1]
}

// ComputeLifetimeStats calculates mean, population std, and percentiles.
func ComputeLifetimeStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("live", s.Live),
		slog.Int("pending", s.Pending),
		slog.Int("tracked", s.Tracked),
		slog.Int("emitting", s.Emitting),
		slog.Int("lit_cells", s.LitCells),
		slog.Int("group_total", s.Groups),
		slog.Int("spawned", s.Spawned),
		slog.Int("evicted", s.Evicted),
		slog.Int("expired", s.Expired),
		slog.Int("site_killed", s.SiteKilled),
		slog.Int("cleared", s.Cleared),
		slog.Int("path_steps", s.PathSteps),
		slog.Int("rotations", s.Rotations),
		slog.Int("blends", s.Blends),
		slog.Int("scripts", s.Scripts),
		slog.Int("light_writes", s.LightWrites),
		slog.Float64("fill_mean", s.FillMean),
		slog.Float64("fill_p50", s.FillP50),
		slog.Float64("fill_max", s.FillMax),
		slog.Float64("lifetime_mean", s.LifetimeMean),
		slog.Float64("lifetime_std", s.LifetimeStd),
		slog.Float64("lifetime_p10", s.LifetimeP10),
		slog.Float64("lifetime_p50", s.LifetimeP50),
		slog.Float64("lifetime_p90", s.LifetimeP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"live", s.Live,
		"tracked", s.Tracked,
		"emitting", s.Emitting,
		"lit_cells", s.LitCells,
		"group_total", s.Groups,
		"spawned", s.Spawned,
		"evicted", s.Evicted,
		"expired", s.Expired,
		"site_killed", s.SiteKilled,
		"cleared", s.Cleared,
		"light_writes", s.LightWrites,
		"fill_max", s.FillMax,
		"lifetime_mean", s.LifetimeMean,
	)
}
