package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/particlecore/animation"
	"github.com/pthm-cable/particlecore/host"
	"github.com/pthm-cable/particlecore/lighting"
	"github.com/pthm-cable/particlecore/overlay"
)

// TickResult reports what Tick did with a particle.
type TickResult uint8

const (
	// Untracked particles have no custom behavior; only their age advanced.
	Untracked TickResult = iota
	// Overlaid particles ran the full overlay pipeline.
	Overlaid
	// Expired particles reached their max age and were marked dead.
	Expired
)

func (r TickResult) String() string {
	switch r {
	case Untracked:
		return "untracked"
	case Overlaid:
		return "overlaid"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// TickStats counts registry work since the last ResetStats.
type TickStats struct {
	Ticks       int
	Expired     int
	Resolved    int
	Untracked   int
	Released    int
	PathSteps   int
	Rotations   int
	Blends      int
	Scripts     int
	LightWrites int
}

// LogValue implements slog.LogValuer.
func (s TickStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ticks", s.Ticks),
		slog.Int("expired", s.Expired),
		slog.Int("resolved", s.Resolved),
		slog.Int("untracked", s.Untracked),
		slog.Int("released", s.Released),
		slog.Int("path_steps", s.PathSteps),
		slog.Int("rotations", s.Rotations),
		slog.Int("blends", s.Blends),
		slog.Int("scripts", s.Scripts),
		slog.Int("light_writes", s.LightWrites),
	)
}

// Stats returns the counters accumulated since the last ResetStats.
func (r *Registry) Stats() TickStats {
	return r.stats
}

// ResetStats zeroes the counters.
func (r *Registry) ResetStats() {
	r.stats = TickStats{}
}

// Tick advances one particle by one simulation step. Steps run in fixed
// order: age check, path, rotation, final values, generic script. Each
// later step sees the particle state the earlier ones left behind.
func (r *Registry) Tick(p host.Particle) TickResult {
	r.stats.Ticks++
	e, ok := r.resolve(p)

	age := p.Age() + 1
	p.SetAge(age)
	if age > p.MaxAge() {
		p.MarkDead()
		r.stats.Expired++
		return Expired
	}
	if !ok {
		return Untracked
	}

	if r.pathMap.Has(e) {
		if vel, ok := animation.StepPath(r.pathMap.Get(e)); ok {
			p.SetVelocity(vel)
			r.stats.PathSteps++
		}
	}

	if r.rotMap.Has(e) {
		if vel, ok := animation.StepRotation(r.rotMap.Get(e), p.Position()); ok {
			p.SetVelocity(vel)
			r.stats.Rotations++
		}
	}

	emission := r.emitMap.Get(e)
	onLight := func(level int32) { r.setLight(e, p, level) }

	if r.finalMap.Has(e) {
		fv := r.finalMap.Get(e)
		progress := animation.Progress(age, p.MaxAge())
		if out, ok := animation.Blend(host.Capture(p, emission.Level), *fv, progress); ok {
			host.Apply(p, out, onLight)
			r.stats.Blends++
		}
	}

	if r.scriptMap.Has(e) {
		sc := r.scriptMap.Get(e)
		out := sc.Script.Next(host.Capture(p, emission.Level))
		if out.Tagged() {
			host.Apply(p, out, onLight)
		}
		r.stats.Scripts++
	}
	return Overlaid
}

// setLight records level as e's emitted light at p's current cell.
// A negative level withdraws the override.
func (r *Registry) setLight(e ecs.Entity, p host.Particle, level int32) {
	emission := r.emitMap.Get(e)
	level = r.lights.Clamp(level)
	if level < 0 {
		emission.Level = overlay.NoLight
		r.lights.Clear(e)
		return
	}
	emission.Level = level
	r.lights.Set(e, lighting.CellOf(p.Position()), level)
	r.stats.LightWrites++
}
