package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/components"
	"github.com/pthm-cable/particlecore/host"
	"github.com/pthm-cable/particlecore/telemetry"
)

// sweep removes dead particles, doing the host's own accounting for deaths
// the pool did not cause.
func (g *Game) sweep() int {
	return g.core.Sweep(g.onNaturalDeath)
}

func (g *Game) onNaturalDeath(h host.Particle) {
	if tag, ok := h.Group(); ok {
		g.groups.AddTo(tag, -1)
	}
	g.lifetimes.Remove(h, g.tick)
}

// onEvict observes pool evictions. The pool already released the group slot.
func (g *Game) onEvict(h host.Particle) {
	g.lifetimes.Remove(h, g.tick)
	if !g.clearing {
		g.collector.Record(telemetry.NewEvictEvent(g.tick, h.Kind()))
	}
}

// ClearAll discards the whole population, as on a world reload.
// Returns the number of particles evicted.
func (g *Game) ClearAll() int {
	swept := g.sweep()

	g.clearing = true
	n := g.core.ClearAll()
	g.clearing = false

	g.scheduler.Clear()
	g.lifetimes.Reset()
	g.collector.Record(telemetry.NewClearEvent(g.tick, n))

	slog.Info("population cleared", "tick", g.tick, "evicted", n, "swept", swept, "groups", g.groups.Total())
	return n
}

// EmitterSite returns the spawn site of the named emitter.
func (g *Game) EmitterSite(name string) (components.SiteID, bool) {
	i, ok := g.config().Derived.EmitterIndex[name]
	if !ok || g.emitters[i].site == 0 {
		return 0, false
	}
	return g.emitters[i].site, true
}

// KillEmitter retires every particle of the named emitter at the end of
// the current tick.
func (g *Game) KillEmitter(name string) bool {
	site, ok := g.EmitterSite(name)
	if ok {
		g.core.Registry().RequestKill(site)
	}
	return ok
}

// MoveEmitter displaces every particle of the named emitter.
func (g *Game) MoveEmitter(name string, delta r3.Vec) int {
	site, ok := g.EmitterSite(name)
	if !ok {
		return 0
	}
	return g.core.Registry().MoveSite(site, delta)
}

// PushEmitter overwrites the velocity of every particle of the named emitter.
func (g *Game) PushEmitter(name string, vel r3.Vec) int {
	site, ok := g.EmitterSite(name)
	if !ok {
		return 0
	}
	return g.core.Registry().SetSiteVelocity(site, vel)
}
