package game

import (
	"github.com/pthm-cable/particlecore/host"
	"github.com/pthm-cable/particlecore/systems"
	"github.com/pthm-cable/particlecore/telemetry"
)

// Update advances the simulation by one tick.
func (g *Game) Update() {
	cfg := g.config()
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSchedule)
	g.emit()

	g.perfCollector.StartPhase(telemetry.PhaseIntake)
	g.core.Drain()

	g.perfCollector.StartPhase(telemetry.PhaseOverlay)
	g.updateOverlay()

	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.updatePhysics(cfg.Physics.Gravity)

	g.perfCollector.StartPhase(telemetry.PhaseSweep)
	g.sweep()

	g.perfCollector.StartPhase(telemetry.PhaseLight)
	if n := g.core.EndTick(); n > 0 {
		g.collector.Record(telemetry.NewSiteKillEvent(g.tick, n))
	}

	g.tick++
	if every := cfg.Simulation.ClearEvery; every > 0 && int(g.tick)%every == 0 {
		g.ClearAll()
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// emit fires due emitters and releases delayed spawns.
func (g *Game) emit() {
	for i := range g.emitters {
		ec := &g.emitters[i].cfg
		if int(g.tick)%ec.Every != 0 {
			continue
		}
		for r := 0; r < ec.Rate; r++ {
			if ec.Delay > 0 {
				g.scheduler.Schedule(spawnRequest{emitter: i}, ec.Delay)
				continue
			}
			g.spawn(i)
		}
	}
	for _, req := range g.scheduler.Pop() {
		g.spawn(req.emitter)
	}
}

// spawn creates one particle from emitter i and stages it for intake.
func (g *Game) spawn(i int) *Particle {
	p := g.newParticle(&g.emitters[i])
	if tag, ok := p.Group(); ok {
		g.groups.AddTo(tag, 1)
	}
	g.lifetimes.Register(p, g.tick)
	g.collector.Record(telemetry.NewSpawnEvent(g.tick, p.kind))
	g.core.Enqueue(p)
	return p
}

// updateOverlay runs the runtime's tick hook for every live particle.
func (g *Game) updateOverlay() {
	g.core.Each(func(h host.Particle) {
		if !h.Alive() {
			return
		}
		if g.core.Tick(h) == systems.Expired {
			g.collector.Record(telemetry.NewExpireEvent(g.tick, h.Kind()))
		}
	})
}
