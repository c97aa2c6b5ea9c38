// Package core exposes the hook surface a host simulation calls: spawn
// intake, per-particle tick, death, end of tick, bulk clear and the two
// light queries.
package core

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/host"
	"github.com/pthm-cable/particlecore/lighting"
	"github.com/pthm-cable/particlecore/pool"
	"github.com/pthm-cable/particlecore/systems"
)

// Options sizes the runtime.
type Options struct {
	Capacity int   // Per-kind particle cap; <= 0 selects pool.DefaultCapacity
	MaxLight int32 // Brightest override; <= 0 selects lighting.MaxLevel
	Falloff  bool  // Spread light to neighbouring cells
}

// Core wires the pool, registry, light index and light bridge together.
// All methods must be called from the simulation thread.
type Core struct {
	pool     *pool.Pool
	registry *systems.Registry
	lights   *lighting.Index[ecs.Entity]
	bridge   lighting.Bridge
}

// New creates a runtime resolving behavior through provider. counter
// receives group decrements for evicted particles and may be nil.
func New(opts Options, provider host.DataProvider, counter host.GroupCounter) *Core {
	maxLight := opts.MaxLight
	if maxLight <= 0 {
		maxLight = lighting.MaxLevel
	}
	lights := lighting.NewIndex[ecs.Entity](maxLight, opts.Falloff)
	c := &Core{
		pool:     pool.New(opts.Capacity, counter),
		registry: systems.NewRegistry(provider, lights),
		lights:   lights,
		bridge:   lighting.NewBridge(lights),
	}
	c.pool.OnEvict(c.registry.OnDeath)

	slog.Info("particle runtime ready",
		"capacity", c.pool.Capacity(),
		"max_light", maxLight,
		"falloff", opts.Falloff,
	)
	return c
}

// Pool returns the bounded particle pool.
func (c *Core) Pool() *pool.Pool { return c.pool }

// Registry returns the behavior registry.
func (c *Core) Registry() *systems.Registry { return c.registry }

// Lights returns the spatial light index.
func (c *Core) Lights() *lighting.Index[ecs.Entity] { return c.lights }

// Enqueue stages a newly spawned particle for the next Drain.
func (c *Core) Enqueue(p host.Particle) {
	c.pool.Enqueue(p)
}

// Intake admits a newly spawned particle immediately.
func (c *Core) Intake(p host.Particle) {
	c.pool.Intake(p)
}

// Drain admits every staged particle in spawn order.
func (c *Core) Drain() int {
	return c.pool.Drain()
}

// Tick runs one simulation step of p's overlay pipeline.
func (c *Core) Tick(p host.Particle) systems.TickResult {
	return c.registry.Tick(p)
}

// Each calls fn for every pooled particle.
func (c *Core) Each(fn func(host.Particle)) {
	c.pool.Each(fn)
}

// OnDeath releases p's behavior and light. Safe to call more than once.
func (c *Core) OnDeath(p host.Particle) {
	c.registry.OnDeath(p)
}

// Sweep removes dead particles from the pool and runs the death path for
// each. natural, if not nil, sees each removed particle afterwards; hosts use
// it for their own group accounting. Evicted particles never reach it.
func (c *Core) Sweep(natural func(host.Particle)) int {
	return c.pool.Prune(func(p host.Particle) {
		c.registry.OnDeath(p)
		if natural != nil {
			natural(p)
		}
	})
}

// EndTick runs deferred site kills and refreshes light falloff.
// Returns the number of particles the site kills marked dead.
func (c *Core) EndTick() int {
	n := c.registry.FlushKills()
	c.lights.Rebuild()
	return n
}

// ClearAll evicts every pooled and staged particle and drops all behavior
// and light state. Returns the number evicted.
func (c *Core) ClearAll() int {
	n := c.pool.ClearAll()
	c.registry.Reset()
	return n
}

// QueryBlockLight returns the override for the block light at pos when it
// is brighter than hostLevel.
func (c *Core) QueryBlockLight(pos r3.Vec, hostLevel int32) (int32, bool) {
	return c.bridge.QueryBlockLight(lighting.CellOf(pos), hostLevel)
}

// QueryLightmap returns the packed lightmap value at pos with the block
// component overridden when brighter than the host's.
func (c *Core) QueryLightmap(pos r3.Vec, hostPacked int32) (int32, bool) {
	return c.bridge.QueryLightmap(lighting.CellOf(pos), hostPacked)
}
