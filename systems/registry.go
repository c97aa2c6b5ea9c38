// Package systems associates live particles with their custom behavior and
// runs the per-tick overlay pipeline.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/particlecore/components"
	"github.com/pthm-cable/particlecore/host"
	"github.com/pthm-cable/particlecore/lighting"
	"github.com/pthm-cable/particlecore/overlay"
)

// tracked links an ECS entity back to its host particle.
type tracked struct {
	particle host.Particle
}

// resolution is the cached outcome of the one-time provider lookup.
type resolution struct {
	entity ecs.Entity
	data   bool
}

// Registry stores per-particle behavior in an ark world. Entities exist only
// for particles whose spawn site has custom data; particles without data are
// remembered so the provider is never asked twice.
type Registry struct {
	world    *ecs.World
	provider host.DataProvider
	lights   *lighting.Index[ecs.Entity]

	resolved map[host.Particle]resolution
	sites    map[components.SiteID]map[host.Particle]struct{}
	kills    []components.SiteID

	trackMap  *ecs.Map1[tracked]
	pathMap   *ecs.Map[components.PathState]
	rotMap    *ecs.Map[components.RotationState]
	finalMap  *ecs.Map[components.FinalValues]
	emitMap   *ecs.Map[components.Emission]
	memberMap *ecs.Map[components.Membership]
	scriptMap *ecs.Map[components.Scripted]

	emitFilter *ecs.Filter1[components.Emission]

	stats TickStats
}

// NewRegistry creates a registry resolving behavior through provider and
// recording light in lights.
func NewRegistry(provider host.DataProvider, lights *lighting.Index[ecs.Entity]) *Registry {
	world := ecs.NewWorld()
	return &Registry{
		world:      world,
		provider:   provider,
		lights:     lights,
		resolved:   make(map[host.Particle]resolution),
		sites:      make(map[components.SiteID]map[host.Particle]struct{}),
		trackMap:   ecs.NewMap1[tracked](world),
		pathMap:    ecs.NewMap[components.PathState](world),
		rotMap:     ecs.NewMap[components.RotationState](world),
		finalMap:   ecs.NewMap[components.FinalValues](world),
		emitMap:    ecs.NewMap[components.Emission](world),
		memberMap:  ecs.NewMap[components.Membership](world),
		scriptMap:  ecs.NewMap[components.Scripted](world),
		emitFilter: ecs.NewFilter1[components.Emission](world),
	}
}

// resolve returns the particle's entity, consulting the provider on first use.
func (r *Registry) resolve(p host.Particle) (ecs.Entity, bool) {
	if res, ok := r.resolved[p]; ok {
		return res.entity, res.data
	}

	b, ok := r.provider.Lookup(p)
	if !ok || b == nil {
		r.resolved[p] = resolution{}
		r.stats.Untracked++
		return ecs.Entity{}, false
	}

	e := r.attach(p, b)
	r.resolved[p] = resolution{entity: e, data: true}
	r.stats.Resolved++
	return e, true
}

// attach creates the particle's entity with per-particle copies of b's state.
func (r *Registry) attach(p host.Particle, b *components.Behavior) ecs.Entity {
	e := r.trackMap.NewEntity(&tracked{particle: p})

	site := b.Site
	if s, ok := p.(host.Sited); ok {
		site = s.SpawnSite()
	}
	r.memberMap.Add(e, &components.Membership{Site: site})
	r.emitMap.Add(e, &components.Emission{Level: overlay.NoLight})

	if b.Path != nil {
		path := *b.Path
		path.Elapsed = 0
		if path.Speed <= 0 {
			path.Speed = components.DefaultPathSpeed
		}
		r.pathMap.Add(e, &path)
	}
	if b.Rotation != nil {
		rot := *b.Rotation
		r.rotMap.Add(e, &rot)
	}
	if b.Final != nil {
		final := *b.Final
		final.Tags = append(overlay.Tags(nil), b.Final.Tags...)
		r.finalMap.Add(e, &final)
	}
	if b.Script != nil {
		r.scriptMap.Add(e, &components.Scripted{Script: overlay.Instance(b.Script)})
	}

	members, ok := r.sites[site]
	if !ok {
		members = make(map[host.Particle]struct{})
		r.sites[site] = members
	}
	members[p] = struct{}{}
	return e
}

// Tracked reports whether p has custom behavior. It never consults the provider.
func (r *Registry) Tracked(p host.Particle) bool {
	return r.resolved[p].data
}

// Known reports whether p's resolution is cached, with or without data.
func (r *Registry) Known(p host.Particle) bool {
	_, ok := r.resolved[p]
	return ok
}

// Light returns the particle's current light override.
func (r *Registry) Light(p host.Particle) int32 {
	res := r.resolved[p]
	if !res.data {
		return overlay.NoLight
	}
	return r.emitMap.Get(res.entity).Level
}

// OnDeath forgets p and releases any light it emitted. Calling it again, or
// for a particle never seen, is a no-op.
func (r *Registry) OnDeath(p host.Particle) {
	res, ok := r.resolved[p]
	if !ok {
		return
	}
	delete(r.resolved, p)
	if !res.data {
		return
	}

	r.lights.Clear(res.entity)
	site := r.memberMap.Get(res.entity).Site
	if members, ok := r.sites[site]; ok {
		delete(members, p)
		if len(members) == 0 {
			delete(r.sites, site)
		}
	}
	r.world.RemoveEntity(res.entity)
	r.stats.Released++
}

// Len returns the number of particles with custom behavior.
func (r *Registry) Len() int {
	n := 0
	for _, res := range r.resolved {
		if res.data {
			n++
		}
	}
	return n
}

// Emitting counts tracked particles currently emitting light.
func (r *Registry) Emitting() int {
	n := 0
	query := r.emitFilter.Query()
	for query.Next() {
		if query.Get().Level >= 0 {
			n++
		}
	}
	return n
}

// Reset drops every entity, cached resolution, site and light entry.
func (r *Registry) Reset() {
	r.world.Reset()
	clear(r.resolved)
	clear(r.sites)
	r.kills = r.kills[:0]
	r.lights.Reset()
}
