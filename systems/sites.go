package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/components"
	"github.com/pthm-cable/particlecore/host"
)

// SiteSize returns the number of live tracked particles spawned by site.
func (r *Registry) SiteSize(site components.SiteID) int {
	return len(r.sites[site])
}

// KillSite marks every tracked particle of site dead. Their registry
// entries are released when the host reports the deaths. Returns the
// number of particles killed.
func (r *Registry) KillSite(site components.SiteID) int {
	n := 0
	for p := range r.sites[site] {
		if p.Alive() {
			p.MarkDead()
			n++
		}
	}
	return n
}

// RequestKill defers KillSite until the next FlushKills, so a script may
// retire its own site mid-tick without disturbing the current iteration.
func (r *Registry) RequestKill(site components.SiteID) {
	r.kills = append(r.kills, site)
}

// FlushKills runs the deferred site kills. Returns the number killed.
func (r *Registry) FlushKills() int {
	n := 0
	for _, site := range r.kills {
		n += r.KillSite(site)
	}
	r.kills = r.kills[:0]
	return n
}

// MoveSite displaces every particle of site that supports host.Mover.
func (r *Registry) MoveSite(site components.SiteID, delta r3.Vec) int {
	n := 0
	for p := range r.sites[site] {
		if m, ok := p.(host.Mover); ok && p.Alive() {
			m.Move(delta)
			n++
		}
	}
	return n
}

// SetSiteVelocity overwrites the velocity of every live particle of site.
func (r *Registry) SetSiteVelocity(site components.SiteID, vel r3.Vec) int {
	n := 0
	for p := range r.sites[site] {
		if p.Alive() {
			p.SetVelocity(vel)
			n++
		}
	}
	return n
}
