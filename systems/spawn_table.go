package systems

import (
	"github.com/pthm-cable/particlecore/components"
	"github.com/pthm-cable/particlecore/host"
)

// SpawnTable is a host.DataProvider keyed by spawn site. Particles that do
// not implement host.Sited, or whose site was never registered, resolve to
// "no data".
type SpawnTable struct {
	entries map[components.SiteID]*components.Behavior
	next    components.SiteID
	lookups int
}

// NewSpawnTable creates an empty table.
func NewSpawnTable() *SpawnTable {
	return &SpawnTable{entries: make(map[components.SiteID]*components.Behavior)}
}

// Register stores b under a fresh site id and returns the id.
func (t *SpawnTable) Register(b *components.Behavior) components.SiteID {
	t.next++
	id := t.next
	b.Site = id
	t.entries[id] = b
	return id
}

// Forget drops the behavior for site. Particles that already resolved keep
// their own copy.
func (t *SpawnTable) Forget(site components.SiteID) {
	delete(t.entries, site)
}

// Get returns the behavior registered for site.
func (t *SpawnTable) Get(site components.SiteID) (*components.Behavior, bool) {
	b, ok := t.entries[site]
	return b, ok
}

// Lookup implements host.DataProvider.
func (t *SpawnTable) Lookup(p host.Particle) (*components.Behavior, bool) {
	t.lookups++
	s, ok := p.(host.Sited)
	if !ok {
		return nil, false
	}
	b, ok := t.entries[s.SpawnSite()]
	return b, ok
}

// Lookups returns how many times the table was consulted.
func (t *SpawnTable) Lookups() int {
	return t.lookups
}

// Len returns the number of registered sites.
func (t *SpawnTable) Len() int {
	return len(t.entries)
}

// Reset drops every site. Ids keep increasing so stale particles never
// alias a new site.
func (t *SpawnTable) Reset() {
	clear(t.entries)
}
