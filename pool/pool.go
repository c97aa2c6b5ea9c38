// Package pool caps the number of live particles per kind.
//
// Every kind owns a FIFO queue of at most Capacity particles. Admitting a
// particle into a full queue evicts the oldest member first. Evicted
// particles are marked dead and their accounting group is decremented
// exactly once, whichever path (intake overflow, bulk clear) evicts them.
package pool

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/pthm-cable/particlecore/host"
)

// DefaultCapacity is the per-kind particle cap.
const DefaultCapacity = 16384 * 4

// Pool is the per-kind bounded particle store.
type Pool struct {
	capacity int
	counter  host.GroupCounter

	kinds   map[host.Kind]*ring
	order   []host.Kind // first-seen order, for deterministic iteration
	pending []host.Particle
	dropped []host.Particle // dead on removal, not yet reported by Prune

	observers []func(host.Particle)
	evictions int
}

// New creates a pool. capacity <= 0 selects DefaultCapacity. counter may be
// nil if the host keeps no group accounting.
func New(capacity int, counter host.GroupCounter) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		capacity: capacity,
		counter:  counter,
		kinds:    make(map[host.Kind]*ring),
	}
}

// OnEvict registers fn to run after each eviction.
func (p *Pool) OnEvict(fn func(host.Particle)) {
	p.observers = append(p.observers, fn)
}

// Capacity returns the per-kind cap.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Enqueue stages a newly spawned particle for the next Drain.
func (p *Pool) Enqueue(h host.Particle) {
	p.pending = append(p.pending, h)
}

// Pending returns the number of staged particles.
func (p *Pool) Pending() int {
	return len(p.pending)
}

// Drain admits staged particles in the order they were enqueued.
// Returns the number admitted.
func (p *Pool) Drain() int {
	n := len(p.pending)
	for i, h := range p.pending {
		p.Intake(h)
		p.pending[i] = nil
	}
	p.pending = p.pending[:0]
	return n
}

// Intake admits h into its kind's queue, evicting the oldest member first
// when the queue is full.
func (p *Pool) Intake(h host.Particle) {
	kind := h.Kind()
	q, ok := p.kinds[kind]
	if !ok {
		q = &ring{}
		p.kinds[kind] = q
		p.order = append(p.order, kind)
	}
	if q.len() >= p.capacity {
		if old := q.pop(); old != nil && !p.Evict(old) {
			p.dropped = append(p.dropped, old)
		}
	}
	q.push(h, p.capacity)

	if q.len() > p.capacity {
		slog.Error("pool capacity invariant violated", "kind", kind, "size", q.len(), "capacity", p.capacity)
		panic(fmt.Sprintf("pool: kind %q holds %d > capacity %d", kind, q.len(), p.capacity))
	}
}

// Evict marks h dead and releases its group slot. It is a no-op for a
// particle that is already dead. Reports whether anything happened.
func (p *Pool) Evict(h host.Particle) bool {
	if !h.Alive() {
		return false
	}
	h.MarkDead()
	if g, ok := h.Group(); ok && p.counter != nil {
		p.counter.AddTo(g, -1)
	}
	p.evictions++
	for _, fn := range p.observers {
		fn(h)
	}
	return true
}

// Evictions returns the running eviction count.
func (p *Pool) Evictions() int {
	return p.evictions
}

// Prune drops dead particles from every queue, keeping order. onRemove,
// if not nil, sees each dropped particle, including dead particles that
// intake or ClearAll already took off a queue. Returns the number removed.
func (p *Pool) Prune(onRemove func(host.Particle)) int {
	removed := len(p.dropped)
	for i, h := range p.dropped {
		if onRemove != nil {
			onRemove(h)
		}
		p.dropped[i] = nil
	}
	p.dropped = p.dropped[:0]

	keep := host.Particle.Alive
	if onRemove != nil {
		keep = func(h host.Particle) bool {
			if h.Alive() {
				return true
			}
			onRemove(h)
			return false
		}
	}
	for _, kind := range p.order {
		removed += p.kinds[kind].filter(keep)
	}
	return removed
}

// Each calls fn for every queued particle, kind by kind in first-seen
// order, oldest first within a kind.
func (p *Pool) Each(fn func(host.Particle)) {
	for _, kind := range p.order {
		p.kinds[kind].each(fn)
	}
}

// EachKind calls fn for every queued particle of kind, oldest first.
func (p *Pool) EachKind(kind host.Kind, fn func(host.Particle)) {
	if q, ok := p.kinds[kind]; ok {
		q.each(fn)
	}
}

// Len returns the queue size for kind.
func (p *Pool) Len(kind host.Kind) int {
	if q, ok := p.kinds[kind]; ok {
		return q.len()
	}
	return 0
}

// Total returns the number of queued particles across kinds.
func (p *Pool) Total() int {
	total := 0
	for _, q := range p.kinds {
		total += q.len()
	}
	return total
}

// Kinds returns every kind seen so far, sorted.
func (p *Pool) Kinds() []host.Kind {
	out := make([]host.Kind, len(p.order))
	copy(out, p.order)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ClearAll evicts every queued and staged particle and empties the pool.
// Returns the number of particles actually evicted.
func (p *Pool) ClearAll() int {
	evicted := 0
	for _, kind := range p.order {
		p.kinds[kind].each(func(h host.Particle) {
			if p.Evict(h) {
				evicted++
			} else {
				p.dropped = append(p.dropped, h)
			}
		})
		p.kinds[kind].reset()
	}
	for i, h := range p.pending {
		if p.Evict(h) {
			evicted++
		} else {
			p.dropped = append(p.dropped, h)
		}
		p.pending[i] = nil
	}
	p.pending = p.pending[:0]

	slog.Info("pool cleared", "evicted", evicted, "kinds", len(p.order))
	return evicted
}
