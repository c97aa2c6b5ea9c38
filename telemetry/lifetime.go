package telemetry

import "github.com/pthm-cable/particlecore/host"

// LifetimeTracker records spawn ticks and collects ages at death.
type LifetimeTracker struct {
	births    map[host.Particle]int32
	lifetimes []float64
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		births: make(map[host.Particle]int32),
	}
}

// Register records p's spawn tick.
func (lt *LifetimeTracker) Register(p host.Particle, tick int32) {
	lt.births[p] = tick
}

// Remove forgets p and records its lifetime in ticks. Returns false for
// particles never registered or already removed.
func (lt *LifetimeTracker) Remove(p host.Particle, tick int32) (int32, bool) {
	birth, ok := lt.births[p]
	if !ok {
		return 0, false
	}
	delete(lt.births, p)
	life := tick - birth
	lt.lifetimes = append(lt.lifetimes, float64(life))
	return life, true
}

// Drain returns the lifetimes recorded since the last Drain.
func (lt *LifetimeTracker) Drain() []float64 {
	out := lt.lifetimes
	lt.lifetimes = nil
	return out
}

// Count returns the number of particles being tracked.
func (lt *LifetimeTracker) Count() int {
	return len(lt.births)
}

// Reset forgets every particle without recording lifetimes.
func (lt *LifetimeTracker) Reset() {
	clear(lt.births)
}
