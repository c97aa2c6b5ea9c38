// Package host declares the accessor surface the owning simulation exposes.
//
// The host owns particle storage; the overlay runtime only reads and writes
// through these methods. Particle identity is interface identity, so
// implementations must use pointer receivers.
package host

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/components"
	"github.com/pthm-cable/particlecore/overlay"
)

// Kind is the host's particle category (render batch). Pool capacity is
// accounted per Kind.
type Kind string

// GroupTag names a host population-accounting group.
type GroupTag string

// Particle is a live particle handle.
type Particle interface {
	Kind() Kind
	Alive() bool
	// MarkDead must be idempotent.
	MarkDead()

	Age() int
	SetAge(age int)
	MaxAge() int

	// Group returns the accounting group, if any.
	Group() (GroupTag, bool)

	Position() r3.Vec
	Velocity() r3.Vec
	SetVelocity(v r3.Vec)
	Color() overlay.Color
	SetColor(c overlay.Color)
	Angle() float32
	SetAngle(a float32)
	Gravity() float32
	SetGravity(g float32)
	Scale() float32
	SetScale(s float32)
	VelocityMultiplier() float32
	SetVelocityMultiplier(m float32)
}

// Sited is implemented by particles that know their spawn site.
type Sited interface {
	SpawnSite() components.SiteID
}

// Mover is implemented by particles that can be displaced directly.
type Mover interface {
	Move(delta r3.Vec)
}

// GroupCounter is the host's group population bookkeeping.
type GroupCounter interface {
	AddTo(group GroupTag, delta int)
}

// DataProvider resolves custom behavior for a particle's spawn site.
// It is consulted at most once per handle.
type DataProvider interface {
	Lookup(p Particle) (*components.Behavior, bool)
}

// DataProviderFunc adapts a function to DataProvider.
type DataProviderFunc func(p Particle) (*components.Behavior, bool)

// Lookup calls f.
func (f DataProviderFunc) Lookup(p Particle) (*components.Behavior, bool) {
	return f(p)
}
