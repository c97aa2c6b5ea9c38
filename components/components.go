// Package components defines the ECS components attached to tracked particles.
package components

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/overlay"
)

// SiteID identifies the spawn site (emitter call) a particle came from.
type SiteID uint64

// Path maps accumulated path time to a velocity.
type Path interface {
	Velocity(t float64) r3.Vec
}

type emptyPath struct{}

func (emptyPath) Velocity(float64) r3.Vec { return r3.Vec{} }

// EmptyPath is the "no motion override" sentinel.
var EmptyPath Path = emptyPath{}

// IsEmptyPath reports whether p performs no motion override.
func IsEmptyPath(p Path) bool {
	return p == nil || p == EmptyPath
}

// DefaultPathSpeed is the elapsed-time increment per tick when none is given.
const DefaultPathSpeed = 0.1

// PathState drives a scripted motion path.
type PathState struct {
	Path    Path
	Speed   float64 // Added to Elapsed every tick
	Elapsed float64
}

// IdentityQuat is the no-op rotation.
var IdentityQuat = quat.Number{Real: 1}

// RotationState rotates a particle about Center each tick.
type RotationState struct {
	Quat   quat.Number // Per-tick rotation, expressed in the local frame
	Center r3.Vec      // Pivot in world space
	Frame  quat.Number // Current local-frame orientation (zero value = identity)
}

// Inert reports whether the rotation step is a no-op. The zero quaternion
// counts as identity.
func (r RotationState) Inert() bool {
	return r.Quat == IdentityQuat || r.Quat == (quat.Number{})
}

// FinalValues holds end-of-life targets the particle blends towards.
// The zero value is inert; the builders set targets but leave Active alone.
type FinalValues struct {
	Active   bool
	Velocity r3.Vec
	Color    overlay.Color
	Light    int32
	Tags     overlay.Tags
}

// WithVelocity targets the velocity and tags all three components.
func (f FinalValues) WithVelocity(v r3.Vec) FinalValues {
	f.Velocity = v
	f.Tags = f.Tags.With(overlay.VelocityFields...)
	return f
}

// WithColor targets the RGB color.
func (f FinalValues) WithColor(c overlay.Color) FinalValues {
	f.Color = c
	f.Tags = f.Tags.With(overlay.ColorFields...)
	return f
}

// WithAlpha targets the alpha channel.
func (f FinalValues) WithAlpha(a float32) FinalValues {
	f.Color.A = a
	f.Tags = f.Tags.With(overlay.FieldAlpha)
	return f
}

// WithLight targets the emitted light level.
func (f FinalValues) WithLight(level int32) FinalValues {
	f.Light = level
	f.Tags = f.Tags.With(overlay.FieldLight)
	return f
}

// Emission is the particle's current light override.
type Emission struct {
	Level int32 // overlay.NoLight when not emitting
}

// Membership records which spawn site a particle belongs to.
type Membership struct {
	Site SiteID
}

// Scripted carries the generic per-tick script.
type Scripted struct {
	Script overlay.Script
}

// Behavior is the custom data a provider resolves for a spawn site.
// Nil fields are absent.
type Behavior struct {
	Site     SiteID
	Path     *PathState
	Rotation *RotationState
	Final    *FinalValues
	Script   overlay.Script
}
