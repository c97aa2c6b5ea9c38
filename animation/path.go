// Package animation holds the pure evaluators that drive particle overlays:
// motion paths, rotation about a pivot and end-of-life blending.
package animation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/components"
)

// Axis selects the plane normal for planar paths.
type Axis uint8

const (
	AxisY Axis = iota // XZ plane
	AxisX             // YZ plane
	AxisZ             // XY plane
)

// PathFunc adapts a function to components.Path.
type PathFunc func(t float64) r3.Vec

// Velocity calls f.
func (f PathFunc) Velocity(t float64) r3.Vec {
	return f(t)
}

// Ellipse traces an ellipse with semi-axes A and B in the plane normal to Axis.
type Ellipse struct {
	A, B float64
	Axis Axis
}

// Velocity implements components.Path.
func (e Ellipse) Velocity(t float64) r3.Vec {
	c, s := math.Cos(t)*e.A, math.Sin(t)*e.B
	switch e.Axis {
	case AxisX:
		return r3.Vec{Y: c, Z: s}
	case AxisZ:
		return r3.Vec{X: c, Y: s}
	default:
		return r3.Vec{X: c, Z: s}
	}
}

// Circle is an Ellipse with equal semi-axes.
func Circle(radius float64, axis Axis) Ellipse {
	return Ellipse{A: radius, B: radius, Axis: axis}
}

// Spiral rises by Pitch per unit time while circling at Radius.
type Spiral struct {
	Radius float64
	Pitch  float64
}

// Velocity implements components.Path.
func (s Spiral) Velocity(t float64) r3.Vec {
	return r3.Vec{X: math.Cos(t) * s.Radius, Y: t * s.Pitch, Z: math.Sin(t) * s.Radius}
}

// Lissajous traces sin(A t), sin(B t + Delta) in the XY plane.
type Lissajous struct {
	A, B  float64
	Delta float64
}

// Velocity implements components.Path.
func (l Lissajous) Velocity(t float64) r3.Vec {
	return r3.Vec{X: math.Sin(l.A * t), Y: math.Sin(l.B*t + l.Delta)}
}

// StepPath advances the path clock by its speed and evaluates it.
// Returns false, leaving st untouched, for the empty path.
func StepPath(st *components.PathState) (r3.Vec, bool) {
	if st == nil || components.IsEmptyPath(st.Path) {
		return r3.Vec{}, false
	}
	st.Elapsed += st.Speed
	return st.Path.Velocity(st.Elapsed), true
}
