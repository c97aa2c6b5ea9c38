package overlay

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NoLight marks the absence of a light override.
const NoLight int32 = -1

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// White is the default particle tint.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Lerp interpolates from c towards to by t.
func (c Color) Lerp(to Color, t float32) Color {
	return Color{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
		A: c.A + (to.A-c.A)*t,
	}
}

// EnvData is the overlay record produced once per particle per tick.
// Only fields named in Tags are written back to the particle.
type EnvData struct {
	Velocity           r3.Vec
	Position           r3.Vec
	Color              Color
	Angle              float32
	Light              int32
	Gravity            float32
	Scale              float32
	VelocityMultiplier float32

	Tags Tags
}

// Default returns an untagged record with neutral values.
func Default() EnvData {
	return EnvData{
		Color:              White,
		Light:              NoLight,
		Scale:              1,
		VelocityMultiplier: 1,
	}
}

// Tagged reports whether the record asks for any write at all.
func (e EnvData) Tagged() bool {
	return len(e.Tags) > 0
}

// Set writes v into field f and tags it.
func (e *EnvData) Set(f Field, v float64) {
	switch f {
	case FieldVX:
		e.Velocity.X = v
	case FieldVY:
		e.Velocity.Y = v
	case FieldVZ:
		e.Velocity.Z = v
	case FieldRed:
		e.Color.R = float32(v)
	case FieldGreen:
		e.Color.G = float32(v)
	case FieldBlue:
		e.Color.B = float32(v)
	case FieldAlpha:
		e.Color.A = float32(v)
	case FieldAngle:
		e.Angle = float32(v)
	case FieldLight:
		e.Light = int32(math.Round(v))
	case FieldGravity:
		e.Gravity = float32(v)
	case FieldScale:
		e.Scale = float32(v)
	case FieldVelocityMultiplier:
		e.VelocityMultiplier = float32(v)
	default:
		panic(fmt.Sprintf("overlay: unhandled field %v", f))
	}
	e.Tags = e.Tags.With(f)
}

// Script is the generic scripted per-particle tick.
type Script interface {
	Next(env EnvData) EnvData
}

// Forker is implemented by stateful scripts; each particle gets its own fork.
type Forker interface {
	Fork() Script
}

// Instance returns a per-particle script: a fork if s keeps state, else s.
func Instance(s Script) Script {
	if f, ok := s.(Forker); ok {
		return f.Fork()
	}
	return s
}

// ScriptFunc adapts a function to Script.
type ScriptFunc func(env EnvData) EnvData

// Next calls f.
func (f ScriptFunc) Next(env EnvData) EnvData {
	return f(env)
}
