package host

import (
	"fmt"

	"github.com/pthm-cable/particlecore/overlay"
)

// Capture snapshots the particle's mutable state into an untagged EnvData.
func Capture(p Particle, light int32) overlay.EnvData {
	return overlay.EnvData{
		Velocity:           p.Velocity(),
		Position:           p.Position(),
		Color:              p.Color(),
		Angle:              p.Angle(),
		Light:              light,
		Gravity:            p.Gravity(),
		Scale:              p.Scale(),
		VelocityMultiplier: p.VelocityMultiplier(),
	}
}

// Apply writes every tagged field of env into p, in tag order.
// FieldLight is not a particle field; it is reported through onLight.
func Apply(p Particle, env overlay.EnvData, onLight func(level int32)) {
	for _, f := range env.Tags {
		switch f {
		case overlay.FieldVX:
			v := p.Velocity()
			v.X = env.Velocity.X
			p.SetVelocity(v)
		case overlay.FieldVY:
			v := p.Velocity()
			v.Y = env.Velocity.Y
			p.SetVelocity(v)
		case overlay.FieldVZ:
			v := p.Velocity()
			v.Z = env.Velocity.Z
			p.SetVelocity(v)
		case overlay.FieldRed:
			c := p.Color()
			c.R = env.Color.R
			p.SetColor(c)
		case overlay.FieldGreen:
			c := p.Color()
			c.G = env.Color.G
			p.SetColor(c)
		case overlay.FieldBlue:
			c := p.Color()
			c.B = env.Color.B
			p.SetColor(c)
		case overlay.FieldAlpha:
			c := p.Color()
			c.A = env.Color.A
			p.SetColor(c)
		case overlay.FieldAngle:
			p.SetAngle(env.Angle)
		case overlay.FieldLight:
			if onLight != nil {
				onLight(env.Light)
			}
		case overlay.FieldGravity:
			p.SetGravity(env.Gravity)
		case overlay.FieldScale:
			p.SetScale(env.Scale)
		case overlay.FieldVelocityMultiplier:
			p.SetVelocityMultiplier(env.VelocityMultiplier)
		default:
			panic(fmt.Sprintf("host: unhandled overlay field %v", f))
		}
	}
}
