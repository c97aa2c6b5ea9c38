package animation

import (
	"math"

	"github.com/pthm-cable/particlecore/components"
	"github.com/pthm-cable/particlecore/overlay"
)

// Progress returns age/maxAge clamped to [0, 1].
func Progress(age, maxAge int) float64 {
	if maxAge <= 0 {
		return 1
	}
	p := float64(age) / float64(maxAge)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

// Blend moves cur towards the final-value targets by progress.
// The result carries only the fields fv targets. ok is false when fv is
// inert, so an inactive state is never confused with one whose fields
// all reached their targets.
func Blend(cur overlay.EnvData, fv components.FinalValues, progress float64) (out overlay.EnvData, ok bool) {
	if !fv.Active || len(fv.Tags) == 0 {
		return overlay.EnvData{}, false
	}
	out = cur
	out.Tags = make(overlay.Tags, 0, len(fv.Tags))
	color := cur.Color.Lerp(fv.Color, float32(progress))

	for _, f := range fv.Tags {
		switch f {
		case overlay.FieldVX:
			out.Velocity.X = lerp(cur.Velocity.X, fv.Velocity.X, progress)
		case overlay.FieldVY:
			out.Velocity.Y = lerp(cur.Velocity.Y, fv.Velocity.Y, progress)
		case overlay.FieldVZ:
			out.Velocity.Z = lerp(cur.Velocity.Z, fv.Velocity.Z, progress)
		case overlay.FieldRed:
			out.Color.R = color.R
		case overlay.FieldGreen:
			out.Color.G = color.G
		case overlay.FieldBlue:
			out.Color.B = color.B
		case overlay.FieldAlpha:
			out.Color.A = color.A
		case overlay.FieldLight:
			from := cur.Light
			if from < 0 {
				from = 0
			}
			out.Light = int32(math.Round(lerp(float64(from), float64(fv.Light), progress)))
		default:
			// No target exists for this field.
			continue
		}
		out.Tags = append(out.Tags, f)
	}
	return out, len(out.Tags) > 0
}
