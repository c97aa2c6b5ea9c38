package game

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/animation"
	"github.com/pthm-cable/particlecore/components"
	"github.com/pthm-cable/particlecore/config"
	"github.com/pthm-cable/particlecore/host"
	"github.com/pthm-cable/particlecore/overlay"
)

// emitter is a configured spawn site.
type emitter struct {
	cfg  config.EmitterConfig
	site components.SiteID // 0 when particles carry no custom behavior
}

// spawnRequest is a delayed spawn waiting in the scheduler.
type spawnRequest struct {
	emitter int
}

func vec(v []float64) r3.Vec {
	if len(v) != 3 {
		return r3.Vec{}
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func parseAxis(s string) animation.Axis {
	switch s {
	case "x":
		return animation.AxisX
	case "z":
		return animation.AxisZ
	default:
		return animation.AxisY
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// buildPath converts a path config into path state.
func buildPath(pc *config.PathConfig) (*components.PathState, error) {
	var path components.Path
	switch pc.Type {
	case "ellipse":
		path = animation.Ellipse{A: pc.A, B: pc.B, Axis: parseAxis(pc.Axis)}
	case "circle":
		path = animation.Circle(pc.Radius, parseAxis(pc.Axis))
	case "spiral":
		path = animation.Spiral{Radius: pc.Radius, Pitch: pc.Pitch}
	case "lissajous":
		path = animation.Lissajous{A: pc.A, B: pc.B, Delta: pc.Delta}
	case "empty":
		path = components.EmptyPath
	default:
		return nil, fmt.Errorf("unknown path type %q", pc.Type)
	}
	speed := pc.Speed
	if speed <= 0 {
		speed = components.DefaultPathSpeed
	}
	return &components.PathState{Path: path, Speed: speed}, nil
}

// buildRotation converts a rotation config into rotation state.
func buildRotation(rc *config.RotationConfig) *components.RotationState {
	st := &components.RotationState{
		Quat:   animation.AxisAngle(vec(rc.Axis), radians(rc.AngleDeg)),
		Center: vec(rc.Center),
	}
	if len(rc.FrameAxis) == 3 {
		st.Frame = animation.AxisAngle(vec(rc.FrameAxis), radians(rc.FrameAngleDeg))
	}
	return st
}

// buildFinal converts end-of-life targets into final values.
func buildFinal(fc *config.FinalConfig) *components.FinalValues {
	fv := components.FinalValues{Active: true}
	if len(fc.Velocity) == 3 {
		fv = fv.WithVelocity(vec(fc.Velocity))
	}
	if len(fc.Color) == 3 {
		fv = fv.WithColor(overlay.Color{R: fc.Color[0], G: fc.Color[1], B: fc.Color[2]})
	}
	if fc.Alpha != nil {
		fv = fv.WithAlpha(*fc.Alpha)
	}
	if fc.Light != nil {
		fv = fv.WithLight(*fc.Light)
	}
	return &fv
}

// buildScript converts a script config into a generic tick script.
func buildScript(sc *config.ScriptConfig) (overlay.Script, error) {
	switch sc.Type {
	case "pulse":
		return &Pulse{Max: sc.Light, Period: sc.Period}, nil
	case "set":
		return SetFields(sc.Values)
	}
	return nil, fmt.Errorf("unknown script type %q", sc.Type)
}

// BuildBehavior converts an emitter's config into the behavior its
// particles resolve to. Returns nil for emitters without custom behavior.
func BuildBehavior(e config.EmitterConfig) (*components.Behavior, error) {
	if !e.Custom() {
		return nil, nil
	}
	b := &components.Behavior{}
	if e.Path != nil {
		path, err := buildPath(e.Path)
		if err != nil {
			return nil, fmt.Errorf("emitter %q: %w", e.Name, err)
		}
		b.Path = path
	}
	if e.Rotation != nil {
		b.Rotation = buildRotation(e.Rotation)
	}
	if e.Final != nil {
		b.Final = buildFinal(e.Final)
	}
	if e.Script != nil {
		script, err := buildScript(e.Script)
		if err != nil {
			return nil, fmt.Errorf("emitter %q: %w", e.Name, err)
		}
		b.Script = script
	}
	return b, nil
}

// newParticle creates a particle for emitter em around its origin.
func (g *Game) newParticle(em *emitter) *Particle {
	cfg := em.cfg
	g.nextID++

	jitter := r3.Vec{
		X: (g.rng.Float64()*2 - 1) * cfg.Spread,
		Y: (g.rng.Float64()*2 - 1) * cfg.Spread,
		Z: (g.rng.Float64()*2 - 1) * cfg.Spread,
	}
	return &Particle{
		id:      g.nextID,
		kind:    host.Kind(cfg.Kind),
		group:   host.GroupTag(cfg.Group),
		site:    em.site,
		pos:     r3.Add(vec(cfg.Origin), jitter),
		vel:     vec(cfg.Velocity),
		color:   overlay.White,
		gravity: float32(cfg.Gravity),
		scale:   1,
		vm:      g.config().Derived.Drag32,
		maxAge:  cfg.MaxAge,
	}
}
