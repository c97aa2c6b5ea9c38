package host

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/overlay"
)

type fakeParticle struct {
	pos, vel r3.Vec
	color    overlay.Color
	angle    float32
	gravity  float32
	scale    float32
	vm       float32
	age      int
	maxAge   int
	dead     bool
}

func (p *fakeParticle) Kind() Kind                      { return "test" }
func (p *fakeParticle) Alive() bool                     { return !p.dead }
func (p *fakeParticle) MarkDead()                       { p.dead = true }
func (p *fakeParticle) Age() int                        { return p.age }
func (p *fakeParticle) SetAge(age int)                  { p.age = age }
func (p *fakeParticle) MaxAge() int                     { return p.maxAge }
func (p *fakeParticle) Group() (GroupTag, bool)         { return "", false }
func (p *fakeParticle) Position() r3.Vec                { return p.pos }
func (p *fakeParticle) Velocity() r3.Vec                { return p.vel }
func (p *fakeParticle) SetVelocity(v r3.Vec)            { p.vel = v }
func (p *fakeParticle) Color() overlay.Color            { return p.color }
func (p *fakeParticle) SetColor(c overlay.Color)        { p.color = c }
func (p *fakeParticle) Angle() float32                  { return p.angle }
func (p *fakeParticle) SetAngle(a float32)              { p.angle = a }
func (p *fakeParticle) Gravity() float32                { return p.gravity }
func (p *fakeParticle) SetGravity(g float32)            { p.gravity = g }
func (p *fakeParticle) Scale() float32                  { return p.scale }
func (p *fakeParticle) SetScale(s float32)              { p.scale = s }
func (p *fakeParticle) VelocityMultiplier() float32     { return p.vm }
func (p *fakeParticle) SetVelocityMultiplier(m float32) { p.vm = m }

func TestCaptureCopiesState(t *testing.T) {
	p := &fakeParticle{
		pos:     r3.Vec{X: 1, Y: 2, Z: 3},
		vel:     r3.Vec{X: 0.1},
		color:   overlay.Color{R: 0.2, G: 0.3, B: 0.4, A: 1},
		angle:   0.5,
		gravity: 0.06,
		scale:   2,
		vm:      0.98,
	}
	env := Capture(p, 7)

	if env.Position != p.pos || env.Velocity != p.vel || env.Color != p.color {
		t.Errorf("vector state not copied: %+v", env)
	}
	if env.Light != 7 || env.Angle != 0.5 || env.Gravity != 0.06 || env.Scale != 2 || env.VelocityMultiplier != 0.98 {
		t.Errorf("scalar state not copied: %+v", env)
	}
	if env.Tagged() {
		t.Error("captured record should be untagged")
	}
}

func TestApplyOnlyTaggedFields(t *testing.T) {
	p := &fakeParticle{
		vel:     r3.Vec{X: 1, Y: 1, Z: 1},
		color:   overlay.White,
		gravity: 0.5,
		scale:   1,
		vm:      1,
	}
	env := overlay.EnvData{
		Velocity: r3.Vec{X: 9, Y: 9, Z: 9},
		Color:    overlay.Color{R: 0, G: 0, B: 0, A: 0},
		Light:    10,
		Gravity:  3,
		Scale:    4,
		Tags:     overlay.Tags{overlay.FieldVX, overlay.FieldLight},
	}

	var gotLight int32 = -1
	Apply(p, env, func(level int32) { gotLight = level })

	if p.vel != (r3.Vec{X: 9, Y: 1, Z: 1}) {
		t.Errorf("velocity = %+v, want only X overwritten", p.vel)
	}
	if gotLight != 10 {
		t.Errorf("light callback got %d, want 10", gotLight)
	}
	if p.color != overlay.White {
		t.Errorf("color changed: %+v", p.color)
	}
	if p.gravity != 0.5 || p.scale != 1 || p.vm != 1 {
		t.Errorf("untagged scalars changed: gravity=%v scale=%v vm=%v", p.gravity, p.scale, p.vm)
	}
}

func TestApplyEveryField(t *testing.T) {
	p := &fakeParticle{}
	env := overlay.EnvData{
		Velocity:           r3.Vec{X: 1, Y: 2, Z: 3},
		Color:              overlay.Color{R: 0.1, G: 0.2, B: 0.3, A: 0.4},
		Angle:              1.5,
		Light:              4,
		Gravity:            0.2,
		Scale:              3,
		VelocityMultiplier: 0.9,
		Tags:               overlay.AllFields,
	}
	Apply(p, env, nil)

	if p.vel != env.Velocity || p.color != env.Color {
		t.Errorf("vector fields not applied: vel=%+v color=%+v", p.vel, p.color)
	}
	if p.angle != 1.5 || p.gravity != 0.2 || p.scale != 3 || p.vm != 0.9 {
		t.Errorf("scalar fields not applied: %+v", p)
	}
}
