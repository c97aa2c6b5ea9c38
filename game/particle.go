package game

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/components"
	"github.com/pthm-cable/particlecore/host"
	"github.com/pthm-cable/particlecore/overlay"
)

// Particle is the reference host's particle. It implements host.Particle,
// host.Sited and host.Mover.
type Particle struct {
	id    uint64
	kind  host.Kind
	group host.GroupTag
	site  components.SiteID

	pos     r3.Vec
	vel     r3.Vec
	color   overlay.Color
	angle   float32
	gravity float32
	scale   float32
	vm      float32

	age    int
	maxAge int
	dead   bool
}

// ID returns the particle's spawn number.
func (p *Particle) ID() uint64 { return p.id }

func (p *Particle) Kind() host.Kind { return p.kind }
func (p *Particle) Alive() bool     { return !p.dead }
func (p *Particle) MarkDead()       { p.dead = true }
func (p *Particle) Age() int        { return p.age }
func (p *Particle) SetAge(a int)    { p.age = a }
func (p *Particle) MaxAge() int     { return p.maxAge }

func (p *Particle) Group() (host.GroupTag, bool) {
	return p.group, p.group != ""
}

func (p *Particle) Position() r3.Vec                 { return p.pos }
func (p *Particle) Velocity() r3.Vec                 { return p.vel }
func (p *Particle) SetVelocity(v r3.Vec)             { p.vel = v }
func (p *Particle) Color() overlay.Color             { return p.color }
func (p *Particle) SetColor(c overlay.Color)         { p.color = c }
func (p *Particle) Angle() float32                   { return p.angle }
func (p *Particle) SetAngle(a float32)               { p.angle = a }
func (p *Particle) Gravity() float32                 { return p.gravity }
func (p *Particle) SetGravity(g float32)             { p.gravity = g }
func (p *Particle) Scale() float32                   { return p.scale }
func (p *Particle) SetScale(s float32)               { p.scale = s }
func (p *Particle) VelocityMultiplier() float32      { return p.vm }
func (p *Particle) SetVelocityMultiplier(vm float32) { p.vm = vm }

// SpawnSite implements host.Sited.
func (p *Particle) SpawnSite() components.SiteID { return p.site }

// Move implements host.Mover.
func (p *Particle) Move(delta r3.Vec) { p.pos = r3.Add(p.pos, delta) }

// step applies the host's base physics: gravity, movement, then drag.
func (p *Particle) step(gravity float64) {
	p.vel.Y -= gravity * float64(p.gravity)
	p.pos = r3.Add(p.pos, p.vel)
	p.vel = r3.Scale(float64(p.vm), p.vel)
}

// Groups is the host's per-group population count.
type Groups map[host.GroupTag]int

// AddTo implements host.GroupCounter.
func (g Groups) AddTo(tag host.GroupTag, delta int) {
	g[tag] += delta
}

// Total sums every group.
func (g Groups) Total() int {
	n := 0
	for _, v := range g {
		n += v
	}
	return n
}
