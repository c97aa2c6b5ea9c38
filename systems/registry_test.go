package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/particlecore/animation"
	"github.com/pthm-cable/particlecore/components"
	"github.com/pthm-cable/particlecore/host"
	"github.com/pthm-cable/particlecore/lighting"
	"github.com/pthm-cable/particlecore/overlay"
)

type testParticle struct {
	site    components.SiteID
	pos     r3.Vec
	vel     r3.Vec
	color   overlay.Color
	angle   float32
	gravity float32
	scale   float32
	vm      float32
	age     int
	maxAge  int
	dead    bool
}

func newTestParticle(site components.SiteID) *testParticle {
	return &testParticle{
		site:    site,
		color:   overlay.White,
		gravity: 1,
		scale:   1,
		vm:      0.98,
		maxAge:  100,
	}
}

func (p *testParticle) Kind() host.Kind                  { return "spark" }
func (p *testParticle) Alive() bool                      { return !p.dead }
func (p *testParticle) MarkDead()                        { p.dead = true }
func (p *testParticle) Age() int                         { return p.age }
func (p *testParticle) SetAge(a int)                     { p.age = a }
func (p *testParticle) MaxAge() int                      { return p.maxAge }
func (p *testParticle) Group() (host.GroupTag, bool)     { return "", false }
func (p *testParticle) Position() r3.Vec                 { return p.pos }
func (p *testParticle) Velocity() r3.Vec                 { return p.vel }
func (p *testParticle) SetVelocity(v r3.Vec)             { p.vel = v }
func (p *testParticle) Color() overlay.Color             { return p.color }
func (p *testParticle) SetColor(c overlay.Color)         { p.color = c }
func (p *testParticle) Angle() float32                   { return p.angle }
func (p *testParticle) SetAngle(a float32)               { p.angle = a }
func (p *testParticle) Gravity() float32                 { return p.gravity }
func (p *testParticle) SetGravity(g float32)             { p.gravity = g }
func (p *testParticle) Scale() float32                   { return p.scale }
func (p *testParticle) SetScale(s float32)               { p.scale = s }
func (p *testParticle) VelocityMultiplier() float32      { return p.vm }
func (p *testParticle) SetVelocityMultiplier(vm float32) { p.vm = vm }
func (p *testParticle) SpawnSite() components.SiteID     { return p.site }
func (p *testParticle) Move(d r3.Vec)                    { p.pos = r3.Add(p.pos, d) }

func newTestRegistry() (*Registry, *SpawnTable, *lighting.Index[ecs.Entity]) {
	table := NewSpawnTable()
	lights := lighting.NewIndex[ecs.Entity](lighting.MaxLevel, false)
	return NewRegistry(table, lights), table, lights
}

func vecNear(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestTick_ResolvesOnce(t *testing.T) {
	reg, table, _ := newTestRegistry()
	site := table.Register(&components.Behavior{Path: &components.PathState{Path: animation.Circle(1, animation.AxisY)}})

	tracked := newTestParticle(site)
	plain := newTestParticle(999)

	for i := 0; i < 5; i++ {
		if got := reg.Tick(tracked); got != Overlaid {
			t.Fatalf("tick %d: tracked result = %v", i, got)
		}
		if got := reg.Tick(plain); got != Untracked {
			t.Fatalf("tick %d: plain result = %v", i, got)
		}
	}
	if table.Lookups() != 2 {
		t.Errorf("provider consulted %d times, want 2", table.Lookups())
	}
	if !reg.Tracked(tracked) || reg.Tracked(plain) {
		t.Error("Tracked flags wrong")
	}
	if !reg.Known(plain) {
		t.Error("no-data resolution should be cached")
	}
	if plain.age != 5 {
		t.Errorf("untracked particle age = %d, want 5", plain.age)
	}
}

func TestTick_AgeOut(t *testing.T) {
	reg, table, _ := newTestRegistry()
	site := table.Register(&components.Behavior{
		Path: &components.PathState{Path: animation.PathFunc(func(float64) r3.Vec { return r3.Vec{X: 1} })},
	})
	p := newTestParticle(site)
	p.maxAge = 2
	p.vel = r3.Vec{Y: 5}

	reg.Tick(p)
	reg.Tick(p)
	if p.dead {
		t.Fatal("particle died at max age, should die after exceeding it")
	}
	p.vel = r3.Vec{Y: 5}
	if got := reg.Tick(p); got != Expired {
		t.Fatalf("result = %v, want expired", got)
	}
	if !p.dead {
		t.Error("particle should be dead")
	}
	if p.vel != (r3.Vec{Y: 5}) {
		t.Errorf("overlay ran on the expiring tick: vel = %v", p.vel)
	}
}

func TestTick_PathOverwritesVelocity(t *testing.T) {
	reg, table, _ := newTestRegistry()
	site := table.Register(&components.Behavior{
		Path: &components.PathState{
			Path:  animation.PathFunc(func(t float64) r3.Vec { return r3.Vec{X: t} }),
			Speed: 0.5,
		},
	})
	p := newTestParticle(site)
	p.vel = r3.Vec{X: 10, Y: 10}

	reg.Tick(p)
	if !vecNear(p.vel, r3.Vec{X: 0.5}) {
		t.Errorf("after 1 tick vel = %v, want {0.5 0 0}", p.vel)
	}
	reg.Tick(p)
	if !vecNear(p.vel, r3.Vec{X: 1}) {
		t.Errorf("after 2 ticks vel = %v, want {1 0 0}", p.vel)
	}
}

func TestTick_PathStateIsPerParticle(t *testing.T) {
	reg, table, _ := newTestRegistry()
	site := table.Register(&components.Behavior{
		Path: &components.PathState{Path: animation.PathFunc(func(t float64) r3.Vec { return r3.Vec{X: t} })},
	})
	a := newTestParticle(site)
	b := newTestParticle(site)

	reg.Tick(a)
	reg.Tick(a)
	reg.Tick(b)
	if math.Abs(b.vel.X-components.DefaultPathSpeed) > 1e-9 {
		t.Errorf("second particle shares path clock: vel.X = %f", b.vel.X)
	}
}

func TestTick_EmptyPathLeavesVelocity(t *testing.T) {
	reg, table, _ := newTestRegistry()
	site := table.Register(&components.Behavior{Path: &components.PathState{Path: components.EmptyPath}})
	p := newTestParticle(site)
	p.vel = r3.Vec{X: 3}
	reg.Tick(p)
	if p.vel != (r3.Vec{X: 3}) {
		t.Errorf("empty path changed velocity to %v", p.vel)
	}
}

func TestTick_IdentityRotationIsNoop(t *testing.T) {
	reg, table, _ := newTestRegistry()
	site := table.Register(&components.Behavior{
		Rotation: &components.RotationState{Quat: components.IdentityQuat, Center: r3.Vec{X: 1}},
	})
	p := newTestParticle(site)
	p.pos = r3.Vec{X: 4, Y: 2}
	p.vel = r3.Vec{X: 0.25, Y: -0.5, Z: 1}

	before := *p
	reg.Tick(p)
	before.age = p.age
	if *p != before {
		t.Errorf("identity rotation mutated particle:\n got %+v\nwant %+v", *p, before)
	}
}

func TestTick_RotationTakesPrecedenceOverPath(t *testing.T) {
	reg, table, _ := newTestRegistry()
	q := animation.AxisAngle(r3.Vec{Z: 1}, math.Pi/2)
	site := table.Register(&components.Behavior{
		Path:     &components.PathState{Path: animation.PathFunc(func(float64) r3.Vec { return r3.Vec{Z: 9} })},
		Rotation: &components.RotationState{Quat: q},
	})
	p := newTestParticle(site)
	p.pos = r3.Vec{X: 1}

	reg.Tick(p)
	// offset (1,0,0) rotated a quarter turn about Z is (0,1,0).
	want := r3.Vec{X: 1, Y: -1}
	if !vecNear(p.vel, want) {
		t.Errorf("vel = %v, want %v", p.vel, want)
	}
}

func TestTick_FinalValuesBlend(t *testing.T) {
	reg, table, _ := newTestRegistry()
	fv := components.FinalValues{Active: true}.WithAlpha(0)
	site := table.Register(&components.Behavior{Final: &fv})
	p := newTestParticle(site)
	p.maxAge = 4

	for i := 0; i < 4; i++ {
		reg.Tick(p)
	}
	if p.color.A != 0 {
		t.Errorf("alpha at end of life = %f, want 0", p.color.A)
	}
	if p.color.R != 1 {
		t.Errorf("untargeted red changed to %f", p.color.R)
	}
}

func TestTick_TagGatedScript(t *testing.T) {
	reg, table, lights := newTestRegistry()
	script := overlay.ScriptFunc(func(env overlay.EnvData) overlay.EnvData {
		env.Velocity = r3.Vec{X: 7, Y: 7, Z: 7}
		env.Color = overlay.Color{}
		env.Scale = 9
		env.Gravity = 9
		env.Light = 10
		env.Tags = overlay.Tags{overlay.FieldVX, overlay.FieldLight}
		return env
	})
	site := table.Register(&components.Behavior{Script: script})
	p := newTestParticle(site)
	p.vel = r3.Vec{X: 1, Y: 2, Z: 3}

	reg.Tick(p)

	if p.vel != (r3.Vec{X: 7, Y: 2, Z: 3}) {
		t.Errorf("vel = %v, want only X replaced", p.vel)
	}
	if p.color != overlay.White || p.scale != 1 || p.gravity != 1 {
		t.Errorf("untagged fields changed: color=%v scale=%f gravity=%f", p.color, p.scale, p.gravity)
	}
	if got := reg.Light(p); got != 10 {
		t.Errorf("Light = %d, want 10", got)
	}
	if lvl, ok := lights.Level(lighting.Cell{}); !ok || lvl != 10 {
		t.Errorf("index level = %d,%v, want 10", lvl, ok)
	}
}

func TestTick_ScriptSeesEarlierSteps(t *testing.T) {
	reg, table, _ := newTestRegistry()
	var seen r3.Vec
	site := table.Register(&components.Behavior{
		Path: &components.PathState{Path: animation.PathFunc(func(float64) r3.Vec { return r3.Vec{Y: 4} })},
		Script: overlay.ScriptFunc(func(env overlay.EnvData) overlay.EnvData {
			seen = env.Velocity
			return env
		}),
	})
	reg.Tick(newTestParticle(site))
	if seen != (r3.Vec{Y: 4}) {
		t.Errorf("script saw velocity %v, want path velocity", seen)
	}
}

type countingScript struct{ n int }

func (c *countingScript) Next(env overlay.EnvData) overlay.EnvData {
	c.n++
	env.Angle = float32(c.n)
	env.Tags = overlay.Tags{overlay.FieldAngle}
	return env
}

func (c *countingScript) Fork() overlay.Script { return &countingScript{} }

func TestTick_StatefulScriptForkedPerParticle(t *testing.T) {
	reg, table, _ := newTestRegistry()
	site := table.Register(&components.Behavior{Script: &countingScript{}})
	a := newTestParticle(site)
	b := newTestParticle(site)

	reg.Tick(a)
	reg.Tick(a)
	reg.Tick(b)
	if a.angle != 2 || b.angle != 1 {
		t.Errorf("angles a=%f b=%f, want 2 and 1", a.angle, b.angle)
	}
}

func TestTick_NegativeLightWithdraws(t *testing.T) {
	reg, table, lights := newTestRegistry()
	level := int32(8)
	site := table.Register(&components.Behavior{
		Script: overlay.ScriptFunc(func(env overlay.EnvData) overlay.EnvData {
			env.Light = level
			env.Tags = overlay.Tags{overlay.FieldLight}
			return env
		}),
	})
	p := newTestParticle(site)
	reg.Tick(p)
	if lights.Len() != 1 {
		t.Fatalf("index len = %d, want 1", lights.Len())
	}
	level = overlay.NoLight
	reg.Tick(p)
	if lights.Len() != 0 || reg.Light(p) != overlay.NoLight {
		t.Errorf("light not withdrawn: len=%d light=%d", lights.Len(), reg.Light(p))
	}
}

func TestOnDeath_ReleasesLightOnce(t *testing.T) {
	reg, table, lights := newTestRegistry()
	site := table.Register(&components.Behavior{
		Script: overlay.ScriptFunc(func(env overlay.EnvData) overlay.EnvData {
			env.Light = 12
			env.Tags = overlay.Tags{overlay.FieldLight}
			return env
		}),
	})
	p := newTestParticle(site)
	p.pos = r3.Vec{X: 3.5, Y: 1.2, Z: -0.5}
	reg.Tick(p)

	cell := lighting.CellOf(p.pos)
	if _, ok := lights.Level(cell); !ok {
		t.Fatal("light not recorded")
	}

	reg.OnDeath(p)
	reg.OnDeath(p)

	if _, ok := lights.Level(cell); ok {
		t.Error("light outlived particle")
	}
	if reg.Len() != 0 || reg.SiteSize(site) != 0 {
		t.Errorf("registry not empty: len=%d site=%d", reg.Len(), reg.SiteSize(site))
	}
	if s := reg.Stats(); s.Released != 1 {
		t.Errorf("Released = %d, want 1", s.Released)
	}
}

func TestOnDeath_UnknownIsNoop(t *testing.T) {
	reg, _, _ := newTestRegistry()
	reg.OnDeath(newTestParticle(1))
	if reg.Len() != 0 {
		t.Error("unexpected entries")
	}
}

func TestEmittingCount(t *testing.T) {
	reg, table, _ := newTestRegistry()
	lit := table.Register(&components.Behavior{
		Script: overlay.ScriptFunc(func(env overlay.EnvData) overlay.EnvData {
			env.Light = 5
			env.Tags = overlay.Tags{overlay.FieldLight}
			return env
		}),
	})
	dark := table.Register(&components.Behavior{Path: &components.PathState{Path: components.EmptyPath}})

	reg.Tick(newTestParticle(lit))
	reg.Tick(newTestParticle(lit))
	reg.Tick(newTestParticle(dark))

	if reg.Len() != 3 {
		t.Errorf("Len = %d, want 3", reg.Len())
	}
	if reg.Emitting() != 2 {
		t.Errorf("Emitting = %d, want 2", reg.Emitting())
	}
}

func TestReset(t *testing.T) {
	reg, table, lights := newTestRegistry()
	site := table.Register(&components.Behavior{
		Script: overlay.ScriptFunc(func(env overlay.EnvData) overlay.EnvData {
			env.Light = 5
			env.Tags = overlay.Tags{overlay.FieldLight}
			return env
		}),
	})
	p := newTestParticle(site)
	reg.Tick(p)
	reg.RequestKill(site)
	reg.Reset()

	if reg.Len() != 0 || lights.Len() != 0 || reg.Known(p) {
		t.Errorf("reset left state: len=%d lights=%d", reg.Len(), lights.Len())
	}
	if reg.FlushKills() != 0 {
		t.Error("reset should drop deferred kills")
	}
}

func TestTick_LightClampedOnce(t *testing.T) {
	reg, table, lights := newTestRegistry()
	site := table.Register(&components.Behavior{
		Script: overlay.ScriptFunc(func(env overlay.EnvData) overlay.EnvData {
			env.Light = 20
			env.Tags = overlay.Tags{overlay.FieldLight}
			return env
		}),
	})
	p := newTestParticle(site)
	reg.Tick(p)

	level, ok := lights.Level(lighting.CellOf(p.Position()))
	if !ok || level != lighting.MaxLevel {
		t.Errorf("index level = %d,%v, want %d", level, ok, lighting.MaxLevel)
	}
	if got := reg.Light(p); got != level {
		t.Errorf("Light = %d, index holds %d", got, level)
	}
}
