package game

import (
	"fmt"
	"math"
	"sort"

	"github.com/pthm-cable/particlecore/overlay"
)

// Pulse makes a particle's light swell and fade with the given period.
// It keeps a per-particle clock, so each particle gets its own fork.
type Pulse struct {
	Max    int32
	Period int

	n int
}

// Next implements overlay.Script.
func (p *Pulse) Next(env overlay.EnvData) overlay.EnvData {
	p.n++
	period := p.Period
	if period <= 0 {
		period = 1
	}
	phase := 2 * math.Pi * float64(p.n) / float64(period)
	env.Set(overlay.FieldLight, float64(p.Max)*(0.5+0.5*math.Sin(phase)))
	return env
}

// Fork implements overlay.Forker.
func (p *Pulse) Fork() overlay.Script {
	return &Pulse{Max: p.Max, Period: p.Period}
}

type fieldValue struct {
	field overlay.Field
	value float64
}

// SetFields returns a script writing fixed values every tick. Keys are
// overlay tags.
func SetFields(values map[string]float64) (overlay.Script, error) {
	tags := make([]string, 0, len(values))
	for tag := range values {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	fvs := make([]fieldValue, 0, len(tags))
	for _, tag := range tags {
		f, err := overlay.ParseField(tag)
		if err != nil {
			return nil, fmt.Errorf("set script: %w", err)
		}
		fvs = append(fvs, fieldValue{field: f, value: values[tag]})
	}

	return overlay.ScriptFunc(func(env overlay.EnvData) overlay.EnvData {
		for _, fv := range fvs {
			env.Set(fv.field, fv.value)
		}
		return env
	}), nil
}
