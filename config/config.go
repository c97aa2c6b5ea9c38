// Package config provides configuration loading and access for the particle runtime.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/particlecore/overlay"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all runtime configuration parameters.
type Config struct {
	Pool       PoolConfig       `yaml:"pool"`
	Lighting   LightingConfig   `yaml:"lighting"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Emitters   []EmitterConfig  `yaml:"emitters"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PoolConfig holds the per-kind particle cap.
type PoolConfig struct {
	Capacity int `yaml:"capacity"`
}

// LightingConfig holds light override parameters.
type LightingConfig struct {
	MaxLevel int32 `yaml:"max_level"`
	Falloff  bool  `yaml:"falloff"`
}

// SchedulerConfig holds delayed spawn parameters.
type SchedulerConfig struct {
	MaxBatch int `yaml:"max_batch"`
}

// PhysicsConfig holds the reference host's base physics.
type PhysicsConfig struct {
	Gravity float64 `yaml:"gravity"` // Downward acceleration per tick at gravity 1
	Drag    float64 `yaml:"drag"`    // Default velocity multiplier
}

// SimulationConfig holds headless run parameters.
type SimulationConfig struct {
	Seed       int64 `yaml:"seed"`
	MaxTicks   int   `yaml:"max_ticks"`
	ClearEvery int   `yaml:"clear_every"` // Bulk clear period in ticks, 0 disables
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// EmitterConfig describes one spawn site of the reference host.
type EmitterConfig struct {
	Name     string          `yaml:"name"`
	Kind     string          `yaml:"kind"`
	Group    string          `yaml:"group"`
	Rate     int             `yaml:"rate"`  // Particles per burst
	Every    int             `yaml:"every"` // Ticks between bursts
	Delay    int             `yaml:"delay"` // Ticks between spawn request and spawn
	MaxAge   int             `yaml:"max_age"`
	Origin   []float64       `yaml:"origin"`
	Spread   float64         `yaml:"spread"`
	Velocity []float64       `yaml:"velocity"`
	Gravity  float64         `yaml:"gravity"`
	Path     *PathConfig     `yaml:"path,omitempty"`
	Rotation *RotationConfig `yaml:"rotation,omitempty"`
	Final    *FinalConfig    `yaml:"final,omitempty"`
	Script   *ScriptConfig   `yaml:"script,omitempty"`
}

// Custom reports whether particles from this emitter carry custom behavior.
func (e EmitterConfig) Custom() bool {
	return e.Path != nil || e.Rotation != nil || e.Final != nil || e.Script != nil
}

// PathConfig selects a built-in motion path.
type PathConfig struct {
	Type   string  `yaml:"type"` // ellipse, circle, spiral, lissajous, empty
	A      float64 `yaml:"a"`
	B      float64 `yaml:"b"`
	Delta  float64 `yaml:"delta"`
	Radius float64 `yaml:"radius"`
	Pitch  float64 `yaml:"pitch"`
	Axis   string  `yaml:"axis"` // x, y or z; y by default
	Speed  float64 `yaml:"speed"`
}

// RotationConfig describes a per-tick rotation about a pivot.
type RotationConfig struct {
	Axis          []float64 `yaml:"axis"`
	AngleDeg      float64   `yaml:"angle_deg"`
	Center        []float64 `yaml:"center"`
	FrameAxis     []float64 `yaml:"frame_axis"`
	FrameAngleDeg float64   `yaml:"frame_angle_deg"`
}

// FinalConfig holds end-of-life targets. Nil fields are not targeted.
type FinalConfig struct {
	Velocity []float64 `yaml:"velocity,omitempty"`
	Color    []float32 `yaml:"color,omitempty"`
	Alpha    *float32  `yaml:"alpha,omitempty"`
	Light    *int32    `yaml:"light,omitempty"`
}

// ScriptConfig selects a built-in generic script.
type ScriptConfig struct {
	Type   string             `yaml:"type"` // pulse or set
	Light  int32              `yaml:"light"`
	Period int                `yaml:"period"`
	Values map[string]float64 `yaml:"values"` // Tag -> value for "set"
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Gravity32    float32        // Physics.Gravity as float32
	Drag32       float32        // Physics.Drag as float32
	EmitterIndex map[string]int // name -> index into Emitters
}

var (
	pathTypes   = map[string]bool{"ellipse": true, "circle": true, "spiral": true, "lissajous": true, "empty": true}
	scriptTypes = map[string]bool{"pulse": true, "set": true}
	axes        = map[string]bool{"": true, "x": true, "y": true, "z": true}
)

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; a present emitters
		// list replaces the default list.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate checks ranges and names. Every error wraps ErrInvalid.
func (c *Config) Validate() error {
	if c.Pool.Capacity <= 0 {
		return fmt.Errorf("%w: pool.capacity must be positive, got %d", ErrInvalid, c.Pool.Capacity)
	}
	if c.Lighting.MaxLevel < 1 || c.Lighting.MaxLevel > 15 {
		return fmt.Errorf("%w: lighting.max_level must be in [1,15], got %d", ErrInvalid, c.Lighting.MaxLevel)
	}
	if c.Scheduler.MaxBatch <= 0 {
		return fmt.Errorf("%w: scheduler.max_batch must be positive", ErrInvalid)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return fmt.Errorf("%w: telemetry.stats_window must be positive", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Emitters))
	for i, e := range c.Emitters {
		if e.Name == "" {
			return fmt.Errorf("%w: emitters[%d] has no name", ErrInvalid, i)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: duplicate emitter %q", ErrInvalid, e.Name)
		}
		seen[e.Name] = true
		if err := e.validate(); err != nil {
			return fmt.Errorf("emitter %q: %w", e.Name, err)
		}
	}
	return nil
}

func (e EmitterConfig) validate() error {
	if e.Kind == "" {
		return fmt.Errorf("%w: kind is required", ErrInvalid)
	}
	if e.Rate <= 0 || e.MaxAge <= 0 {
		return fmt.Errorf("%w: rate and max_age must be positive", ErrInvalid)
	}
	for name, v := range map[string][]float64{"origin": e.Origin, "velocity": e.Velocity} {
		if len(v) != 0 && len(v) != 3 {
			return fmt.Errorf("%w: %s needs 3 components", ErrInvalid, name)
		}
	}
	if p := e.Path; p != nil {
		if !pathTypes[p.Type] {
			return fmt.Errorf("%w: unknown path type %q", ErrInvalid, p.Type)
		}
		if !axes[p.Axis] {
			return fmt.Errorf("%w: unknown axis %q", ErrInvalid, p.Axis)
		}
	}
	if r := e.Rotation; r != nil && len(r.Axis) != 3 {
		return fmt.Errorf("%w: rotation.axis needs 3 components", ErrInvalid)
	}
	if f := e.Final; f != nil && len(f.Color) != 0 && len(f.Color) != 3 {
		return fmt.Errorf("%w: final.color needs 3 components", ErrInvalid)
	}
	if s := e.Script; s != nil {
		if !scriptTypes[s.Type] {
			return fmt.Errorf("%w: unknown script type %q", ErrInvalid, s.Type)
		}
		for tag := range s.Values {
			if _, err := overlay.ParseField(tag); err != nil {
				return fmt.Errorf("%w: script value: %w", ErrInvalid, err)
			}
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Gravity32 = float32(c.Physics.Gravity)
	c.Derived.Drag32 = float32(c.Physics.Drag)

	for i := range c.Emitters {
		e := &c.Emitters[i]
		if e.Every <= 0 {
			e.Every = 1
		}
		if len(e.Origin) == 0 {
			e.Origin = []float64{0, 0, 0}
		}
		if len(e.Velocity) == 0 {
			e.Velocity = []float64{0, 0, 0}
		}
	}

	c.Derived.EmitterIndex = make(map[string]int, len(c.Emitters))
	for i, e := range c.Emitters {
		c.Derived.EmitterIndex[e.Name] = i
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
