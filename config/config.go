// Package config provides configuration loading and access for the
// simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Workers   WorkersConfig   `yaml:"workers"`
	Edges     EdgesConfig     `yaml:"edges"`
	Render    RenderConfig    `yaml:"render"`
	Scene     SceneConfig     `yaml:"scene"`
	Emitters  []EmitterConfig `yaml:"emitters"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the active simulation rectangle. The backing store is
// always allocated at the maximum supported resolution; these are the
// bounds actually simulated (0 = use screen size).
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// WorkersConfig holds compute-pool sizing.
type WorkersConfig struct {
	Count    int `yaml:"count"`     // 0 = hardware parallelism minus reserved
	Reserved int `yaml:"reserved"`  // cores kept for the host and render threads
	SettleMS int `yaml:"settle_ms"` // startup settle window for READY arrivals
}

// EdgesConfig holds the boundary condition of each simulation edge, either
// "wall" (default) or "open".
type EdgesConfig struct {
	Top    string `yaml:"top"`
	Left   string `yaml:"left"`
	Bottom string `yaml:"bottom"`
	Right  string `yaml:"right"`
}

// RenderConfig holds render-worker settings.
type RenderConfig struct {
	// DoubleBuffer trades a per-frame buffer swap for tear-free output.
	// Off by default: the single-buffer tearing is deliberate.
	DoubleBuffer bool `yaml:"double_buffer"`
}

// SceneConfig holds world-seeding parameters.
type SceneConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Seed      int64   `yaml:"seed"` // 0 = time-based
	Scale     float64 `yaml:"scale"`
	Threshold float64 `yaml:"threshold"`
	SandFill  float64 `yaml:"sand_fill"`
	WaterFill float64 `yaml:"water_fill"`
}

// EmitterConfig describes one particle source created at startup.
type EmitterConfig struct {
	X       int     `yaml:"x"`
	Y       int     `yaml:"y"`
	Species uint16  `yaml:"species"`
	Rate    float64 `yaml:"rate"`
	Radius  int     `yaml:"radius"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow    int `yaml:"perf_window"`    // refreshes per stats window
	StallFrames   int `yaml:"stall_frames"`   // refreshes without a tick before warning
	LogEveryTicks int `yaml:"log_every_ticks"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldWidth  int // effective active bounds
	WorldHeight int
	Workers     int // resolved compute-worker count
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	w := c.World.Width
	if w == 0 {
		w = c.Screen.Width
	}
	h := c.World.Height
	if h == 0 {
		h = c.Screen.Height
	}
	c.Derived.WorldWidth = w
	c.Derived.WorldHeight = h

	// Pool size is chosen once at startup and never changes at runtime.
	workers := c.Workers.Count
	if workers <= 0 {
		workers = runtime.NumCPU() - c.Workers.Reserved
	}
	if workers < 1 {
		workers = 1
	}
	c.Derived.Workers = workers
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
