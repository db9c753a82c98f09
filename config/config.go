// Package config provides configuration loading and access for the renderer.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ringfield/anim"
	"github.com/pthm-cable/ringfield/paint"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all renderer configuration parameters.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Animation AnimationConfig `yaml:"animation"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// RenderConfig holds rasterization parameters.
type RenderConfig struct {
	Width             int    `yaml:"width"`               // Output width in pixels; height follows the 4:5 canvas
	Chunks            string `yaml:"chunks"`              // Chunk grid as "COLSxROWS"
	Workers           int    `yaml:"workers"`             // Painter goroutines (0 = GOMAXPROCS)
	MinCircleSteps    int    `yaml:"min_circle_steps"`    // Polygon floor for small circles
	FastCollisions    bool   `yaml:"fast_collisions"`     // Approximate distance screen during placement
	InflateDrawRadius bool   `yaml:"inflate_draw_radius"` // Widen tiny circles for small outputs
}

// ViewportConfig selects the rendered region of the virtual canvas.
type ViewportConfig struct {
	Spec string `yaml:"spec"` // "width,height,left,top" as canvas fractions; empty renders everything
}

// AnimationConfig holds frame sequencing settings.
type AnimationConfig struct {
	Mode string `yaml:"mode"` // "none", "groups", or "points:N"
}

// OutputConfig holds destination paths.
type OutputConfig struct {
	File      string `yaml:"file"`       // Finished image path (empty = named after the seed)
	FramesDir string `yaml:"frames_dir"` // Animation frame directory
	StatsDir  string `yaml:"stats_dir"`  // Telemetry directory (empty disables)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DerivedConfig holds typed values parsed from the raw settings.
type DerivedConfig struct {
	Chunks    paint.ChunkSpec
	Viewport  paint.FracViewport
	Animation anim.Animation
	LogLevel  slog.Level
}

// ValidationError reports a rejected configuration field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

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
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived parses the string-valued settings into typed form and
// rejects anything out of range.
func (c *Config) computeDerived() error {
	if c.Render.Width < 1 {
		return &ValidationError{Field: "render.width", Err: fmt.Errorf("%d must be positive", c.Render.Width)}
	}
	if c.Render.MinCircleSteps < 0 {
		return &ValidationError{Field: "render.min_circle_steps", Err: fmt.Errorf("%d must not be negative", c.Render.MinCircleSteps)}
	}

	chunks, err := ParseChunks(c.Render.Chunks)
	if err != nil {
		return &ValidationError{Field: "render.chunks", Err: err}
	}
	c.Derived.Chunks = chunks

	vp, err := ParseViewport(c.Viewport.Spec)
	if err != nil {
		return &ValidationError{Field: "viewport.spec", Err: err}
	}
	c.Derived.Viewport = vp

	animation, err := anim.Parse(c.Animation.Mode)
	if err != nil {
		return &ValidationError{Field: "animation.mode", Err: err}
	}
	c.Derived.Animation = animation

	level, err := parseLogLevel(c.Log.Level)
	if err != nil {
		return &ValidationError{Field: "log.level", Err: err}
	}
	c.Derived.LogLevel = level

	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		return &ValidationError{Field: "log.format", Err: fmt.Errorf("%q must be text or json", c.Log.Format)}
	}
	return nil
}

// ParseChunks reads a "COLSxROWS" chunk grid. Empty means a single chunk.
func ParseChunks(s string) (paint.ChunkSpec, error) {
	if s == "" {
		return paint.ChunkSpec{Cols: 1, Rows: 1}, nil
	}
	colStr, rowStr, ok := strings.Cut(s, "x")
	if !ok {
		return paint.ChunkSpec{}, fmt.Errorf("%q must look like 3x4", s)
	}
	cols, err := strconv.Atoi(colStr)
	if err != nil {
		return paint.ChunkSpec{}, fmt.Errorf("columns %q: %w", colStr, err)
	}
	rows, err := strconv.Atoi(rowStr)
	if err != nil {
		return paint.ChunkSpec{}, fmt.Errorf("rows %q: %w", rowStr, err)
	}
	spec := paint.ChunkSpec{Cols: cols, Rows: rows}
	if err := spec.Validate(); err != nil {
		return paint.ChunkSpec{}, err
	}
	return spec, nil
}

// ParseViewport reads a "width,height,left,top" fractional viewport.
// Empty means the full canvas.
func ParseViewport(s string) (paint.FracViewport, error) {
	if s == "" {
		return paint.FullViewport(), nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return paint.FracViewport{}, fmt.Errorf("%q must have four comma-separated fields", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return paint.FracViewport{}, fmt.Errorf("field %d %q: %w", i+1, p, err)
		}
		vals[i] = v
	}
	return paint.NewFracViewport(vals[0], vals[1], vals[2], vals[3])
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
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
