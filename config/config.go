// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Drift     DriftConfig     `yaml:"drift"`
	Camera    CameraConfig    `yaml:"camera"`
	Sprite    SpriteConfig    `yaml:"sprite"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	TargetFPS   int    `yaml:"target_fps"`
	Title       string `yaml:"title"`
	Resizable   bool   `yaml:"resizable"`
	Transparent bool   `yaml:"transparent"` // Clear to a transparent colour instead of black
}

// FieldConfig holds particle population parameters.
type FieldConfig struct {
	Count      int     `yaml:"count"`       // Fixed population size N
	Radius     float64 `yaml:"radius"`      // Spawn/bound half-width R
	SpeedScale float64 `yaml:"speed_scale"` // Velocity components drawn from (-s/2, s/2)
}

// DriftConfig holds the per-frame whole-scene rotation increments.
type DriftConfig struct {
	Yaw   float64 `yaml:"yaw"`   // Added to rotation about Y every frame
	Pitch float64 `yaml:"pitch"` // Added to rotation about X every frame
}

// CameraConfig holds perspective camera parameters.
type CameraConfig struct {
	FOV      float64    `yaml:"fov"` // Vertical field of view in degrees
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
}

// SpriteConfig describes the particle sprite and its material.
type SpriteConfig struct {
	Size      int     `yaml:"size"`       // Texture edge length in pixels
	Color     string  `yaml:"color"`      // Hex colour, e.g. "#ADD8E6"
	PointSize float64 `yaml:"point_size"` // World-space billboard size
	Opacity   float64 `yaml:"opacity"`
	AlphaTest float64 `yaml:"alpha_test"` // Texels with alpha below this are discarded
}

// ParallelConfig controls chunked stepping of the particle field.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"` // Minimum particle count before workers are used (0 = never)
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Frames per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Radius32     float32    // Field.Radius as float32
	SpeedScale32 float32    // Field.SpeedScale as float32
	SpriteRGBA   color.RGBA // Parsed Sprite.Color with Sprite.Opacity applied to alpha
}

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

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults with derived values computed.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the parameters the simulation cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Field.Count <= 0 {
		errs = append(errs, fmt.Errorf("field.count must be positive, got %d", c.Field.Count))
	}
	if c.Field.Radius <= 0 {
		errs = append(errs, fmt.Errorf("field.radius must be positive, got %g", c.Field.Radius))
	}
	if c.Field.SpeedScale <= 0 {
		errs = append(errs, fmt.Errorf("field.speed_scale must be positive, got %g", c.Field.SpeedScale))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera planes must satisfy 0 < near < far, got near=%g far=%g", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0, 180), got %g", c.Camera.FOV))
	}
	if _, err := ParseHexColor(c.Sprite.Color); err != nil {
		errs = append(errs, fmt.Errorf("sprite.color: %w", err))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Radius32 = float32(c.Field.Radius)
	c.Derived.SpeedScale32 = float32(c.Field.SpeedScale)

	rgba, _ := ParseHexColor(c.Sprite.Color)
	opacity := c.Sprite.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	rgba.A = uint8(opacity * 255)
	c.Derived.SpriteRGBA = rgba

	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 600
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 60
	}
}

// ParseHexColor parses "#RRGGBB" (leading '#' optional) into an opaque colour.
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("expected 6 hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
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
