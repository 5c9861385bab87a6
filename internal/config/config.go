package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Zoom       ZoomSettings     `yaml:"zoom"`
	Focus      FocusSettings    `yaml:"focus"`
	Camera     CameraSettings   `yaml:"camera"`
	Processing ProcessingConfig `yaml:"processing"`
	Verbose    bool             `yaml:"verbose"`
}

// OutputConfig describes the logical output canvas.
type OutputConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Padding float64 `yaml:"padding"` // fraction of the canvas on each side
	FPS     int     `yaml:"fps"`
}

// ZoomSettings drives the auto-zoom schedule.
type ZoomSettings struct {
	MaxZoom           float64 `yaml:"max_zoom" json:"maxZoom"`
	IsAuto            bool    `yaml:"is_auto" json:"isAuto"`
	MaxZoomDurationMs float64 `yaml:"max_zoom_duration_ms" json:"maxZoomDurationMs"`
	MinZoomDurationMs float64 `yaml:"min_zoom_duration_ms" json:"minZoomDurationMs"`
}

// FocusSettings are the thresholds used while extracting focus areas.
// Fractions are relative to the larger source dimension.
type FocusSettings struct {
	ClickBoxFraction    float64 `yaml:"click_box_fraction"`
	HoverRadiusFraction float64 `yaml:"hover_radius_fraction"`
	HoverMinDwellMs     float64 `yaml:"hover_min_dwell_ms"`
	HoverDisruptionMs   float64 `yaml:"hover_disruption_ms"`
	InactivityMs        float64 `yaml:"inactivity_ms"`
	InactivityBufferMs  float64 `yaml:"inactivity_buffer_ms"`
	FinalZoomoutDelayMs float64 `yaml:"final_zoomout_delay_ms"`
	FinalZoomoutTailMs  float64 `yaml:"final_zoomout_tail_ms"`
	URLChangeAdvanceMs  float64 `yaml:"url_change_advance_ms"`
	PointEventAdvanceMs float64 `yaml:"point_event_advance_ms"`
}

// CameraSettings is the secondary camera overlay, in output pixels.
type CameraSettings struct {
	X            float64 `yaml:"x" json:"x"`
	Y            float64 `yaml:"y" json:"y"`
	Width        float64 `yaml:"width" json:"width"`
	Height       float64 `yaml:"height" json:"height"`
	Shape        string  `yaml:"shape" json:"shape,omitempty"`
	BorderRadius float64 `yaml:"border_radius" json:"borderRadius,omitempty"`
	AutoShrink   bool    `yaml:"auto_shrink" json:"autoShrink"`
	ShrinkScale  float64 `yaml:"shrink_scale" json:"shrinkScale"`
}

type ProcessingConfig struct {
	Workers int `yaml:"workers"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the scheduler cannot work with.
func (c *Config) Validate() error {
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return fmt.Errorf("%w: output size %dx%d", ErrInvalidConfig, c.Output.Width, c.Output.Height)
	}
	if c.Output.Padding < 0 || c.Output.Padding >= 0.5 {
		return fmt.Errorf("%w: padding %.3f must be in [0, 0.5)", ErrInvalidConfig, c.Output.Padding)
	}
	if c.Output.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.Output.FPS)
	}
	if err := c.Zoom.Validate(); err != nil {
		return err
	}
	return c.Camera.Validate()
}

func (c CameraSettings) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: camera size %.1fx%.1f", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.ShrinkScale <= 0 || c.ShrinkScale > 1 {
		return fmt.Errorf("%w: camera shrink scale %.3f must be in (0, 1]", ErrInvalidConfig, c.ShrinkScale)
	}
	return nil
}

func (z ZoomSettings) Validate() error {
	if z.MaxZoom < 1 {
		return fmt.Errorf("%w: max zoom %.3f must be >= 1", ErrInvalidConfig, z.MaxZoom)
	}
	if z.MaxZoomDurationMs <= 0 || z.MinZoomDurationMs <= 0 {
		return fmt.Errorf("%w: zoom durations must be positive", ErrInvalidConfig)
	}
	if z.MinZoomDurationMs > z.MaxZoomDurationMs {
		return fmt.Errorf("%w: min zoom duration %.0fms exceeds max %.0fms",
			ErrInvalidConfig, z.MinZoomDurationMs, z.MaxZoomDurationMs)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Width:   1920,
			Height:  1080,
			Padding: 0,
			FPS:     30,
		},
		Zoom:   DefaultZoomSettings(),
		Focus:  DefaultFocusSettings(),
		Camera: DefaultCameraSettings(),
		Processing: ProcessingConfig{
			Workers: runtime.NumCPU(),
		},
	}
}

func DefaultZoomSettings() ZoomSettings {
	return ZoomSettings{
		MaxZoom:           2.0,
		IsAuto:            true,
		MaxZoomDurationMs: 750,
		MinZoomDurationMs: 300,
	}
}

func DefaultFocusSettings() FocusSettings {
	return FocusSettings{
		ClickBoxFraction:    0.2,
		HoverRadiusFraction: 0.1,
		HoverMinDwellMs:     1000,
		HoverDisruptionMs:   1000,
		InactivityMs:        5000,
		InactivityBufferMs:  2000,
		FinalZoomoutDelayMs: 2000,
		FinalZoomoutTailMs:  500,
		URLChangeAdvanceMs:  1000,
		PointEventAdvanceMs: 1,
	}
}

func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		X:           1440,
		Y:           760,
		Width:       400,
		Height:      260,
		Shape:       "rounded",
		AutoShrink:  true,
		ShrinkScale: 0.5,
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".recordio", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
