package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
output:
  width: 1280
  height: 720
zoom:
  max_zoom: 3
focus:
  inactivity_ms: 8000
camera:
  shrink_scale: 0.4
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.Width != 1280 || cfg.Output.Height != 720 {
		t.Errorf("output = %dx%d, want 1280x720", cfg.Output.Width, cfg.Output.Height)
	}
	if cfg.Output.FPS != 30 {
		t.Errorf("fps should keep default 30, got %d", cfg.Output.FPS)
	}
	if cfg.Zoom.MaxZoom != 3 {
		t.Errorf("max zoom = %v, want 3", cfg.Zoom.MaxZoom)
	}
	if cfg.Zoom.MaxZoomDurationMs != 750 {
		t.Errorf("max zoom duration should keep default, got %v", cfg.Zoom.MaxZoomDurationMs)
	}
	if cfg.Focus.InactivityMs != 8000 || cfg.Focus.ClickBoxFraction != 0.2 {
		t.Errorf("focus = %+v", cfg.Focus)
	}
	if cfg.Camera.ShrinkScale != 0.4 || !cfg.Camera.AutoShrink {
		t.Errorf("camera = %+v", cfg.Camera)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Width != 1920 {
		t.Errorf("expected defaults, got %+v", cfg.Output)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Zoom.MaxZoom = 2.5
	cfg.Verbose = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Zoom != cfg.Zoom || loaded.Focus != cfg.Focus || loaded.Camera != cfg.Camera || !loaded.Verbose {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Output.Width = 0 }},
		{"padding too large", func(c *Config) { c.Output.Padding = 0.5 }},
		{"zero fps", func(c *Config) { c.Output.FPS = 0 }},
		{"max zoom below one", func(c *Config) { c.Zoom.MaxZoom = 0.5 }},
		{"min above max", func(c *Config) { c.Zoom.MinZoomDurationMs = 2000 }},
		{"zero duration", func(c *Config) { c.Zoom.MaxZoomDurationMs = 0 }},
		{"shrink scale", func(c *Config) { c.Camera.ShrinkScale = 1.5 }},
		{"zero shrink scale", func(c *Config) { c.Camera.ShrinkScale = 0 }},
		{"negative camera size", func(c *Config) { c.Camera.Width = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestContext(t *testing.T) {
	cfg := Default()
	cfg.Output.FPS = 60

	ctx := WithConfig(context.Background(), cfg)
	if got := FromContext(ctx); got.Output.FPS != 60 {
		t.Errorf("FromContext fps = %d, want 60", got.Output.FPS)
	}
	if got := FromContext(context.Background()); got.Output.FPS != 30 {
		t.Errorf("FromContext without config should return defaults, got fps %d", got.Output.FPS)
	}
}
