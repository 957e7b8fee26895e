package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/audioswarm/internal/audio"
	"github.com/san-kum/audioswarm/internal/boids"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Swarm != boids.DefaultParams() {
		t.Errorf("swarm params differ from defaults: %+v", cfg.Swarm)
	}
	if cfg.Visual.FadeInterval != 100*time.Millisecond {
		t.Errorf("fade interval %v", cfg.Visual.FadeInterval)
	}
	if len(cfg.BandList()) != 31 {
		t.Errorf("expected 31 bands, got %d", len(cfg.BandList()))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	data := []byte(`
width: 1024
palette: rainbow
swarm:
  visibility: 45
  spatial_index: true
visual:
  fade_interval: 250ms
audio:
  source: file
  file: song.wav
  smoothing: 0.3
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1024 || cfg.Height != DefaultHeight {
		t.Errorf("size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Palette != "rainbow" {
		t.Errorf("palette %q", cfg.Palette)
	}
	if cfg.Swarm.Visibility != 45 || !cfg.Swarm.SpatialIndex {
		t.Errorf("swarm %+v", cfg.Swarm)
	}
	if cfg.Swarm.MaxSpeed != 20 {
		t.Errorf("unset max_speed should keep default, got %g", cfg.Swarm.MaxSpeed)
	}
	if cfg.Visual.FadeInterval != 250*time.Millisecond {
		t.Errorf("fade interval %v", cfg.Visual.FadeInterval)
	}
	if cfg.Audio.Source != audio.SourceFile || cfg.Audio.File != "song.wav" {
		t.Errorf("audio %+v", cfg.Audio)
	}
	if cfg.Audio.Smoothing != 0.3 || cfg.Audio.SampleRate != audio.SampleRate {
		t.Errorf("audio settings %+v", cfg.Audio.Settings)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg, _ := GetPreset("slow")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Swarm != cfg.Swarm || got.Visual != cfg.Visual {
		t.Errorf("round trip changed config:\n%+v\n%+v", got, cfg)
	}
}

func TestLoadIntoKeepsPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	os.WriteFile(path, []byte("swarm:\n  cohesion: 3\n"), 0644)

	cfg, _ := GetPreset("tight")
	if err := LoadInto(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Swarm.Cohesion != 3 {
		t.Errorf("cohesion = %g, want 3", cfg.Swarm.Cohesion)
	}
	if cfg.Swarm.Visibility != 60 {
		t.Errorf("preset visibility lost: %g", cfg.Swarm.Visibility)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("swarm: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"palette", func(c *Config) { c.Palette = "sepia" }},
		{"band", func(c *Config) { c.Bands = []float64{100, -5} }},
		{"visibility", func(c *Config) { c.Swarm.Visibility = 0 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.apply(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg, err := GetPreset("tight")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Swarm.Visibility != 60 {
		t.Errorf("expected visibility 60, got %g", cfg.Swarm.Visibility)
	}

	cfg.Swarm.Visibility = 1
	again, _ := GetPreset("tight")
	if again.Swarm.Visibility != 60 {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	_, err := GetPreset("nonexistent")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("listed %d of %d presets", len(names), len(Presets))
	}
	for _, name := range names {
		cfg, _ := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
	dense, _ := GetPreset("dense")
	if n := len(dense.BandList()); n != 62 {
		t.Errorf("dense preset has %d bands", n)
	}
}
