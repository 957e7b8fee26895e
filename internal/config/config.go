package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/audioswarm/internal/audio"
	"github.com/san-kum/audioswarm/internal/boids"
	"github.com/san-kum/audioswarm/internal/palette"
	"github.com/san-kum/audioswarm/internal/visualizer"
)

const (
	DefaultWidth   = 800
	DefaultHeight  = 600
	DefaultFPS     = 60
	DefaultPalette = "spectral"
)

// ErrUnknownPreset is returned for a preset name not in Presets.
var ErrUnknownPreset = errors.New("config: unknown preset")

type Config struct {
	Width   int       `yaml:"width"`
	Height  int       `yaml:"height"`
	FPS     int       `yaml:"fps"`
	Palette string    `yaml:"palette"`
	Seed    int64     `yaml:"seed"`
	Bands   []float64 `yaml:"bands,omitempty"`

	Swarm  boids.Params      `yaml:"swarm"`
	Visual visualizer.Visual `yaml:"visual"`
	Audio  AudioConfig       `yaml:"audio"`
}

type AudioConfig struct {
	Source         string `yaml:"source"`
	File           string `yaml:"file,omitempty"`
	audio.Settings `yaml:",inline"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		FPS:     DefaultFPS,
		Palette: DefaultPalette,
		Swarm:   boids.DefaultParams(),
		Visual:  visualizer.DefaultVisual(),
		Audio: AudioConfig{
			Source:   audio.SourceDemo,
			Settings: audio.DefaultSettings(),
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads path over cfg, typically a preset.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BandList returns the configured band centers, or the ISO 31 bands.
func (c *Config) BandList() []float64 {
	if len(c.Bands) == 0 {
		return audio.Bands31
	}
	return c.Bands
}

// AudioSettings returns the analyzer settings with the band list filled in.
func (c *Config) AudioSettings() audio.Settings {
	s := c.Audio.Settings
	s.Bands = c.BandList()
	return s
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	known := false
	for _, name := range palette.Names() {
		if c.Palette == name {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("config: unknown palette %q", c.Palette)
	}
	for _, f := range c.Bands {
		if f <= 0 {
			return fmt.Errorf("config: band frequency must be positive, got %g", f)
		}
	}
	return c.Swarm.Validate()
}
