package config

import (
	"fmt"
	"sort"
)

// Presets are named swarm tunings. Each is a complete config.
var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"tight": preset(func(c *Config) {
		c.Swarm.Visibility = 60
		c.Swarm.Cohesion = 2
		c.Swarm.SeparationDistance = 5
	}),
	"scatter": preset(func(c *Config) {
		c.Swarm.Visibility = 40
		c.Swarm.Cohesion = 0.2
		c.Swarm.Separation = 2
	}),
	"slow": preset(func(c *Config) {
		c.Swarm.MaxSpeed = 8
		c.Swarm.HeadingMultiplier = 8
		c.Swarm.AdjustmentMultiplier = 0.25
		c.Visual.DecayGain = 0.001
	}),
	"dense": preset(func(c *Config) {
		c.Bands = sixthOctaves(62)
		c.Swarm.SpatialIndex = true
		c.Swarm.ShowHeading = false
	}),
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// sixthOctaves returns n band centers a sixth of an octave apart from 20 Hz.
func sixthOctaves(n int) []float64 {
	bands := make([]float64, n)
	f := 20.0
	for i := range bands {
		bands[i] = f
		f *= 1.122462048309373
	}
	return bands
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	c := *p
	c.Bands = append([]float64(nil), p.Bands...)
	return &c, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
