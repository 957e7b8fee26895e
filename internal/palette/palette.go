// Package palette maps band centre frequencies to display colours.
package palette

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Mapper returns the colour for a band centre frequency in Hz.
type Mapper func(frequency float64) color.Color

const (
	minFrequency = 19.0
	maxFrequency = 22500.0
)

// position maps frequency onto [0, 1] on a log scale over the audible range.
func position(frequency float64) float64 {
	if frequency <= minFrequency {
		frequency = minFrequency + 1
	}
	return math.Log(frequency-minFrequency) / math.Log(maxFrequency-minFrequency)
}

// Spectral treats the band as a visible wavelength: low frequencies are red
// (750nm), high frequencies violet (380nm).
func Spectral(frequency float64) colorful.Color {
	s := position(frequency)
	w := (1-s)*370 + 380

	var r, g, b float64
	switch {
	case w >= 380 && w < 440:
		r, g, b = -(w-440)/(440-380), 0, 1
	case w >= 440 && w < 490:
		r, g, b = 0, (w-440)/(490-440), 1
	case w >= 490 && w < 510:
		r, g, b = 0, 1, -(w-510)/(510-490)
	case w >= 510 && w < 580:
		r, g, b = (w-510)/(580-510), 1, 0
	case w >= 580 && w < 645:
		r, g, b = 1, -(w-645)/(645-580), 0
	case w >= 645 && w <= 750:
		r, g, b = 1, 0, 0
	}
	return colorful.Color{R: quantize(r), G: quantize(g), B: quantize(b)}
}

// Rainbow spreads bands around the HCL hue wheel, keeping perceived
// lightness constant across the spectrum.
func Rainbow(frequency float64) colorful.Color {
	s := math.Max(0, math.Min(1, position(frequency)))
	return colorful.Hcl(300*(1-s), 0.7, 0.7).Clamped()
}

// Named returns the mapper registered under name, or Spectral.
func Named(name string) Mapper {
	fn := Spectral
	if name == "rainbow" {
		fn = Rainbow
	}
	return func(frequency float64) color.Color { return fn(frequency) }
}

func Names() []string {
	return []string{"spectral", "rainbow"}
}

// quantize floors to 8-bit steps like the hex colour strings of the display.
func quantize(v float64) float64 {
	return math.Floor(v*255) / 255
}
