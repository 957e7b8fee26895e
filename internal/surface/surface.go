// Package surface defines the 2D drawing target the swarm renders onto.
//
// A [Surface] is a small canvas-like API: clear, filled rectangles, stroked
// lines, filled and stroked circles, a global alpha applied to every draw, and
// compositing of another surface of the same kind. A [Screen] hands out
// surfaces and presents the one attached to it. Hosts (terminal, raylib window,
// SVG writer, in-memory raster) implement both.
package surface

import "image/color"

type Surface interface {
	Size() (width, height int)
	Resize(width, height int)
	Clear()

	// SetAlpha sets the global alpha in [0, 1] applied to subsequent draws.
	SetAlpha(a float64)
	Alpha() float64

	FillRect(x, y, w, h float64, c color.Color)
	Line(x0, y0, x1, y1, lineWidth float64, c color.Color)
	Circle(cx, cy, r, lineWidth float64, stroke, fill color.Color)

	// DrawSurface composites src over this surface at the origin. Surfaces of
	// a different implementation are ignored.
	DrawSurface(src Surface)
}

type Screen interface {
	NewSurface(width, height int) Surface
	Attach(s Surface)
	Detach(s Surface)
	// Release frees a surface from NewSurface. It must not be used after.
	Release(s Surface)
}

// ClampAlpha bounds a into [0, 1]; NaN becomes 0.
func ClampAlpha(a float64) float64 {
	switch {
	case a != a, a < 0:
		return 0
	case a > 1:
		return 1
	}
	return a
}

// WithAlpha returns c as non-premultiplied RGBA with its alpha scaled by a.
func WithAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*ClampAlpha(a) + 0.5)
	return n
}

// Black with the given alpha.
func Black(a float64) color.NRGBA {
	return color.NRGBA{A: uint8(ClampAlpha(a)*255 + 0.5)}
}
