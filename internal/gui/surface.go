package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/audioswarm/internal/surface"
)

// Surface draws into a raylib render texture. Every call opens and closes
// texture mode, so it must not be used between BeginDrawing and EndDrawing.
type Surface struct {
	target        rl.RenderTexture2D
	width, height int
	alpha         float64
}

var _ surface.Surface = (*Surface)(nil)

func newSurface(width, height int) *Surface {
	s := &Surface{alpha: 1}
	s.Resize(width, height)
	return s
}

func (s *Surface) Size() (int, int) { return s.width, s.height }

// Resize reallocates the texture; content is discarded.
func (s *Surface) Resize(width, height int) {
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
	}
	s.width, s.height = width, height
	s.target = rl.LoadRenderTexture(int32(width), int32(height))
	s.Clear()
}

func (s *Surface) Clear() {
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()
}

func (s *Surface) SetAlpha(a float64) { s.alpha = surface.ClampAlpha(a) }
func (s *Surface) Alpha() float64     { return s.alpha }

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	rl.BeginTextureMode(s.target)
	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), s.color(c))
	rl.EndTextureMode()
}

func (s *Surface) Line(x0, y0, x1, y1, lineWidth float64, c color.Color) {
	rl.BeginTextureMode(s.target)
	rl.DrawLineEx(rl.NewVector2(float32(x0), float32(y0)), rl.NewVector2(float32(x1), float32(y1)), float32(lineWidth), s.color(c))
	rl.EndTextureMode()
}

func (s *Surface) Circle(cx, cy, r, lineWidth float64, stroke, fill color.Color) {
	center := rl.NewVector2(float32(cx), float32(cy))
	half := lineWidth / 2
	rl.BeginTextureMode(s.target)
	if fill != nil {
		rl.DrawCircleV(center, float32(r), s.color(fill))
	}
	if stroke != nil {
		inner := r - half
		if inner < 0 {
			inner = 0
		}
		rl.DrawRing(center, float32(inner), float32(r+half), 0, 360, ringSegments(r), s.color(stroke))
	}
	rl.EndTextureMode()
}

// DrawSurface composites another raylib surface at the origin.
func (s *Surface) DrawSurface(src surface.Surface) {
	other, ok := src.(*Surface)
	if !ok || other == s {
		return
	}
	rl.BeginTextureMode(s.target)
	drawTexture(other.target, 0, 0)
	rl.EndTextureMode()
}

func (s *Surface) color(c color.Color) rl.Color {
	return toRL(surface.WithAlpha(c, s.alpha))
}

func toRL(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func ringSegments(r float64) int32 {
	n := int32(r * 2)
	if n < 16 {
		return 16
	}
	if n > 96 {
		return 96
	}
	return n
}

// drawTexture draws a render texture upright; render textures are stored
// bottom-up.
func drawTexture(t rl.RenderTexture2D, x, y float32) {
	w, h := float32(t.Texture.Width), float32(t.Texture.Height)
	rl.DrawTextureRec(t.Texture, rl.NewRectangle(0, 0, w, -h), rl.NewVector2(x, y), rl.White)
}

// Window is the Screen of the raylib front end. The attached surface is
// presented every frame.
type Window struct {
	surfaces []*Surface
	attached *Surface
}

func (w *Window) NewSurface(width, height int) surface.Surface {
	s := newSurface(width, height)
	w.surfaces = append(w.surfaces, s)
	return s
}

func (w *Window) Attach(s surface.Surface) {
	if rs, ok := s.(*Surface); ok {
		w.attached = rs
	}
}

func (w *Window) Detach(s surface.Surface) {
	if rs, ok := s.(*Surface); ok && rs == w.attached {
		w.attached = nil
	}
}

// Present draws the attached surface. Call between BeginDrawing and
// EndDrawing.
func (w *Window) Present() {
	if w.attached != nil {
		drawTexture(w.attached.target, 0, 0)
	}
}

// Release unloads the texture behind s.
func (w *Window) Release(s surface.Surface) {
	rs, ok := s.(*Surface)
	if !ok {
		return
	}
	for i, owned := range w.surfaces {
		if owned == rs {
			w.surfaces = append(w.surfaces[:i], w.surfaces[i+1:]...)
			break
		}
	}
	if rs == w.attached {
		w.attached = nil
	}
	if rs.target.ID != 0 {
		rl.UnloadRenderTexture(rs.target)
		rs.target = rl.RenderTexture2D{}
	}
}

// Close unloads every texture the window still holds.
func (w *Window) Close() {
	for _, s := range w.surfaces {
		if s.target.ID != 0 {
			rl.UnloadRenderTexture(s.target)
			s.target = rl.RenderTexture2D{}
		}
	}
	w.surfaces = nil
	w.attached = nil
}
