package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Raster is an in-memory Surface backed by an RGBA image. Logical
// coordinates are multiplied by Scale to get pixel coordinates, so a small
// raster can stand in for a large logical screen.
type Raster struct {
	width, height int
	scale         float64
	alpha         float64
	img           *image.RGBA
}

func NewRaster(width, height int, scale float64) *Raster {
	if scale <= 0 {
		scale = 1
	}
	r := &Raster{scale: scale, alpha: 1}
	r.Resize(width, height)
	return r
}

func (r *Raster) Size() (int, int) { return r.width, r.height }

// Resize reallocates the pixel buffer; existing content is discarded, as
// resizing an HTML canvas does.
func (r *Raster) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.width, r.height = width, height
	pw := int(math.Ceil(float64(width) * r.scale))
	ph := int(math.Ceil(float64(height) * r.scale))
	r.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) SetAlpha(a float64) { r.alpha = ClampAlpha(a) }
func (r *Raster) Alpha() float64     { return r.alpha }

// Image exposes the backing pixels.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Scale() float64 { return r.scale }

func (r *Raster) FillRect(x, y, w, h float64, c color.Color) {
	src := WithAlpha(c, r.alpha)
	if src.A == 0 {
		return
	}
	rect := image.Rect(
		int(math.Floor(x*r.scale)), int(math.Floor(y*r.scale)),
		int(math.Ceil((x+w)*r.scale)), int(math.Ceil((y+h)*r.scale)),
	).Intersect(r.img.Bounds())
	draw.Draw(r.img, rect, image.NewUniform(src), image.Point{}, draw.Over)
}

func (r *Raster) Line(x0, y0, x1, y1, lineWidth float64, c color.Color) {
	src := WithAlpha(c, r.alpha)
	if src.A == 0 {
		return
	}
	ax, ay := x0*r.scale, y0*r.scale
	bx, by := x1*r.scale, y1*r.scale
	half := math.Max(lineWidth*r.scale/2, 0.5)

	bounds := image.Rect(
		int(math.Floor(math.Min(ax, bx)-half)), int(math.Floor(math.Min(ay, by)-half)),
		int(math.Ceil(math.Max(ax, bx)+half))+1, int(math.Ceil(math.Max(ay, by)+half))+1,
	).Intersect(r.img.Bounds())

	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			if segmentDistance(float64(px)+0.5, float64(py)+0.5, ax, ay, bx, by) <= half {
				r.blend(px, py, src)
			}
		}
	}
}

// Circle fills a disk of radius r and strokes its outline centred on the
// radius, like a canvas arc followed by fill and stroke.
func (r *Raster) Circle(cx, cy, radius, lineWidth float64, stroke, fill color.Color) {
	pcx, pcy := cx*r.scale, cy*r.scale
	pr := math.Max(radius*r.scale, 0.5)
	half := math.Max(lineWidth*r.scale/2, 0.5)

	var fillC, strokeC color.NRGBA
	if fill != nil {
		fillC = WithAlpha(fill, r.alpha)
	}
	if stroke != nil {
		strokeC = WithAlpha(stroke, r.alpha)
	}
	if fillC.A == 0 && strokeC.A == 0 {
		return
	}

	outer := pr + half
	bounds := image.Rect(
		int(math.Floor(pcx-outer)), int(math.Floor(pcy-outer)),
		int(math.Ceil(pcx+outer))+1, int(math.Ceil(pcy+outer))+1,
	).Intersect(r.img.Bounds())

	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			d := math.Hypot(float64(px)+0.5-pcx, float64(py)+0.5-pcy)
			if fillC.A > 0 && d <= pr {
				r.blend(px, py, fillC)
			}
			if strokeC.A > 0 && math.Abs(d-pr) <= half {
				r.blend(px, py, strokeC)
			}
		}
	}
}

func (r *Raster) DrawSurface(src Surface) {
	s, ok := src.(*Raster)
	if !ok || s == r {
		return
	}
	draw.Draw(r.img, r.img.Bounds(), s.img, image.Point{}, draw.Over)
}

// blend composites c over the pixel at (x, y).
func (r *Raster) blend(x, y int, c color.NRGBA) {
	dst := r.img.RGBAAt(x, y)
	a := uint32(c.A)
	inv := 255 - a
	dst.R = uint8((uint32(c.R)*a + uint32(dst.R)*inv + 127) / 255)
	dst.G = uint8((uint32(c.G)*a + uint32(dst.G)*inv + 127) / 255)
	dst.B = uint8((uint32(c.B)*a + uint32(dst.B)*inv + 127) / 255)
	dst.A = uint8((a*255 + uint32(dst.A)*inv + 127) / 255)
	r.img.SetRGBA(x, y, dst)
}

func segmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// Memory is a Screen that keeps Raster surfaces in memory. The attached
// surface is what a host would present.
type Memory struct {
	Scale    float64
	attached *Raster
	live     int
}

func NewMemory(scale float64) *Memory {
	return &Memory{Scale: scale}
}

func (m *Memory) NewSurface(width, height int) Surface {
	m.live++
	return NewRaster(width, height, m.Scale)
}

func (m *Memory) Attach(s Surface) {
	if r, ok := s.(*Raster); ok {
		m.attached = r
	}
}

func (m *Memory) Detach(s Surface) {
	if r, ok := s.(*Raster); ok && r == m.attached {
		m.attached = nil
	}
}

// Release drops the count of live surfaces; memory is left to the GC.
func (m *Memory) Release(s Surface) {
	if _, ok := s.(*Raster); ok && m.live > 0 {
		m.live--
		m.Detach(s)
	}
}

// Attached returns the presented surface, or nil.
func (m *Memory) Attached() *Raster { return m.attached }

// Live reports surfaces handed out and not yet released.
func (m *Memory) Live() int { return m.live }
