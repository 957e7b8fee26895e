package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/san-kum/audioswarm/internal/surface"
)

// SVG is a Surface that records drawing operations as SVG elements.
// With a positive limit only the newest limit elements are kept, which
// bounds the trail history of a visible surface.
type SVG struct {
	width, height int
	alpha         float64
	limit         int
	items         []string
}

var _ surface.Surface = (*SVG)(nil)

func NewSVG(width, height, limit int) *SVG {
	return &SVG{width: width, height: height, alpha: 1, limit: limit}
}

func (s *SVG) Size() (int, int) { return s.width, s.height }

func (s *SVG) Resize(width, height int) {
	s.width, s.height = width, height
	s.items = nil
}

func (s *SVG) Clear()             { s.items = s.items[:0] }
func (s *SVG) SetAlpha(a float64) { s.alpha = surface.ClampAlpha(a) }
func (s *SVG) Alpha() float64     { return s.alpha }
func (s *SVG) Len() int           { return len(s.items) }

func (s *SVG) FillRect(x, y, w, h float64, c color.Color) {
	s.add(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`, x, y, w, h, paint("fill", c, s.alpha)))
}

func (s *SVG) Line(x0, y0, x1, y1, lineWidth float64, c color.Color) {
	s.add(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-width="%.1f" %s/>`,
		x0, y0, x1, y1, lineWidth, paint("stroke", c, s.alpha)))
}

func (s *SVG) Circle(cx, cy, r, lineWidth float64, stroke, fill color.Color) {
	fillAttr := `fill="none"`
	if fill != nil {
		fillAttr = paint("fill", fill, s.alpha)
	}
	strokeAttr := ""
	if stroke != nil {
		strokeAttr = fmt.Sprintf(` stroke-width="%.1f" %s`, lineWidth, paint("stroke", stroke, s.alpha))
	}
	s.add(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" %s%s/>`, cx, cy, r, fillAttr, strokeAttr))
}

// DrawSurface appends src's elements as one group.
func (s *SVG) DrawSurface(src surface.Surface) {
	other, ok := src.(*SVG)
	if !ok || other == s || len(other.items) == 0 {
		return
	}
	s.add("<g>" + strings.Join(other.items, "") + "</g>")
}

func (s *SVG) add(item string) {
	s.items = append(s.items, item)
	if s.limit > 0 && len(s.items) > s.limit {
		n := copy(s.items, s.items[len(s.items)-s.limit:])
		s.items = s.items[:n]
	}
}

// WriteTo writes a standalone SVG document on a black background.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, s.width, s.height, s.width, s.height)
	for _, item := range s.items {
		sb.WriteString(item)
		sb.WriteByte('\n')
	}
	sb.WriteString("</svg>\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func paint(attr string, c color.Color, alpha float64) string {
	n := surface.WithAlpha(c, alpha)
	out := fmt.Sprintf(`%s="#%02x%02x%02x"`, attr, n.R, n.G, n.B)
	if n.A != 255 {
		out += fmt.Sprintf(` %s-opacity="%.3f"`, attr, float64(n.A)/255)
	}
	return out
}

// SVGScreen hands out SVG surfaces. Depth is the number of composited
// frames the attached surface keeps; each frame is a fade rectangle plus
// one group.
type SVGScreen struct {
	Depth    int
	attached *SVG
}

func (sc *SVGScreen) NewSurface(width, height int) surface.Surface {
	return NewSVG(width, height, 0)
}

func (sc *SVGScreen) Attach(s surface.Surface) {
	if v, ok := s.(*SVG); ok {
		if sc.Depth > 0 {
			v.limit = 2 * sc.Depth
		}
		sc.attached = v
	}
}

func (sc *SVGScreen) Detach(s surface.Surface) {
	if v, ok := s.(*SVG); ok && v == sc.attached {
		sc.attached = nil
	}
}

// Release is a no-op; a released surface stays readable so the last
// frame can still be written.
func (sc *SVGScreen) Release(surface.Surface) {}

// Attached returns the presented surface, or nil.
func (sc *SVGScreen) Attached() *SVG { return sc.attached }
