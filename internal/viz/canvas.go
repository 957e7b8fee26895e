package viz

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells, each with one foreground colour.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colorful.Color

	// Threshold is the brightness (max RGB channel, 0..255) a pixel needs
	// to light its dot.
	Threshold uint8
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Threshold: 40}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid to w x h cells.
func (c *Canvas) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.Colors = make([][]colorful.Color, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]colorful.Color, w)
	}
	c.Clear()
}

// Set lights the dot at sub-pixel (x, y). The canvas is Width*2 by
// Height*4 sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = colorful.Color{}
		}
	}
}

// DrawImage maps img one pixel per dot. Each cell takes the mean colour of
// its lit pixels.
func (c *Canvas) DrawImage(img *image.RGBA) {
	c.Clear()
	if img == nil {
		return
	}
	b := img.Bounds()
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			var r, g, bl float64
			lit := 0
			for sy := 0; sy < 4; sy++ {
				for sx := 0; sx < 2; sx++ {
					x, y := b.Min.X+col*2+sx, b.Min.Y+row*4+sy
					if x >= b.Max.X || y >= b.Max.Y {
						continue
					}
					p := img.RGBAAt(x, y)
					if max3(p.R, p.G, p.B) < c.Threshold {
						continue
					}
					c.Set(col*2+sx, row*4+sy)
					r += float64(p.R)
					g += float64(p.G)
					bl += float64(p.B)
					lit++
				}
			}
			if lit > 0 {
				n := float64(lit) * 255
				c.Colors[row][col] = colorful.Color{R: r / n, G: g / n, B: bl / n}
			}
		}
	}
}

// String renders the dots without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the dots with per-cell colour, one style per run of
// equal colours.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			run := string(row[start:j])
			if col := c.Colors[i][start]; col != (colorful.Color{}) {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex())).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func max3(a, b, c uint8) uint8 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
