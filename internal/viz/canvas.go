package viz

import (
	"math"
	"strings"

	"github.com/san-kum/acoustray/internal/grid"
)

// Braille cells hold 2x4 dots:
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

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels; anything outside is ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	bresenham(x0, y0, x1, y1, c.Set)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps world coordinates onto a W by H pixel raster. World y grows
// upward, raster y grows downward.
type Viewport struct {
	X, Y grid.Range
	W, H int
}

// Map returns the pixel holding (x, y) and whether it falls on the raster.
func (v Viewport) Map(x, y float64) (px, py int, ok bool) {
	if !v.X.Contains(x) || !v.Y.Contains(y) || v.W <= 0 || v.H <= 0 {
		return 0, 0, false
	}
	fx := (x - v.X.Min) / v.X.Span() * float64(v.W)
	fy := (v.Y.Max - y) / v.Y.Span() * float64(v.H)
	px = min(int(math.Floor(fx)), v.W-1)
	py = min(int(math.Floor(fy)), v.H-1)
	return px, py, true
}

// CanvasViewport covers a whole canvas at sub-pixel resolution.
func CanvasViewport(c *Canvas, xr, yr grid.Range) Viewport {
	return Viewport{X: xr, Y: yr, W: c.Width * 2, H: c.Height * 4}
}
