package viz

import (
	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/storage"
)

// Dot is one occupied cell of a frame.
type Dot struct {
	X, Y, Intensity float64
}

func FromCells(cells []grid.Cell) []Dot {
	dots := make([]Dot, len(cells))
	for i, c := range cells {
		dots[i] = Dot{X: c.X, Y: c.Y, Intensity: c.Intensity}
	}
	return dots
}

func FromSamples(samples []storage.Sample) []Dot {
	dots := make([]Dot, len(samples))
	for i, s := range samples {
		dots[i] = Dot{X: s.X, Y: s.Y, Intensity: s.Intensity}
	}
	return dots
}

// Preview draws frames and boundary outlines onto a braille canvas.
type Preview struct {
	XRange, YRange grid.Range

	// Floor hides dots dimmer than Floor times the reference intensity.
	Floor float64
}

// Draw renders dots and outlines onto c. A reference of zero disables the
// floor.
func (p Preview) Draw(c *Canvas, dots []Dot, outlines [][]boundary.Point, reference float64) {
	v := CanvasViewport(c, p.XRange, p.YRange)
	for _, pts := range outlines {
		drawOutline(v, pts, c.Set)
	}
	cut := p.Floor * reference
	for _, d := range dots {
		if d.Intensity <= 0 || (reference > 0 && d.Intensity < cut) {
			continue
		}
		if x, y, ok := v.Map(d.X, d.Y); ok {
			c.Set(x, y)
		}
	}
}

// Render draws onto a fresh w by h canvas and returns its text.
func (p Preview) Render(w, h int, dots []Dot, outlines [][]boundary.Point, reference float64) string {
	c := NewCanvas(w, h)
	p.Draw(c, dots, outlines, reference)
	return c.String()
}

// drawOutline joins consecutive visible outline points. Points off the
// viewport break the line.
func drawOutline(v Viewport, pts []boundary.Point, plot func(x, y int)) {
	var (
		px, py int
		have   bool
	)
	for _, pt := range pts {
		x, y, ok := v.Map(pt.X, pt.Y)
		if !ok {
			have = false
			continue
		}
		if have {
			bresenham(px, py, x, y, plot)
		} else {
			plot(x, y)
		}
		px, py, have = x, y, true
	}
}
