// Package export writes frames as standalone SVG images.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/viz"
)

// Options place a frame on the page. Height follows the aspect ratio of the
// ranges.
type Options struct {
	XRange, YRange grid.Range
	CellSize       float64
	Width          int
	Reference      float64
}

func (o Options) height() int {
	return max(1, int(float64(o.Width)*o.YRange.Span()/o.XRange.Span()))
}

// FrameToSVG draws each occupied cell as a square shaded by intensity, with
// boundary outlines stroked on top.
func FrameToSVG(dots []viz.Dot, outlines [][]boundary.Point, o Options) string {
	if o.Width <= 0 || o.XRange.Span() <= 0 || o.YRange.Span() <= 0 {
		return ""
	}
	w, h := o.Width, o.height()
	sx := float64(w) / o.XRange.Span()
	sy := float64(h) / o.YRange.Span()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g stroke="none">
`, w, h, w, h)

	half := o.CellSize / 2
	for _, d := range dots {
		if d.Intensity <= 0 || !o.XRange.Contains(d.X) || !o.YRange.Contains(d.Y) {
			continue
		}
		c := viz.HeatColor(viz.Level(d.Intensity, o.Reference))
		fmt.Fprintf(&sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#%02x%02x%02x"/>
`, (d.X-half-o.XRange.Min)*sx, (o.YRange.Max-d.Y-half)*sy, o.CellSize*sx, o.CellSize*sy, c.R, c.G, c.B)
	}
	sb.WriteString("</g>\n")

	for _, pts := range outlines {
		if len(pts) < 2 {
			continue
		}
		sb.WriteString(`<path fill="none" stroke="#ffffff" stroke-width="1.5" d="`)
		for i, p := range pts {
			x := (p.X - o.XRange.Min) * sx
			y := (o.YRange.Max - p.Y) * sy
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
