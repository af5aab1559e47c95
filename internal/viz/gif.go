package viz

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/sim"
	"github.com/san-kum/acoustray/internal/storage"
)

var ErrEmptyJob = errors.New("viz: render job has no frames")

const (
	// Intensity is shaded over this many decades below the reference.
	decades = 6
	levels  = 16

	paletteBackground = 0
	paletteOutline    = 1
	paletteFirstLevel = 2
)

// GIFRenderer animates a finished run from its dataset and boundary files.
// It satisfies sim.Renderer without leaving the process.
type GIFRenderer struct {
	Width, Height int

	// Delay per frame in hundredths of a second. Zero plays the run in
	// real time.
	Delay int

	// Path defaults to animation.gif inside the run directory.
	Path string

	Logger *log.Logger
}

var _ sim.Renderer = (*GIFRenderer)(nil)

func (r *GIFRenderer) Render(ctx context.Context, job sim.RenderJob) error {
	if job.Frames < 1 {
		return ErrEmptyJob
	}
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	store := storage.New(job.Dir)
	outlines := make([][]boundary.Point, 0, job.Boundaries)
	for i := 0; i < job.Boundaries; i++ {
		pts, err := store.LoadBoundary(i)
		if err != nil {
			return err
		}
		outlines = append(outlines, pts)
	}

	w, h := r.Width, r.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	v := Viewport{X: job.XRange, Y: job.YRange, W: w, H: h}
	palette := heatPalette()
	delay := r.Delay
	if delay <= 0 {
		delay = max(1, int(math.Round(100*job.Duration/float64(job.Frames))))
	}

	anim := &gif.GIF{}
	for i := 0; i < job.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		samples, err := store.LoadFrame(i)
		if err != nil {
			return err
		}
		img := image.NewPaletted(image.Rect(0, 0, w, h), palette)
		paint(img, v, FromSamples(samples), outlines, job.MaxIntensity)
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
	}

	path := r.Path
	if path == "" {
		path = filepath.Join(job.Dir, "animation.gif")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("viz: encode %s: %w", path, err)
	}
	logger.Info("animation written", "path", path, "frames", job.Frames)
	return f.Close()
}

func paint(img *image.Paletted, v Viewport, dots []Dot, outlines [][]boundary.Point, reference float64) {
	for _, d := range dots {
		x, y, ok := v.Map(d.X, d.Y)
		if !ok {
			continue
		}
		if idx := shade(d.Intensity, reference); idx > img.ColorIndexAt(x, y) {
			img.SetColorIndex(x, y, idx)
		}
	}
	for _, pts := range outlines {
		drawOutline(v, pts, func(x, y int) { img.SetColorIndex(x, y, paletteOutline) })
	}
}

// Level places intensity on a log scale against reference: 0 is decades
// below it or dimmer, 1 is the reference or brighter.
func Level(intensity, reference float64) float64 {
	if reference <= 0 {
		return 1
	}
	t := (math.Log10(intensity/reference) + decades) / decades
	return math.Max(0, math.Min(1, t))
}

// HeatColor runs from deep blue at 0 to yellow at 1.
func HeatColor(t float64) color.RGBA {
	return color.RGBA{
		R: uint8(255 * t),
		G: uint8(40 + 200*t*t),
		B: uint8(120 * (1 - t)),
		A: 255,
	}
}

// shade maps an intensity to a palette index. Non-positive intensities stay
// background.
func shade(intensity, reference float64) uint8 {
	if intensity <= 0 {
		return paletteBackground
	}
	return uint8(paletteFirstLevel + int(math.Round(Level(intensity, reference)*(levels-1))))
}

func heatPalette() color.Palette {
	p := color.Palette{color.Black, color.White}
	for i := 0; i < levels; i++ {
		p = append(p, HeatColor(float64(i)/(levels-1)))
	}
	return p
}
