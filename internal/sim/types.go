package sim

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/raytrace"
)

// Frame is one snapshot of the ray field.
type Frame struct {
	Index int
	Step  int
	Time  float64

	Cells []grid.Cell

	RayX, RayY []float64
	Rays       int
	Events     raytrace.Events
}

// Stats summarizes the superposed cells of a frame.
type Stats struct {
	Time  float64 `json:"time"`
	Rays  int     `json:"rays"`
	Cells int     `json:"cells"`
	Total float64 `json:"total_intensity"`
	Peak  float64 `json:"peak_intensity"`
}

func (f *Frame) Stats() Stats {
	st := Stats{Time: f.Time, Rays: f.Rays, Cells: len(f.Cells)}
	if len(f.Cells) == 0 {
		return st
	}
	in := f.Intensities()
	st.Total = floats.Sum(in)
	st.Peak = floats.Max(in)
	return st
}

func (f *Frame) Intensities() []float64 {
	in := make([]float64, len(f.Cells))
	for i, c := range f.Cells {
		in[i] = c.Intensity
	}
	return in
}

// FrameSink receives frames as they are produced. Reset is called once at the
// start of every Calculate and must discard previous output.
type FrameSink interface {
	Reset() error
	WriteFrame(f *Frame) error
}

// Store is a FrameSink that can also persist boundary outlines.
type Store interface {
	FrameSink
	Dir() string
	WriteBoundaries(outlines [][]boundary.Point) (int, error)
}

// Observer is notified after each frame is written.
type Observer interface {
	OnFrame(f *Frame)
}

// Metric is an Observer reduced to a single number per run.
type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

// RenderJob describes a finished run to an animation renderer.
type RenderJob struct {
	Dir          string
	Frames       int
	Boundaries   int
	XRange       grid.Range
	YRange       grid.Range
	Duration     float64
	MaxIntensity float64
}

type Renderer interface {
	Render(ctx context.Context, job RenderJob) error
}

type Result struct {
	Frames       int
	Steps        int
	Spacing      int
	PeakRays     int
	Events       raytrace.Events
	MaxIntensity float64
	Stats        []Stats
	Metrics      map[string]float64
}
