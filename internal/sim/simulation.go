// Package sim drives a ray propagation run: it emits rays from every source,
// advances them one timestep at a time, and at evenly spaced steps superposes
// them onto a grid and hands the result to a FrameSink.
//
// A Simulation is not safe for concurrent use. Independent simulations may
// run in parallel (see [RunAll]).
package sim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/material"
	"github.com/san-kum/acoustray/internal/ocean"
	"github.com/san-kum/acoustray/internal/raytrace"
)

// KillRatio scales the strongest source intensity into the threshold below
// which rays are dropped.
const KillRatio = 1e-10

// OutlineSamples is how many points each boundary outline is sampled at.
const OutlineSamples = 1000

type Config struct {
	CellSize float64
	XRange   grid.Range
	YRange   grid.Range
	Column   *ocean.Column
	Logger   *log.Logger
}

type Simulation struct {
	column    *ocean.Column
	grid      *grid.Grid
	xr, yr    grid.Range
	sources   []raytrace.Source
	layers    boundary.Stack
	observers []Observer
	metrics   []Metric
	logger    *log.Logger
}

func New(cfg Config) (*Simulation, error) {
	g, err := grid.New(cfg.CellSize, cfg.XRange, cfg.YRange)
	if err != nil {
		return nil, err
	}
	column := cfg.Column
	if column == nil {
		column = ocean.NewColumn()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulation{
		column: column,
		grid:   g,
		xr:     cfg.XRange,
		yr:     cfg.YRange,
		logger: logger,
	}, nil
}

// AddSource registers a point source. Angles are radians from the upward
// vertical and must lie in [-pi, pi].
func (s *Simulation) AddSource(start, end float64, rays int, intensity, frequency, x, y float64) error {
	src, err := raytrace.NewSource(start, end, rays, intensity, frequency, x, y)
	if err != nil {
		return err
	}
	s.sources = append(s.sources, src)
	return nil
}

// AddBoundary adds a material layer and returns its handle.
func (s *Simulation) AddBoundary(m material.Material, shape boundary.Shape, opts ...boundary.Option) (*boundary.Boundary, error) {
	b, err := boundary.New(m, shape, opts...)
	if err != nil {
		return nil, err
	}
	s.layers = append(s.layers, b)
	return b, nil
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }

func (s *Simulation) Sources() []raytrace.Source { return s.sources }
func (s *Simulation) Boundaries() boundary.Stack { return s.layers }
func (s *Simulation) Column() *ocean.Column      { return s.column }
func (s *Simulation) Ranges() (x, y grid.Range)  { return s.xr, s.yr }

// Environment is the medium rays are traced through.
func (s *Simulation) Environment() *raytrace.Environment {
	return &raytrace.Environment{
		Column: s.column,
		Layers: s.layers,
		Bounds: raytrace.Bounds{XMin: s.xr.Min, XMax: s.xr.Max, YMin: s.yr.Min, YMax: s.yr.Max},
	}
}

// Calculate runs the simulation for duration seconds in steps of dt, writing
// the requested number of evenly spaced frames to sink. The sink is reset
// before anything else is written.
func (s *Simulation) Calculate(ctx context.Context, dt, duration float64, frames int, sink FrameSink) (*Result, error) {
	steps, spacing, err := s.validate(dt, duration, frames)
	if err != nil {
		return nil, err
	}
	if err := sink.Reset(); err != nil {
		return nil, fmt.Errorf("sim: reset output: %w", err)
	}

	rays, maxIntensity := s.emit()
	result := &Result{
		Steps:        steps,
		Spacing:      spacing,
		MaxIntensity: maxIntensity,
		Stats:        make([]Stats, 0, frames),
		Metrics:      make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Debug("calculate", "steps", steps, "frames", frames, "spacing", spacing, "rays", rays.Len())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Events = rays.Events()
			return result, ctx.Err()
		default:
		}

		if i%spacing == 0 && result.Frames < frames {
			f := s.capture(rays, result.Frames, i, float64(i)*dt)
			if err := sink.WriteFrame(f); err != nil {
				return result, &FrameError{Frame: f.Index, Step: i, Time: f.Time, Wrapped: err}
			}
			for _, o := range s.observers {
				o.OnFrame(f)
			}
			for _, m := range s.metrics {
				m.Observe(f)
			}
			result.Stats = append(result.Stats, f.Stats())
			result.Frames++
			s.logger.Debug("frame", "index", f.Index, "step", i, "rays", f.Rays, "cells", len(f.Cells))
		}

		if n := rays.Len(); n > result.PeakRays {
			result.PeakRays = n
		}
		rays.Step(dt)
	}

	result.Events = rays.Events()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	s.logger.Info("run complete", "frames", result.Frames, "steps", steps,
		"peak_rays", result.PeakRays, "removed", result.Events.Removed)
	return result, nil
}

// GenerateGIF runs Calculate against store, writes the boundary outlines next
// to the frames and asks renderer to animate them.
func (s *Simulation) GenerateGIF(ctx context.Context, dt, duration float64, frames int, store Store, renderer Renderer) (*Result, error) {
	result, err := s.Calculate(ctx, dt, duration, frames, store)
	if err != nil {
		return result, err
	}

	n, err := store.WriteBoundaries(s.Outlines())
	if err != nil {
		return result, fmt.Errorf("sim: write boundaries: %w", err)
	}

	job := RenderJob{
		Dir:          store.Dir(),
		Frames:       result.Frames,
		Boundaries:   n,
		XRange:       s.xr,
		YRange:       s.yr,
		Duration:     duration,
		MaxIntensity: result.MaxIntensity,
	}
	if err := renderer.Render(ctx, job); err != nil {
		return result, fmt.Errorf("sim: render: %w", err)
	}
	return result, nil
}

// Outlines samples every boundary across the x range, in layer order.
func (s *Simulation) Outlines() [][]boundary.Point {
	outlines := make([][]boundary.Point, len(s.layers))
	for i, b := range s.layers {
		outlines[i] = b.Outline(s.xr.Min, s.xr.Max, s.yr.Min, OutlineSamples)
	}
	return outlines
}

func (s *Simulation) validate(dt, duration float64, frames int) (steps, spacing int, err error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return 0, 0, fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidTimestep, dt)
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return 0, 0, fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidDuration, duration)
	}
	if len(s.sources) == 0 {
		return 0, 0, ErrNoSources
	}
	if frames < 1 {
		return 0, 0, fmt.Errorf("%w: got %d", ErrInvalidFrameCount, frames)
	}
	steps = int(duration / dt)
	if frames > steps {
		return 0, 0, fmt.Errorf("%w: %d frames, %d steps", ErrTooManyFrames, frames, steps)
	}
	return steps, steps / frames, nil
}

// emit materializes every source into a fresh ray set and reports the
// strongest per-ray intensity emitted.
func (s *Simulation) emit() (*raytrace.RaySet, float64) {
	total, strongest := 0, 0.0
	for _, src := range s.sources {
		total += src.Rays()
		strongest = math.Max(strongest, src.Intensity())
	}

	rays := raytrace.NewRaySet(s.Environment(), KillRatio*strongest, total)
	maxRay := 0.0
	for _, src := range s.sources {
		for _, r := range src.Emit() {
			rays.Add(r)
		}
		maxRay = math.Max(maxRay, src.RayIntensity())
	}
	return rays, maxRay
}

func (s *Simulation) capture(rays *raytrace.RaySet, index, step int, t float64) *Frame {
	s.grid.Reset()
	rays.Each(func(r raytrace.Ray) {
		s.grid.Append(r.X, r.Y, r.Intensity, r.Phase())
	})
	xs, ys := rays.Positions()
	return &Frame{
		Index:  index,
		Step:   step,
		Time:   t,
		Cells:  s.grid.Output(),
		RayX:   xs,
		RayY:   ys,
		Rays:   rays.Len(),
		Events: rays.Events(),
	}
}
