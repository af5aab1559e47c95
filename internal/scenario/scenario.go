// Package scenario turns a scenario file into a ready-to-run simulation.
package scenario

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/config"
	"github.com/san-kum/acoustray/internal/material"
	"github.com/san-kum/acoustray/internal/metrics"
	"github.com/san-kum/acoustray/internal/ocean"
	"github.com/san-kum/acoustray/internal/sim"
	"github.com/san-kum/acoustray/internal/storage"
)

type Scenario struct {
	cfg *config.Config
	sim *sim.Simulation
}

// Build validates cfg and assembles its simulation with the default metrics
// attached.
func Build(cfg *config.Config, logger *log.Logger) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return build(cfg, NewRegistry(), logger)
}

func build(cfg *config.Config, reg *Registry, logger *log.Logger) (*Scenario, error) {
	column := &ocean.Column{Profile: cfg.Profile, Latitude: cfg.Latitude}
	s, err := sim.New(sim.Config{
		CellSize: cfg.CellSize,
		XRange:   cfg.XRange,
		YRange:   cfg.YRange,
		Column:   column,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	for i, b := range cfg.Boundaries {
		kind, err := material.Parse(b.Material)
		if err != nil {
			return nil, fmt.Errorf("boundary %d: %w", i, err)
		}
		m, err := material.Define(kind)
		if err != nil {
			return nil, fmt.Errorf("boundary %d: %w", i, err)
		}
		shape, err := reg.Shape(b.Shape)
		if err != nil {
			return nil, fmt.Errorf("boundary %d: %w", i, err)
		}

		var opts []boundary.Option
		if b.XLimits != nil {
			opts = append(opts, boundary.WithXLimits(b.XLimits.Min, b.XLimits.Max))
		}
		if b.Upper != nil {
			opts = append(opts, boundary.WithUpperLimit(*b.Upper))
		}
		if _, err := s.AddBoundary(m, shape, opts...); err != nil {
			return nil, fmt.Errorf("boundary %d: %w", i, err)
		}
	}

	for i, src := range cfg.Sources {
		if err := s.AddSource(src.Start, src.End, src.Rays, src.Intensity, src.Frequency, src.X, src.Y); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
	}

	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	return &Scenario{cfg: cfg, sim: s}, nil
}

func (s *Scenario) Config() *config.Config { return s.cfg }

// Simulation returns the assembled simulation for adding observers.
func (s *Scenario) Simulation() *sim.Simulation { return s.sim }

// Run calculates the scenario into store, writes the boundary outlines and
// records the manifest. With a renderer the run is also animated.
func (s *Scenario) Run(ctx context.Context, store *storage.Store, renderer sim.Renderer) (*sim.Result, *storage.Manifest, error) {
	var (
		res *sim.Result
		err error
	)
	if renderer != nil {
		res, err = s.sim.GenerateGIF(ctx, s.cfg.Dt, s.cfg.Duration, s.cfg.Frames, store, renderer)
	} else {
		res, err = s.sim.Calculate(ctx, s.cfg.Dt, s.cfg.Duration, s.cfg.Frames, store)
		if err == nil {
			_, err = store.WriteBoundaries(s.sim.Outlines())
		}
	}
	if err != nil {
		return res, nil, err
	}

	manifest := storage.NewManifest(s.cfg.Name, s.sim, s.cfg.CellSize, s.cfg.Dt, s.cfg.Duration, res)
	if err := store.WriteManifest(manifest); err != nil {
		return res, nil, fmt.Errorf("write manifest: %w", err)
	}
	return res, manifest, nil
}
