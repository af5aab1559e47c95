package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/san-kum/acoustray/internal/config"
	"github.com/san-kum/acoustray/internal/sim"
	"github.com/san-kum/acoustray/internal/storage"
)

// SweepRun is one frequency of a sweep.
type SweepRun struct {
	Frequency float64
	Dir       string
	Manifest  *storage.Manifest
}

// Sweep reruns cfg once per frequency, every source retuned to it, each into
// its own directory under root. The runs execute in parallel.
func Sweep(ctx context.Context, cfg *config.Config, frequencies []float64, root string, logger *log.Logger) ([]SweepRun, error) {
	if len(frequencies) == 0 {
		return nil, errors.New("scenario: sweep needs at least one frequency")
	}

	if logger == nil {
		logger = log.New(io.Discard)
	}

	runs := make([]SweepRun, len(frequencies))
	scenarios := make([]*Scenario, len(frequencies))
	jobs := make([]sim.Job, len(frequencies))
	for i, f := range frequencies {
		c := *cfg
		c.Name = cfg.Name + "-" + strconv.FormatFloat(f, 'g', -1, 64) + "Hz"
		c.Sources = slices.Clone(cfg.Sources)
		for j := range c.Sources {
			c.Sources[j].Frequency = f
		}

		sc, err := Build(&c, logger.With("frequency", f))
		if err != nil {
			return nil, fmt.Errorf("%g Hz: %w", f, err)
		}
		dir := filepath.Join(root, c.Name)
		scenarios[i] = sc
		runs[i] = SweepRun{Frequency: f, Dir: dir}
		jobs[i] = sim.Job{
			Name:     c.Name,
			Sim:      sc.Simulation(),
			Dt:       c.Dt,
			Duration: c.Duration,
			Frames:   c.Frames,
			Sink:     storage.New(dir),
		}
	}

	results, err := sim.RunAll(ctx, jobs)
	for i, res := range results {
		sc := scenarios[i]
		if res == nil || res.Frames != sc.cfg.Frames {
			continue
		}
		m := storage.NewManifest(sc.cfg.Name, sc.sim, sc.cfg.CellSize, sc.cfg.Dt, sc.cfg.Duration, res)
		if werr := storage.New(runs[i].Dir).WriteManifest(m); werr != nil {
			err = errors.Join(err, werr)
			continue
		}
		runs[i].Manifest = m
	}
	return runs, err
}
