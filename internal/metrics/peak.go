package metrics

import (
	"math"

	"github.com/san-kum/acoustray/internal/sim"
)

// Peak is the strongest superposed cell seen in any frame.
type Peak struct {
	name string
	peak float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak_intensity"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(f *sim.Frame) {
	p.peak = math.Max(p.peak, f.Stats().Peak)
}

func (p *Peak) Value() float64 { return p.peak }
func (p *Peak) Reset()         { p.peak = 0 }

// Coverage is the largest number of occupied cells in a frame.
type Coverage struct {
	name  string
	cells int
}

func NewCoverage() *Coverage {
	return &Coverage{name: "max_cells"}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) Observe(f *sim.Frame) {
	c.cells = max(c.cells, len(f.Cells))
}

func (c *Coverage) Value() float64 { return float64(c.cells) }
func (c *Coverage) Reset()         { c.cells = 0 }

// Defaults is the metric set every scenario run collects.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDecay(),
		NewSurvival(),
		NewPeak(),
		NewCoverage(),
	}
}
