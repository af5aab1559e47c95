// Package grid accumulates ray samples into square cells and superposes them
// coherently.
package grid

import (
	"cmp"
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"gonum.org/v1/gonum/cmplxs"
)

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }
func (r Range) Span() float64           { return r.Max - r.Min }

func (r Range) valid() bool {
	return r.Min < r.Max && !math.IsInf(r.Min, 0) && !math.IsInf(r.Max, 0)
}

// Sample is one ray's contribution to a cell.
type Sample struct {
	Intensity float64
	Phase     float64
}

type key struct{ ix, iy int }

// Cell is a superposed output cell located at its centre.
type Cell struct {
	IX, IY    int
	X, Y      float64
	Intensity float64
	Samples   int
}

type Grid struct {
	size   float64
	xr, yr Range
	cells  map[key][]Sample
}

func New(cellSize float64, xr, yr Range) (*Grid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: cell size must be positive, got %g", ErrInvalidGrid, cellSize)
	}
	if !xr.valid() {
		return nil, fmt.Errorf("%w: x range [%g, %g] not increasing", ErrInvalidGrid, xr.Min, xr.Max)
	}
	if !yr.valid() {
		return nil, fmt.Errorf("%w: y range [%g, %g] not increasing", ErrInvalidGrid, yr.Min, yr.Max)
	}
	return &Grid{size: cellSize, xr: xr, yr: yr, cells: make(map[key][]Sample)}, nil
}

func (g *Grid) CellSize() float64    { return g.size }
func (g *Grid) Ranges() (x, y Range) { return g.xr, g.yr }
func (g *Grid) Len() int             { return len(g.cells) }

// Append deposits a sample. Samples outside the grid ranges are dropped and
// reported with false.
func (g *Grid) Append(x, y, intensity, phase float64) bool {
	if !g.xr.Contains(x) || !g.yr.Contains(y) {
		return false
	}
	k := key{
		ix: int(math.Floor((x - g.xr.Min) / g.size)),
		iy: int(math.Floor((y - g.yr.Min) / g.size)),
	}
	g.cells[k] = append(g.cells[k], Sample{Intensity: intensity, Phase: phase})
	return true
}

// Reset drops every sample.
func (g *Grid) Reset() {
	clear(g.cells)
}

// Output superposes every occupied cell. Cells come back ordered by x index,
// then y index.
func (g *Grid) Output() []Cell {
	keys := make([]key, 0, len(g.cells))
	for k := range g.cells {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if c := cmp.Compare(a.ix, b.ix); c != 0 {
			return c
		}
		return cmp.Compare(a.iy, b.iy)
	})

	out := make([]Cell, len(keys))
	for i, k := range keys {
		samples := g.cells[k]
		out[i] = Cell{
			IX:        k.ix,
			IY:        k.iy,
			X:         g.xr.Min + (float64(k.ix)+0.5)*g.size,
			Y:         g.yr.Min + (float64(k.iy)+0.5)*g.size,
			Intensity: Superpose(samples),
			Samples:   len(samples),
		}
	}
	return out
}

// Superpose is the coherent sum of the samples:
//
//	sum(I_i) + 2 * sum_{i<j} sqrt(I_i I_j) cos(phi_i - phi_j)
//
// evaluated as |sum sqrt(I_i) e^(i phi_i)|^2.
func Superpose(samples []Sample) float64 {
	switch len(samples) {
	case 0:
		return 0
	case 1:
		return samples[0].Intensity
	}
	amps := make([]complex128, len(samples))
	for i, s := range samples {
		amps[i] = cmplx.Rect(math.Sqrt(s.Intensity), s.Phase)
	}
	a := cmplx.Abs(cmplxs.Sum(amps))
	return a * a
}
