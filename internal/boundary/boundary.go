// Package boundary models the material layers beneath (or above) the water.
//
// A [Boundary] is the top surface of one material region, described by a
// [Shape] over x. Boundaries stack like sediment layers: a point belongs to the
// layer whose surface is the nearest one above it (see [Stack.Locate]).
package boundary

import (
	"fmt"
	"math"

	"github.com/san-kum/acoustray/internal/material"
	"gonum.org/v1/gonum/floats"
)

const slopeStep = 1e-3

type Boundary struct {
	material material.Material
	shape    Shape

	hasX       bool
	xMin, xMax float64

	hasUpper bool
	upper    float64
}

type Option func(*Boundary) error

// WithXLimits restricts the boundary to x in [min, max].
func WithXLimits(min, max float64) Option {
	return func(b *Boundary) error { return b.LimitX(min, max) }
}

// WithUpperLimit clamps the boundary height to at most y.
func WithUpperLimit(y float64) Option {
	return func(b *Boundary) error { return b.ClampHeight(y) }
}

func New(m material.Material, shape Shape, opts ...Option) (*Boundary, error) {
	if shape == nil {
		return nil, fmt.Errorf("%w: nil shape", ErrInvalidBoundary)
	}
	b := &Boundary{material: m, shape: shape}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Boundary) LimitX(min, max float64) error {
	if !(min < max) {
		return fmt.Errorf("%w: x limits [%g, %g] not increasing", ErrInvalidBoundary, min, max)
	}
	b.hasX, b.xMin, b.xMax = true, min, max
	return nil
}

func (b *Boundary) ClampHeight(y float64) error {
	if math.IsNaN(y) {
		return fmt.Errorf("%w: upper limit is NaN", ErrInvalidBoundary)
	}
	b.hasUpper, b.upper = true, y
	return nil
}

func (b *Boundary) Material() material.Material { return b.material }

// XLimits reports the validity window, if any.
func (b *Boundary) XLimits() (min, max float64, ok bool) {
	return b.xMin, b.xMax, b.hasX
}

// HeightAt returns the surface height at x. ok is false where the boundary
// does not exist.
func (b *Boundary) HeightAt(x float64) (float64, bool) {
	if b.hasX && (x < b.xMin || x > b.xMax) {
		return 0, false
	}
	h := b.shape.Height(x)
	if b.hasUpper && h > b.upper {
		h = b.upper
	}
	return h, true
}

// SlopeAt is dy/dx of the surface by central difference, falling back to a
// one-sided difference at the edges of the window. NaN when x is not covered.
func (b *Boundary) SlopeAt(x float64) float64 {
	lo, okLo := b.HeightAt(x - slopeStep)
	hi, okHi := b.HeightAt(x + slopeStep)
	mid, okMid := b.HeightAt(x)

	switch {
	case okLo && okHi:
		return (hi - lo) / (2 * slopeStep)
	case okHi && okMid:
		return (hi - mid) / slopeStep
	case okLo && okMid:
		return (mid - lo) / slopeStep
	}
	return math.NaN()
}

// Point is an outline sample.
type Point struct{ X, Y float64 }

// Outline samples n points across [xMin, xMax]. Samples outside the validity
// window are dropped; when the boundary starts inside the range a leading
// point at (firstX, yMin) closes the outline against the floor.
func (b *Boundary) Outline(xMin, xMax, yMin float64, n int) []Point {
	if n < 2 {
		n = 2
	}
	xs := floats.Span(make([]float64, n), xMin, xMax)
	pts := make([]Point, 0, n+1)
	for i, x := range xs {
		h, ok := b.HeightAt(x)
		if !ok || math.IsNaN(h) || math.IsInf(h, 0) {
			continue
		}
		if len(pts) == 0 && i > 0 {
			pts = append(pts, Point{X: x, Y: yMin})
		}
		pts = append(pts, Point{X: x, Y: h})
	}
	return pts
}
