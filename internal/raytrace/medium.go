package raytrace

import (
	"math"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/ocean"
)

// Bounds is the rectangle rays live in. Rays leaving it are removed.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (b Bounds) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// Environment is everything a ray needs to know about the medium around it.
type Environment struct {
	Column *ocean.Column
	Layers boundary.Stack
	Bounds Bounds
}

const open = -1

// Medium is the local acoustic state at a point. Layer is the boundary index
// or -1 for open water and air.
type Medium struct {
	Layer   int
	Kind    int
	Speed   float64
	Density float64
}

func (m Medium) Impedance() float64 { return m.Density * m.Speed }

// SameAs reports whether two media are the same substance. Open water and air
// count as one medium; the surface is handled by refraction alone.
func (m Medium) SameAs(o Medium) bool { return m.Kind == o.Kind }

func (e *Environment) MediumAt(x, y float64) Medium {
	if idx, surface := e.Layers.Locate(x, y); idx >= 0 {
		mat := e.Layers[idx].Material()
		burial := surface - y
		return Medium{
			Layer:   idx,
			Kind:    int(mat.Kind()),
			Speed:   mat.Speed(burial),
			Density: mat.Density(burial),
		}
	}
	if y > 0 {
		return Medium{Layer: open, Kind: open, Speed: ocean.AirSpeed, Density: ocean.AirDensity}
	}
	depth := -y
	return Medium{Layer: open, Kind: open, Speed: e.Column.Speed(depth), Density: e.Column.Density(depth)}
}

// absorptionFactor is the fraction of intensity a ray keeps over one step.
func (e *Environment) absorptionFactor(frequency, y float64) float64 {
	depth := math.Max(-y, 0)
	f := 1.0 - e.Column.Absorption(frequency, depth)
	if f < 0 {
		return 0
	}
	return f
}
