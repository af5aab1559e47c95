package boundary

import "math"

// Shape maps a horizontal position to a boundary height. Heights follow the
// simulation convention: y is negative depth, so a seabed at 500 m is -500.
type Shape interface {
	Height(x float64) float64
}

// ShapeFunc adapts an ordinary function to [Shape].
type ShapeFunc func(x float64) float64

func (f ShapeFunc) Height(x float64) float64 { return f(x) }

// Constant is a flat surface.
type Constant float64

func (c Constant) Height(float64) float64 { return float64(c) }

// Power is Scale*(x/Divisor)^Exponent + Offset.
type Power struct {
	Scale    float64
	Divisor  float64
	Exponent float64
	Offset   float64
}

func (p Power) Height(x float64) float64 {
	d := p.Divisor
	if d == 0 {
		d = 1
	}
	return p.Scale*math.Pow(x/d, p.Exponent) + p.Offset
}

// Polynomial evaluates Coeffs[0] + Coeffs[1]*x + ... with Horner's rule.
type Polynomial []float64

func (p Polynomial) Height(x float64) float64 {
	y := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		y = y*x + p[i]
	}
	return y
}

// Sine is a rippled seabed.
type Sine struct {
	Amplitude  float64
	Wavelength float64
	Phase      float64
	Offset     float64
}

func (s Sine) Height(x float64) float64 {
	if s.Wavelength == 0 {
		return s.Offset
	}
	return s.Amplitude*math.Sin(2*math.Pi*x/s.Wavelength+s.Phase) + s.Offset
}
