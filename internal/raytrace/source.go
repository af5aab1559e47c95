package raytrace

import (
	"fmt"
	"math"
)

// Source is a point emitter producing an evenly spaced fan of rays.
type Source struct {
	start, end float64
	rays       int
	intensity  float64
	frequency  float64
	x, y       float64
}

// NewSource validates and normalizes a source. Angles are measured from the
// upward vertical and must lie in [-pi, pi]; an end below start wraps by 2pi.
func NewSource(start, end float64, rays int, intensity, frequency, x, y float64) (Source, error) {
	if rays <= 0 {
		return Source{}, fmt.Errorf("%w: ray count must be positive, got %d", ErrInvalidSource, rays)
	}
	if !(intensity > 0) || math.IsInf(intensity, 0) {
		return Source{}, fmt.Errorf("%w: intensity must be positive, got %g", ErrInvalidSource, intensity)
	}
	if !(frequency > 0) || math.IsInf(frequency, 0) {
		return Source{}, fmt.Errorf("%w: frequency must be positive, got %g", ErrInvalidSource, frequency)
	}
	if !inAngleRange(start) || !inAngleRange(end) {
		return Source{}, fmt.Errorf("%w: angles [%g, %g] outside [-pi, pi]", ErrInvalidSource, start, end)
	}
	if start == end {
		return Source{}, fmt.Errorf("%w: empty angle range at %g", ErrInvalidSource, start)
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return Source{}, fmt.Errorf("%w: location (%g, %g) not finite", ErrInvalidSource, x, y)
	}
	if end < start {
		end += 2 * math.Pi
	}
	return Source{
		start:     start,
		end:       end,
		rays:      rays,
		intensity: intensity,
		frequency: frequency,
		x:         x,
		y:         y,
	}, nil
}

func inAngleRange(a float64) bool { return a >= -math.Pi && a <= math.Pi }

func (s Source) Angles() (start, end float64) { return s.start, s.end }
func (s Source) Rays() int                    { return s.rays }
func (s Source) Intensity() float64           { return s.intensity }
func (s Source) Frequency() float64           { return s.frequency }
func (s Source) Location() (x, y float64)     { return s.x, s.y }

// RayIntensity is the intensity each emitted ray starts with: the source
// intensity spread over rays squared.
func (s Source) RayIntensity() float64 {
	n := float64(s.rays)
	return s.intensity / (n * n)
}

// Emit materializes the fan. Ray i leaves through the centre of the i-th
// angular bin of the range.
func (s Source) Emit() []Ray {
	out := make([]Ray, s.rays)
	step := (s.end - s.start) / float64(s.rays)
	ri := s.RayIntensity()
	for i := range out {
		angle, sign := BoundAngle(s.start + (float64(i)+0.5)*step)
		out[i] = Ray{
			Angle:     angle,
			X:         s.x,
			Y:         s.y,
			Intensity: ri,
			Frequency: s.frequency,
			Sign:      sign,
		}
	}
	return out
}
