package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/acoustray/internal/ocean"
)

// DepthSample is the state of the water column at one depth.
type DepthSample struct {
	Depth       float64
	Temperature float64
	Speed       float64
	Pressure    float64
	Impedance   float64
	Absorption  float64
}

// DepthProfile samples the column at n evenly spaced depths from 0 to
// maxDepth. Absorption is evaluated at frequencyHz.
func DepthProfile(c *ocean.Column, maxDepth float64, n int, frequencyHz float64) []DepthSample {
	if n < 2 {
		n = 2
	}
	depths := floats.Span(make([]float64, n), 0, maxDepth)
	out := make([]DepthSample, n)
	for i, z := range depths {
		out[i] = DepthSample{
			Depth:       z,
			Temperature: c.Temperature(z),
			Speed:       c.Speed(z),
			Pressure:    ocean.Pressure(z),
			Impedance:   c.Impedance(z),
			Absorption:  c.Absorption(frequencyHz, z),
		}
	}
	return out
}

// MinSpeedDepth is the depth of the slowest sample, the axis of the sound
// channel.
func MinSpeedDepth(profile []DepthSample) float64 {
	if len(profile) == 0 {
		return 0
	}
	speeds := make([]float64, len(profile))
	for i, p := range profile {
		speeds[i] = p.Speed
	}
	return profile[floats.MinIdx(speeds)].Depth
}
