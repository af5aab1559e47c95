package metrics

import (
	"github.com/san-kum/acoustray/internal/sim"
)

// Survival is the share of the first frame's rays still alive at the last
// frame. Spawned reflections count too, so it can exceed 1.
type Survival struct {
	name    string
	initial int
	last    int
	samples int
}

func NewSurvival() *Survival {
	return &Survival{name: "ray_survival"}
}

func (s *Survival) Name() string {
	return s.name
}

func (s *Survival) Observe(f *sim.Frame) {
	if s.samples == 0 {
		s.initial = f.Rays
	}
	s.last = f.Rays
	s.samples++
}

func (s *Survival) Value() float64 {
	if s.samples == 0 || s.initial == 0 {
		return 1.0
	}
	return float64(s.last) / float64(s.initial)
}

func (s *Survival) Reset() {
	s.initial = 0
	s.last = 0
	s.samples = 0
}
