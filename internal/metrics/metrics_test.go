package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/sim"
)

func frame(rays int, intensities ...float64) *sim.Frame {
	f := &sim.Frame{Rays: rays}
	for _, in := range intensities {
		f.Cells = append(f.Cells, grid.Cell{Intensity: in})
	}
	return f
}

func TestEnergy(t *testing.T) {
	m := NewEnergy()
	m.Observe(frame(3, 1, 2))
	m.Observe(frame(3, 1))

	if got := m.Value(); math.Abs(got-2) > 1e-12 {
		t.Errorf("expected mean energy 2, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDecay(t *testing.T) {
	m := NewEnergyDecay()
	m.Observe(frame(1, 4))
	m.Observe(frame(1, 5))
	m.Observe(frame(1, 1))
	m.Observe(frame(1, 2))

	if got := m.Value(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("expected decay 0.75, got %f", got)
	}
}

func TestSurvival(t *testing.T) {
	tests := []struct {
		name string
		rays []int
		want float64
	}{
		{"no frames", nil, 1},
		{"all lost", []int{10, 0}, 0},
		{"half", []int{10, 8, 5}, 0.5},
		{"echoes", []int{10, 15}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSurvival()
			for _, n := range tt.rays {
				m.Observe(frame(n))
			}
			if got := m.Value(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPeakAndCoverage(t *testing.T) {
	p, c := NewPeak(), NewCoverage()
	for _, f := range []*sim.Frame{frame(1, 0.5, 3), frame(1, 1, 1, 1), frame(1)} {
		p.Observe(f)
		c.Observe(f)
	}
	if p.Value() != 3 {
		t.Errorf("peak = %v, want 3", p.Value())
	}
	if c.Value() != 3 {
		t.Errorf("coverage = %v, want 3", c.Value())
	}
}

func TestDefaultsHaveUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
