package metrics

import (
	"math"

	"github.com/san-kum/acoustray/internal/sim"
)

// Energy is the mean total grid intensity over the frames of a run.
type Energy struct {
	name    string
	total   float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "mean_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f *sim.Frame) {
	e.total += f.Stats().Total
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDecay is the largest relative drop of total grid intensity against
// the first frame, in [0, 1] for a decaying field. Coherent interference can
// push single frames above the first one; those count as no decay.
type EnergyDecay struct {
	name     string
	initial  float64
	maxDecay float64
	samples  int
}

func NewEnergyDecay() *EnergyDecay {
	return &EnergyDecay{name: "energy_decay"}
}

func (e *EnergyDecay) Name() string { return e.name }

func (e *EnergyDecay) Observe(f *sim.Frame) {
	energy := f.Stats().Total

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		decay := (e.initial - energy) / math.Abs(e.initial)
		e.maxDecay = math.Max(e.maxDecay, decay)
	}
}

func (e *EnergyDecay) Value() float64 {
	return e.maxDecay
}

func (e *EnergyDecay) Reset() {
	e.initial = 0
	e.maxDecay = 0
	e.samples = 0
}
