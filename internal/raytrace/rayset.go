// Package raytrace advances acoustic rays through a layered ocean.
//
// Rays live in a [RaySet], a structure-of-arrays arena. Each call to
// [RaySet.Step] removes dead rays with an order-preserving compaction, moves
// every live ray by one timestep (refraction, total internal reflection,
// partial reflection at layer crossings and absorption), and only then appends
// the reflected rays spawned during the sweep.
package raytrace

import (
	"math"
)

// Ray is a single ray outside the arena.
type Ray struct {
	Angle     float64
	X, Y      float64
	Intensity float64
	Time      float64
	Frequency float64
	Sign      float64
}

// Phase is the ray's accumulated phase, 2*pi*f*t.
func (r Ray) Phase() float64 { return 2 * math.Pi * r.Frequency * r.Time }

// Events counts what happened to rays over the lifetime of a set.
type Events struct {
	Crossings     int `json:"crossings"`
	Reflections   int `json:"reflections"`
	TotalInternal int `json:"total_internal"`
	Removed       int `json:"removed"`
}

type RaySet struct {
	angle     []float64
	x, y      []float64
	intensity []float64
	time      []float64
	frequency []float64
	sign      []float64

	pending []Ray
	env     *Environment
	kill    float64
	events  Events
}

// NewRaySet creates an empty arena. Rays whose intensity drops below kill are
// removed.
func NewRaySet(env *Environment, kill float64, capacity int) *RaySet {
	return &RaySet{
		angle:     make([]float64, 0, capacity),
		x:         make([]float64, 0, capacity),
		y:         make([]float64, 0, capacity),
		intensity: make([]float64, 0, capacity),
		time:      make([]float64, 0, capacity),
		frequency: make([]float64, 0, capacity),
		sign:      make([]float64, 0, capacity),
		env:       env,
		kill:      kill,
	}
}

func (s *RaySet) Add(r Ray) {
	s.angle = append(s.angle, r.Angle)
	s.x = append(s.x, r.X)
	s.y = append(s.y, r.Y)
	s.intensity = append(s.intensity, r.Intensity)
	s.time = append(s.time, r.Time)
	s.frequency = append(s.frequency, r.Frequency)
	s.sign = append(s.sign, r.Sign)
}

func (s *RaySet) Len() int { return len(s.x) }

func (s *RaySet) Ray(i int) Ray {
	return Ray{
		Angle:     s.angle[i],
		X:         s.x[i],
		Y:         s.y[i],
		Intensity: s.intensity[i],
		Time:      s.time[i],
		Frequency: s.frequency[i],
		Sign:      s.sign[i],
	}
}

// Each visits live rays in arena order.
func (s *RaySet) Each(fn func(Ray)) {
	for i := range s.x {
		fn(s.Ray(i))
	}
}

// Positions copies out the current ray coordinates.
func (s *RaySet) Positions() (xs, ys []float64) {
	xs = make([]float64, len(s.x))
	ys = make([]float64, len(s.y))
	copy(xs, s.x)
	copy(ys, s.y)
	return xs, ys
}

func (s *RaySet) Events() Events { return s.events }

// Step advances every live ray by dt seconds.
func (s *RaySet) Step(dt float64) {
	n := len(s.x)
	w := 0
	for r := 0; r < n; r++ {
		if s.expired(r) {
			s.events.Removed++
			continue
		}
		if w != r {
			s.move(w, r)
		}
		s.advance(w, dt)
		w++
	}
	s.truncate(w)

	for _, p := range s.pending {
		s.Add(p)
	}
	s.pending = s.pending[:0]
}

func (s *RaySet) expired(i int) bool {
	x, y, in := s.x[i], s.y[i], s.intensity[i]
	if !finite(x) || !finite(y) || !finite(in) {
		return true
	}
	if !s.env.Bounds.Contains(x, y) {
		return true
	}
	return in < s.kill
}

func (s *RaySet) advance(i int, dt float64) {
	angle, sign := s.angle[i], s.sign[i]
	x, y := s.x[i], s.y[i]
	intensity := s.intensity[i]

	old := s.env.MediumAt(x, y)
	sin, cos := math.Sincos(angle)
	ds := sign * dt * old.Speed
	nx, ny := x+ds*sin, y+ds*cos
	next := s.env.MediumAt(nx, ny)

	if criticalExceeded(angle, old.Speed, next.Speed) {
		// total internal reflection bypasses the interface split: nothing is
		// spawned and no transmission loss applies
		angle, sign = -angle, -sign
		s.events.TotalInternal++
	} else {
		if !old.SameAs(next) {
			s.events.Crossings++
			r := ReflectionCoefficient(old.Impedance(), next.Impedance(), angle)
			s.spawnReflection(i, nx, old, next, intensity*r)
			intensity *= 1 - r
		}
		angle = refract(angle, old.Speed, next.Speed)
	}

	s.x[i], s.y[i] = nx, ny
	s.angle[i], s.sign[i] = angle, sign
	s.time[i] += dt
	s.intensity[i] = intensity * s.env.absorptionFactor(s.frequency[i], ny)
}

// spawnReflection queues the reflected sibling of ray i, leaving from the
// ray's position before the crossing.
func (s *RaySet) spawnReflection(i int, nx float64, old, next Medium, intensity float64) {
	if intensity <= 0 {
		return
	}
	layer := next.Layer
	if layer == open {
		layer = old.Layer
	}
	if layer == open {
		return
	}
	m := s.env.Layers[layer].SlopeAt(nx)
	if math.IsNaN(m) {
		return
	}

	refl, tangent := Reflect(Direction(s.angle[i], s.sign[i]), m)
	if grazingAngle(refl, tangent) <= GrazingTolerance {
		return
	}

	angle, sign := BoundAngle(math.Atan2(refl.X, refl.Y))
	s.pending = append(s.pending, Ray{
		Angle:     angle,
		X:         s.x[i],
		Y:         s.y[i],
		Intensity: intensity,
		Time:      s.time[i],
		Frequency: s.frequency[i],
		Sign:      sign,
	})
	s.events.Reflections++
}

func (s *RaySet) move(dst, src int) {
	s.angle[dst] = s.angle[src]
	s.x[dst] = s.x[src]
	s.y[dst] = s.y[src]
	s.intensity[dst] = s.intensity[src]
	s.time[dst] = s.time[src]
	s.frequency[dst] = s.frequency[src]
	s.sign[dst] = s.sign[src]
}

func (s *RaySet) truncate(n int) {
	s.angle = s.angle[:n]
	s.x = s.x[:n]
	s.y = s.y[:n]
	s.intensity = s.intensity[:n]
	s.time = s.time[:n]
	s.frequency = s.frequency[:n]
	s.sign = s.sign[:n]
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
