package raytrace

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// GrazingTolerance is the smallest angle (rad) between a reflected ray and
// the boundary tangent for the reflection to be traced.
const GrazingTolerance = 0.75

// BoundAngle folds a direction measured from the upward vertical into
// [-pi/2, pi/2] and returns the step sign that keeps the direction unchanged.
func BoundAngle(angle float64) (float64, float64) {
	a := math.Remainder(angle, 2*math.Pi)
	switch {
	case a > math.Pi/2:
		return a - math.Pi, -1
	case a < -math.Pi/2:
		return a + math.Pi, -1
	}
	return a, 1
}

// Direction is the unit propagation vector of a ray.
func Direction(angle, sign float64) r2.Vec {
	s, c := math.Sincos(angle)
	return r2.Vec{X: sign * s, Y: sign * c}
}

// ReflectionCoefficient is the share of intensity reflected at an interface
// from impedance z1 into z2 at incidence angle theta. Transmission is 1-R.
func ReflectionCoefficient(z1, z2, theta float64) float64 {
	c := math.Cos(theta)
	den := z2*c + z1*c
	if den == 0 {
		c = 1
		den = z2 + z1
	}
	if den == 0 {
		return 0
	}
	r := math.Abs((z2*c - z1*c) / den)
	if r > 1 {
		return 1
	}
	return r
}

// Reflect mirrors d across the surface with slope m. It also returns the
// unit tangent of the surface.
func Reflect(d r2.Vec, m float64) (refl, tangent r2.Vec) {
	tangent = r2.Unit(r2.Vec{X: 1, Y: m})
	normal := r2.Vec{X: -tangent.Y, Y: tangent.X}
	refl = r2.Sub(d, r2.Scale(2*r2.Dot(d, normal), normal))
	return refl, tangent
}

// grazingAngle is the angle between v and the line along tangent, in [0, pi/2].
func grazingAngle(v, tangent r2.Vec) float64 {
	n := r2.Norm(v)
	if n == 0 {
		return 0
	}
	cos := math.Abs(r2.Dot(v, tangent)) / n
	if cos > 1 {
		cos = 1
	}
	return math.Acos(cos)
}

// criticalExceeded reports total internal reflection for a ray at angle
// passing from speed cOld into a faster cNew.
func criticalExceeded(angle, cOld, cNew float64) bool {
	if cNew <= cOld {
		return false
	}
	return math.Abs(angle) > math.Asin(cOld/cNew)
}

// refract applies Snell's law, sin(a')/cNew = sin(a)/cOld.
func refract(angle, cOld, cNew float64) float64 {
	s := cNew / cOld * math.Sin(angle)
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return math.Asin(s)
}
