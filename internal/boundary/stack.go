package boundary

import "math"

// Stack is the ordered set of boundaries in a simulation. Indexes are stable
// and double as layer identities.
type Stack []*Boundary

// Locate returns the index of the layer containing (x, y) and the height of
// its surface at x, or -1 when the point is above every valid surface.
//
// Among the boundaries valid at x, a point lies inside a layer when it is
// below that layer's surface; the occupied layer is the one with the highest
// surface above the point, so a shallower layer covers the ones beneath it.
func (s Stack) Locate(x, y float64) (int, float64) {
	idx, best := -1, math.Inf(-1)
	for i, b := range s {
		h, ok := b.HeightAt(x)
		if !ok || math.IsNaN(h) || math.IsInf(h, 0) {
			continue
		}
		if h > y && h > best {
			idx, best = i, h
		}
	}
	if idx < 0 {
		return -1, 0
	}
	return idx, best
}
