package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/acoustray/internal/storage"
)

var ErrNoData = errors.New("analysis: no samples")

// LossPoint is the transmission loss at horizontal position X.
type LossPoint struct {
	X    float64
	Loss float64
}

// TransmissionLoss selects the cells whose centre lies within tolerance of y
// and returns 10*log10(ref/I) for each, ordered by x. Cells with no energy
// are skipped.
func TransmissionLoss(samples []storage.Sample, y, tolerance, ref float64) ([]LossPoint, error) {
	if !(ref > 0) {
		return nil, fmt.Errorf("analysis: reference intensity must be positive, got %g", ref)
	}
	out := make([]LossPoint, 0)
	for _, s := range samples {
		if math.Abs(s.Y-y) > tolerance || !(s.Intensity > 0) {
			continue
		}
		out = append(out, LossPoint{X: s.X, Loss: 10 * math.Log10(ref/s.Intensity)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: nothing within %g of y=%g", ErrNoData, tolerance, y)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out, nil
}

// Receiver returns, for each frame, the intensity of the cell nearest to
// (x, y) provided it lies within tolerance on both axes, and 0 otherwise.
func Receiver(frames [][]storage.Sample, x, y, tolerance float64) []float64 {
	series := make([]float64, len(frames))
	for i, samples := range frames {
		best := math.Inf(1)
		for _, s := range samples {
			dx, dy := math.Abs(s.X-x), math.Abs(s.Y-y)
			if dx > tolerance || dy > tolerance {
				continue
			}
			if d := math.Hypot(dx, dy); d < best {
				best = d
				series[i] = s.Intensity
			}
		}
	}
	return series
}
