package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/acoustray/internal/boundary"
	"github.com/san-kum/acoustray/internal/config"
)

// Registry maps shape type names used in scenario files to constructors.
type Registry struct {
	shapes map[string]func(config.ShapeConfig) (boundary.Shape, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		shapes: make(map[string]func(config.ShapeConfig) (boundary.Shape, error)),
	}

	r.shapes["constant"] = func(c config.ShapeConfig) (boundary.Shape, error) {
		return boundary.Constant(c.Value), nil
	}
	r.shapes["power"] = func(c config.ShapeConfig) (boundary.Shape, error) {
		return boundary.Power{Scale: c.Scale, Divisor: c.Divisor, Exponent: c.Exponent, Offset: c.Offset}, nil
	}
	r.shapes["polynomial"] = func(c config.ShapeConfig) (boundary.Shape, error) {
		if len(c.Coeffs) == 0 {
			return nil, fmt.Errorf("%w: polynomial without coefficients", ErrUnknownShape)
		}
		return boundary.Polynomial(append([]float64(nil), c.Coeffs...)), nil
	}
	r.shapes["sine"] = func(c config.ShapeConfig) (boundary.Shape, error) {
		if c.Wavelength <= 0 {
			return nil, fmt.Errorf("%w: sine wavelength must be positive, got %g", ErrUnknownShape, c.Wavelength)
		}
		return boundary.Sine{Amplitude: c.Amplitude, Wavelength: c.Wavelength, Phase: c.Phase, Offset: c.Offset}, nil
	}

	return r
}

func (r *Registry) Shape(c config.ShapeConfig) (boundary.Shape, error) {
	fn, ok := r.shapes[strings.ToLower(c.Type)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, c.Type)
	}
	return fn(c)
}

func (r *Registry) ListShapes() []string {
	names := make([]string, 0, len(r.shapes))
	for name := range r.shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
