package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/acoustray/internal/grid"
	"github.com/san-kum/acoustray/internal/ocean"
)

const (
	DefaultDt       = 0.005
	DefaultDuration = 2.0
	DefaultFrames   = 100
	DefaultCellSize = 5.0
	DefaultOutput   = "output"
)

var ErrInvalidConfig = errors.New("config: invalid scenario")

// Config is a complete scenario: the medium, the layers, the sources and how
// long to run.
type Config struct {
	Name     string  `yaml:"name"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Frames   int     `yaml:"frames"`
	Output   string  `yaml:"output"`

	CellSize float64    `yaml:"cell_size"`
	XRange   grid.Range `yaml:"x_range"`
	YRange   grid.Range `yaml:"y_range"`

	Profile  ocean.Profile `yaml:"profile"`
	Latitude float64       `yaml:"latitude"`

	Sources    []SourceConfig   `yaml:"sources"`
	Boundaries []BoundaryConfig `yaml:"boundaries"`
	Render     RenderConfig     `yaml:"render"`
}

// SourceConfig is a point source. Angles are radians from the upward
// vertical.
type SourceConfig struct {
	Start     float64 `yaml:"start"`
	End       float64 `yaml:"end"`
	Rays      int     `yaml:"rays"`
	Intensity float64 `yaml:"intensity"`
	Frequency float64 `yaml:"frequency"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
}

type BoundaryConfig struct {
	Material string      `yaml:"material"`
	Shape    ShapeConfig `yaml:"shape"`
	XLimits  *grid.Range `yaml:"x_limits,omitempty"`
	Upper    *float64    `yaml:"upper,omitempty"`
}

// ShapeConfig names a built-in shape and its parameters. Which fields are
// read depends on Type.
type ShapeConfig struct {
	Type       string    `yaml:"type"`
	Value      float64   `yaml:"value,omitempty"`
	Scale      float64   `yaml:"scale,omitempty"`
	Divisor    float64   `yaml:"divisor,omitempty"`
	Exponent   float64   `yaml:"exponent,omitempty"`
	Offset     float64   `yaml:"offset,omitempty"`
	Coeffs     []float64 `yaml:"coeffs,omitempty"`
	Amplitude  float64   `yaml:"amplitude,omitempty"`
	Wavelength float64   `yaml:"wavelength,omitempty"`
	Phase      float64   `yaml:"phase,omitempty"`
}

type RenderConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// DefaultConfig is a granite dome rising out of a turbidite basin, insonified
// by two omnidirectional sources.
func DefaultConfig() *Config {
	upper := -500.0
	return &Config{
		Name:     "dome",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Frames:   DefaultFrames,
		Output:   DefaultOutput,
		CellSize: DefaultCellSize,
		XRange:   grid.Range{Min: -1500, Max: 1500},
		YRange:   grid.Range{Min: -2000, Max: 1000},
		Profile:  ocean.DefaultProfile(),
		Latitude: ocean.DefaultLatitude,
		Sources: []SourceConfig{
			{Start: -math.Pi, End: math.Pi, Rays: 1000, Intensity: 2, Frequency: 20, X: -500, Y: -200},
			{Start: -math.Pi, End: math.Pi, Rays: 1000, Intensity: 4, Frequency: 10, X: 500, Y: -200},
		},
		Boundaries: []BoundaryConfig{
			{
				Material: "granite",
				Shape:    ShapeConfig{Type: "power", Scale: -1, Divisor: 10, Exponent: 2, Offset: 1000},
				XLimits:  &grid.Range{Min: -400, Max: 400},
				Upper:    &upper,
			},
			{
				Material: "turbidite",
				Shape:    ShapeConfig{Type: "power", Scale: 1, Divisor: 220, Exponent: 4, Offset: -1500},
			},
		},
		Render: RenderConfig{Command: "python3", Args: []string{"render.py"}},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Lists given in the document replace
// the default lists entirely.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks what can be checked without building the simulation.
// Materials, shapes and source geometry are checked when the scenario is
// built.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Dt > 0) {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.Dt))
	}
	if !(c.Duration > 0) {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g", c.Duration))
	}
	if c.Frames < 1 {
		errs = append(errs, fmt.Errorf("frames must be positive, got %d", c.Frames))
	} else if c.Dt > 0 && c.Frames > int(c.Duration/c.Dt) {
		errs = append(errs, fmt.Errorf("%d frames exceed %d steps", c.Frames, int(c.Duration/c.Dt)))
	}
	if !(c.CellSize > 0) {
		errs = append(errs, fmt.Errorf("cell_size must be positive, got %g", c.CellSize))
	}
	if !(c.XRange.Min < c.XRange.Max) {
		errs = append(errs, fmt.Errorf("x_range [%g, %g] not increasing", c.XRange.Min, c.XRange.Max))
	}
	if !(c.YRange.Min < c.YRange.Max) {
		errs = append(errs, fmt.Errorf("y_range [%g, %g] not increasing", c.YRange.Min, c.YRange.Max))
	}
	if len(c.Sources) == 0 {
		errs = append(errs, errors.New("no sources"))
	}
	if err := c.Profile.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
