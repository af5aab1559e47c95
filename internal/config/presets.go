package config

import (
	"math"
	"sort"

	"github.com/san-kum/acoustray/internal/grid"
)

// Presets are ready-made scenarios. Each call builds a fresh copy.
var Presets = map[string]func() *Config{
	"dome": DefaultConfig,

	// A single source over a flat sandy seabed.
	"flat": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "flat"
		cfg.Sources = []SourceConfig{
			{Start: -math.Pi, End: math.Pi, Rays: 720, Intensity: 2, Frequency: 50, X: 0, Y: -100},
		}
		cfg.Boundaries = []BoundaryConfig{
			{Material: "sand", Shape: ShapeConfig{Type: "constant", Value: -1000}},
		}
		return cfg
	},

	// A downward fan launched at the bottom of the thermocline, where the
	// sound speed is lowest, over a deep calcareous floor.
	"channel": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "channel"
		cfg.XRange = grid.Range{Min: -5000, Max: 5000}
		cfg.YRange = grid.Range{Min: -3000, Max: 200}
		cfg.CellSize = 10
		cfg.Duration = 3
		cfg.Frames = 60
		cfg.Sources = []SourceConfig{
			{Start: math.Pi / 3, End: 2 * math.Pi / 3, Rays: 400, Intensity: 1, Frequency: 100, X: -4500, Y: -1000},
		}
		cfg.Boundaries = []BoundaryConfig{
			{Material: "calcareous", Shape: ShapeConfig{Type: "constant", Value: -2800}},
		}
		return cfg
	},

	// A rippled basalt ridge under siliceous ooze.
	"ridge": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "ridge"
		cfg.Sources = []SourceConfig{
			{Start: -math.Pi, End: math.Pi, Rays: 1000, Intensity: 3, Frequency: 30, X: 0, Y: -300},
		}
		cfg.Boundaries = []BoundaryConfig{
			{Material: "siliceous", Shape: ShapeConfig{Type: "constant", Value: -1200}},
			{Material: "basalt", Shape: ShapeConfig{Type: "sine", Amplitude: 150, Wavelength: 800, Offset: -1400}},
		}
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
