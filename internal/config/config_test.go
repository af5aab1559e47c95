package config

import (
	"errors"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "dome" {
		t.Errorf("expected scenario dome, got %s", cfg.Name)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if len(cfg.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(cfg.Sources))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDefaultConfigIsFresh(t *testing.T) {
	a, b := DefaultConfig(), DefaultConfig()
	*a.Boundaries[0].Upper = 7
	a.Sources[0].Rays = 1
	if *b.Boundaries[0].Upper != -500 || b.Sources[0].Rays != 1000 {
		t.Error("default configs share state")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("flat")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Boundaries[0].Shape.Type != "constant" {
		t.Errorf("expected constant seabed, got %s", cfg.Boundaries[0].Shape.Type)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	g := NewWithT(t)
	g.Expect(ListPresets()).To(Equal([]string{"channel", "dome", "flat", "ridge"}))
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			if err := GetPreset(name).Validate(); err != nil {
				t.Errorf("preset %s: %v", name, err)
			}
		})
	}
}

func TestPresetsRoundTrip(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			g := NewWithT(t)
			path := filepath.Join(t.TempDir(), name+".yaml")

			want := GetPreset(name)
			g.Expect(Save(path, want)).To(Succeed())

			got, err := Load(path)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(got).To(Equal(want))
		})
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	g := NewWithT(t)

	cfg, err := Parse([]byte(`
name: shallow
dt: 0.01
sources:
  - start: -0.5
    end: 0.5
    rays: 10
    intensity: 1
    frequency: 200
    x: 0
    y: -20
boundaries:
  - material: sand
    shape: {type: constant, value: -100}
    x_limits: {min: -50, max: 50}
`))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Name).To(Equal("shallow"))
	g.Expect(cfg.Dt).To(Equal(0.01))
	g.Expect(cfg.Duration).To(Equal(DefaultDuration))
	g.Expect(cfg.Sources).To(HaveLen(1))
	g.Expect(cfg.Boundaries).To(HaveLen(1))
	g.Expect(cfg.Boundaries[0].XLimits.Max).To(Equal(50.0))
	g.Expect(cfg.Boundaries[0].Upper).To(BeNil())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"no frames", func(c *Config) { c.Frames = 0 }},
		{"too many frames", func(c *Config) { c.Frames = 401 }},
		{"zero cell", func(c *Config) { c.CellSize = 0 }},
		{"reversed x", func(c *Config) { c.XRange.Min, c.XRange.Max = 1, -1 }},
		{"reversed y", func(c *Config) { c.YRange.Min = c.YRange.Max }},
		{"no sources", func(c *Config) { c.Sources = nil }},
		{"bad thermocline", func(c *Config) { c.Profile.ThermoclineEnd = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
