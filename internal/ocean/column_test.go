package ocean

import (
	"math"
	"testing"
)

func TestProfileTemperature(t *testing.T) {
	p := DefaultProfile()

	tests := []struct {
		depth    float64
		expected float64
	}{
		{0, 20},
		{200, 20},
		{600, 12},
		{1000, 4},
		{4000, 4},
	}

	for _, tt := range tests {
		if got := p.Temperature(tt.depth); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Temperature(%v) = %v, want %v", tt.depth, got, tt.expected)
		}
	}
}

func TestProfileValidate(t *testing.T) {
	p := DefaultProfile()
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}

	p.ThermoclineEnd = p.ThermoclineStart
	if err := p.Validate(); err == nil {
		t.Error("expected error for empty thermocline")
	}
}

func TestWaterSpeedRange(t *testing.T) {
	c := NewColumn()
	for _, depth := range []float64{0, 100, 500, 1000, 2000, 4000} {
		v := c.Speed(depth)
		if v < 1400 || v > 1600 {
			t.Errorf("speed at %vm = %v, outside seawater range", depth, v)
		}
	}
}

func TestSurfaceSpeedMatchesPolynomial(t *testing.T) {
	c := NewColumn()
	got := c.Speed(0)
	want := WaterSpeed(20, SpeedSalinity, 0, DefaultLatitude)
	if got != want {
		t.Errorf("Speed(0) = %v, want %v", got, want)
	}
}

func TestAbsorptionNonNegative(t *testing.T) {
	for _, f := range []float64{0.1, 1, 10, 20, 100} {
		for _, temp := range []float64{0, 4, 12, 20, 30} {
			for _, depth := range []float64{0, 500, 2000, 5000} {
				a := Absorption(f, temp, AbsorptionSalinity, depth)
				if a < 0 || math.IsNaN(a) {
					t.Errorf("Absorption(%v, %v, 35, %v) = %v", f, temp, depth, a)
				}
			}
		}
	}
}

func TestAbsorptionIncreasesWithFrequency(t *testing.T) {
	low := Absorption(1, 10, AbsorptionSalinity, 100)
	high := Absorption(20, 10, AbsorptionSalinity, 100)
	if high <= low {
		t.Errorf("expected higher loss at 20kHz (%v) than 1kHz (%v)", high, low)
	}
	// roughly 3-5 dB/km at 20 kHz in temperate water
	if high < 0.001 || high > 0.01 {
		t.Errorf("20kHz absorption %v dB/m out of expected band", high)
	}
}

func TestColumnAbsorptionUsesHertz(t *testing.T) {
	c := NewColumn()
	want := Absorption(20, c.Temperature(300), AbsorptionSalinity, 300)
	if got := c.Absorption(20000, 300); got != want {
		t.Errorf("Absorption(20000Hz) = %v, want %v", got, want)
	}
}

func TestPressure(t *testing.T) {
	if got := Pressure(10); math.Abs(got-10*WaterDensity*Gravity) > 1e-9 {
		t.Errorf("Pressure(10) = %v", got)
	}
	if Pressure(0) != 0 {
		t.Error("surface gauge pressure should be zero")
	}
}
