package ocean

import (
	"fmt"
	"math"
)

const (
	AirSpeed     = 343.0
	AirDensity   = 1.225
	WaterDensity = 1025.0
	Gravity      = 9.81

	// SpeedSalinity feeds the sound speed polynomial; AbsorptionSalinity feeds
	// the absorption model. The two values differ and are kept apart on purpose.
	SpeedSalinity      = 22.0
	AbsorptionSalinity = 35.0

	DefaultLatitude = 43.0
	DefaultPH       = 8.0
)

// Profile is a piecewise linear temperature profile: constant down to
// ThermoclineStart, linear across the thermocline, constant below ThermoclineEnd.
type Profile struct {
	SurfaceTemp      float64 `yaml:"surface_temp"`
	BottomTemp       float64 `yaml:"bottom_temp"`
	ThermoclineStart float64 `yaml:"thermocline_start"`
	ThermoclineEnd   float64 `yaml:"thermocline_end"`
}

func DefaultProfile() Profile {
	return Profile{
		SurfaceTemp:      20.0,
		BottomTemp:       4.0,
		ThermoclineStart: 200.0,
		ThermoclineEnd:   1000.0,
	}
}

func (p Profile) Validate() error {
	if p.ThermoclineEnd <= p.ThermoclineStart {
		return fmt.Errorf("%w: thermocline [%g, %g] is not increasing", ErrInvalidProfile, p.ThermoclineStart, p.ThermoclineEnd)
	}
	if p.ThermoclineStart < 0 {
		return fmt.Errorf("%w: thermocline start %g above the surface", ErrInvalidProfile, p.ThermoclineStart)
	}
	return nil
}

// Temperature returns degrees C at depth metres below the surface.
func (p Profile) Temperature(depth float64) float64 {
	switch {
	case depth <= p.ThermoclineStart:
		return p.SurfaceTemp
	case depth >= p.ThermoclineEnd:
		return p.BottomTemp
	}
	frac := (depth - p.ThermoclineStart) / (p.ThermoclineEnd - p.ThermoclineStart)
	return p.SurfaceTemp + frac*(p.BottomTemp-p.SurfaceTemp)
}

// Column describes the water column a simulation runs in. Depths are positive
// metres below the surface.
type Column struct {
	Profile  Profile
	Latitude float64
}

func NewColumn() *Column {
	return &Column{Profile: DefaultProfile(), Latitude: DefaultLatitude}
}

func (c *Column) Temperature(depth float64) float64 {
	return c.Profile.Temperature(depth)
}

// Speed evaluates the Medwin/Mackenzie style polynomial at depth.
func (c *Column) Speed(depth float64) float64 {
	return WaterSpeed(c.Temperature(depth), SpeedSalinity, depth, c.Latitude)
}

func (c *Column) Density(depth float64) float64 { return WaterDensity }

func (c *Column) Impedance(depth float64) float64 {
	return c.Density(depth) * c.Speed(depth)
}

// Absorption returns the dB/m loss for a ray of frequencyHz at depth.
func (c *Column) Absorption(frequencyHz, depth float64) float64 {
	return Absorption(frequencyHz/1000.0, c.Temperature(depth), AbsorptionSalinity, depth)
}

// WaterSpeed is the raw sound speed polynomial. The doubled T² term is part of
// the reference formula.
func WaterSpeed(t, s, z, lat float64) float64 {
	return 1402.5 + 5.0*t - 5.44e-2*t*t + 2.1e-4*t*t +
		1.33*s - 1.23e-2*s*t + 8.7e-5*s*t*t +
		1.56e-2*z + 2.55e-7*z*z - 7.3e-12*z*z*z +
		1.2e-6*z*(lat-45.0) - 9.5e-13*t*z*z*z +
		3e-7*t*t*z + 1.43e-5*s*z
}

// Absorption is the Ainslie & McColm seawater absorption in dB/m.
// f is in kHz, t in degrees C, s in ppt and depth in metres.
func Absorption(f, t, s, depth float64) float64 {
	z := depth / 1000.0
	f2 := f * f

	relaxB := 0.91 * math.Sqrt(s/35.0) * math.Exp(t/33.0)
	relaxMg := 46.0 * math.Exp(t/18.0)

	boric := 0.101 * (relaxB * f2 / (relaxB*relaxB + f2)) * math.Exp((DefaultPH-8.0)/0.57)
	mgso4 := 0.56 * (1.0 + t/76.0) * (s / 35.0) * (relaxMg * f2 / (relaxMg*relaxMg + f2)) * math.Exp(-z/4.9)
	water := (4.937e-4 - 2.59e-5*t + 9.11e-7*t*t - 1.5010e-8*t*t*t) *
		(1.0 - 3.38e-2*z + 4.9e-4*z*z) * f2

	return (boric + mgso4 + water) / 1000.0
}

// Pressure is the hydrostatic gauge pressure in Pa at depth.
func Pressure(depth float64) float64 {
	return depth * WaterDensity * Gravity
}
