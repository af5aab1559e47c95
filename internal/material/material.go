// Package material holds the acoustic properties of the rock and sediment
// layers a boundary can be made of.
//
// Every substance is a [Kind]. Rock kinds carry elastic moduli and a fixed
// density and have a constant P-wave speed. Sediment kinds carry an empirical
// velocity law in burial depth and a density that follows the local speed.
package material

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

type Kind int

const (
	Basalt Kind = iota
	Granite
	Quartzite
	Gneiss
	Schist
	Marble
	Limestone
	Shale
	Sandstone

	TurbiditeArea
	SiliceousSediment
	CalcerousSediment
	Sand
)

type Family int

const (
	Rock Family = iota
	Sediment
)

func (f Family) String() string {
	if f == Rock {
		return "rock"
	}
	return "sediment"
}

var kindNames = map[Kind]string{
	Basalt:            "basalt",
	Granite:           "granite",
	Quartzite:         "quartzite",
	Gneiss:            "gneiss",
	Schist:            "schist",
	Marble:            "marble",
	Limestone:         "limestone",
	Shale:             "shale",
	Sandstone:         "sandstone",
	TurbiditeArea:     "turbidite",
	SiliceousSediment: "siliceous",
	CalcerousSediment: "calcareous",
	Sand:              "sand",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) Family() Family {
	if k >= TurbiditeArea {
		return Sediment
	}
	return Rock
}

// Kinds lists every known kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Parse resolves a case-insensitive material name.
func Parse(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "turbiditearea", "turbidite_area":
		return TurbiditeArea, nil
	case "siliceoussediment", "siliceous_sediment":
		return SiliceousSediment, nil
	case "calcerous", "calceroussediment", "calcareous_sediment", "calcareoussediment":
		return CalcerousSediment, nil
	}
	for k, v := range kindNames {
		if v == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
}

// elastic constants: Young's modulus (GPa), Poisson ratio, density (kg/m3)
type rockProps struct {
	youngs  float64
	poisson float64
	density float64
}

var rockTable = map[Kind]rockProps{
	Basalt:    {62.6, 0.25, 3011},
	Granite:   {59.3, 0.23, 2691},
	Quartzite: {70.9, 0.15, 2655},
	Gneiss:    {58.6, 0.21, 2750},
	Schist:    {42.4, 0.12, 2350},
	Marble:    {46.3, 0.23, 2711},
	Limestone: {50.4, 0.25, 1790},
	Shale:     {13.7, 0.08, 2675},
	Sandstone: {15.3, 0.24, 2323},
}

// velocity law coefficients in km/s with burial depth in km:
// v = c0 + c1 d + c2 d^2 + c3 d^3
var sedimentTable = map[Kind][4]float64{
	TurbiditeArea:     {1.511, 1.304, 0, -0.257},
	SiliceousSediment: {1.509, 0.869, -0.267, 0},
	CalcerousSediment: {1.559, 1.713, -0.374, 0},
	Sand:              {1.626, 0, 0, 0},
}

const (
	gardnerScale    = 310.0
	gardnerExponent = 0.25
)

// Material is a resolved substance. The zero value is not usable; build one
// with [Define].
type Material struct {
	kind Kind

	shearModulus float64
	bulkModulus  float64
	density      float64
	rockSpeed    float64

	law [4]float64
}

func Define(kind Kind) (Material, error) {
	if rp, ok := rockTable[kind]; ok {
		e := rp.youngs * 1e9
		shear := e / (2.0 * (1.0 + rp.poisson))
		bulk := e / (3.0 * (1.0 - 2.0*rp.poisson))
		return Material{
			kind:         kind,
			shearModulus: shear,
			bulkModulus:  bulk,
			density:      rp.density,
			rockSpeed:    math.Sqrt((bulk + 4.0*shear/3.0) / rp.density),
		}, nil
	}
	if law, ok := sedimentTable[kind]; ok {
		return Material{kind: kind, law: law}, nil
	}
	return Material{}, fmt.Errorf("%w: %v", ErrUnknownMaterial, kind)
}

// MustDefine is Define for kinds known at compile time.
func MustDefine(kind Kind) Material {
	m, err := Define(kind)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Material) Kind() Kind { return m.kind }

// Moduli returns shear and bulk modulus in Pa. ok is false for sediments.
func (m Material) Moduli() (shear, bulk float64, ok bool) {
	if m.kind.Family() != Rock {
		return 0, 0, false
	}
	return m.shearModulus, m.bulkModulus, true
}

// Speed returns the P-wave speed in m/s at burial metres below the layer top.
func (m Material) Speed(burial float64) float64 {
	if m.kind.Family() == Rock {
		return m.rockSpeed
	}
	if burial < 0 {
		burial = 0
	}
	d := burial * 0.001
	l := m.law
	return (l[0] + l[1]*d + l[2]*d*d + l[3]*d*d*d) * 1000.0
}

// Density returns kg/m3. Rock density is fixed; sediment density follows
// Gardner's power law on the local speed. Sand has a constant speed law, so
// its density does not change with burial either.
func (m Material) Density(burial float64) float64 {
	if m.kind.Family() == Rock {
		return m.density
	}
	return gardnerScale * math.Pow(m.Speed(burial), gardnerExponent)
}

func (m Material) Impedance(burial float64) float64 {
	return m.Density(burial) * m.Speed(burial)
}

func (m Material) String() string { return m.kind.String() }
