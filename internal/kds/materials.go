package kds

import (
	"errors"
	"fmt"
	"math"
)

// KDS 14 20 (strength design) material constants

const (
	// Beta1 factors for equivalent rectangular stress block
	Beta1Max = 0.85 // for fck <= 28 MPa
	Beta1Min = 0.65 // minimum value

	// Strain limits
	EpsilonCU      = 0.003 // Ultimate concrete strain
	EpsilonTension = 0.005 // Tension-controlled strain limit

	// Strength reduction factors
	PhiFlexure     = 0.85 // Tension-controlled sections
	PhiShear       = 0.85 // Shear, as displayed by the calculation sheet
	PhiCompression = 0.65 // Compression-controlled (tied)

	// Modulus of elasticity for steel
	Es = 200000.0 // MPa

	// Unit mass of concrete (kg/m³): default for normal weight, and the
	// range over which the Ec expression holds
	DefaultUnitMass = 2300.0
	MinUnitMass     = 1450.0
	MaxUnitMass     = 2500.0
)

// ErrInvalidMaterial is returned when fck or fy is not a positive finite
// number, or mc is outside the unit mass range.
var ErrInvalidMaterial = errors.New("invalid material")

// Material holds the concrete and steel strengths shared by every row of a batch.
type Material struct {
	Fck float64 `json:"fck" yaml:"fck"` // concrete compressive strength (MPa)
	Fy  float64 `json:"fy" yaml:"fy"`   // steel yield strength (MPa)

	// Unit mass of concrete (kg/m³), DefaultUnitMass when zero
	Mc float64 `json:"mc,omitempty" yaml:"mc,omitempty"`
}

// Factors are the strength-reduction factors derived from a Material.
// They are outputs only; nothing in a request can set them.
type Factors struct {
	PhiF float64 `json:"phi_f"`
	PhiV float64 `json:"phi_v"`
}

// Validate checks that fck and fy are usable.
func (m Material) Validate() error {
	if !positiveFinite(m.Fck) || !positiveFinite(m.Fy) {
		return fmt.Errorf("%w: fck=%v, fy=%v", ErrInvalidMaterial, m.Fck, m.Fy)
	}
	if m.Mc != 0 && !(m.Mc >= MinUnitMass && m.Mc <= MaxUnitMass) {
		return fmt.Errorf("%w: mc=%v outside %v-%v kg/m³", ErrInvalidMaterial, m.Mc, MinUnitMass, MaxUnitMass)
	}
	return nil
}

// UnitMass returns Mc or the default unit mass.
func (m Material) UnitMass() float64 {
	if m.Mc == 0 {
		return DefaultUnitMass
	}
	return m.Mc
}

// DeriveFactors returns the base flexure and shear strength-reduction factors.
// The flexural factor of an individual row is refined from its tensile strain
// by PhiFor.
func DeriveFactors(fck, fy float64) (Factors, error) {
	if err := (Material{Fck: fck, Fy: fy}).Validate(); err != nil {
		return Factors{}, err
	}
	return Factors{PhiF: PhiFlexure, PhiV: PhiShear}, nil
}

// Beta1 calculates the factor for equivalent rectangular stress block
func Beta1(fck float64) float64 {
	if fck <= 28 {
		return Beta1Max
	}
	// β1 = 0.85 - 0.007(fck - 28) for fck > 28 MPa
	beta1 := Beta1Max - 0.007*(fck-28)
	return math.Max(beta1, Beta1Min)
}

// PhiFor calculates the flexural strength reduction factor from the net
// tensile strain of the extreme tension steel.
func PhiFor(epsilonT float64, fy float64) float64 {
	epsilonY := fy / Es

	if epsilonT >= EpsilonTension {
		return PhiFlexure
	} else if epsilonT <= epsilonY {
		return PhiCompression
	}
	// Transition zone
	return PhiCompression + (PhiFlexure-PhiCompression)*(epsilonT-epsilonY)/(EpsilonTension-epsilonY)
}

// RhoMinTerms returns both minimum reinforcement ratio expressions:
// 1.4/fy and 0.25√fck/fy.
func RhoMinTerms(fck, fy float64) (float64, float64) {
	return 1.4 / fy, 0.25 * math.Sqrt(fck) / fy
}

// RhoMin calculates minimum reinforcement ratio
func RhoMin(fck, fy float64) float64 {
	rho1, rho2 := RhoMinTerms(fck, fy)
	return math.Max(rho1, rho2)
}

// RhoBalanced calculates balanced reinforcement ratio
func RhoBalanced(fck, fy float64) float64 {
	// ρb = 0.85 β1 (fck/fy) · 600/(600 + fy)
	return 0.85 * Beta1(fck) * (fck / fy) * (600 / (600 + fy))
}

// RhoMax calculates maximum reinforcement ratio (0.75 ρb)
func RhoMax(fck, fy float64) float64 {
	return 0.75 * RhoBalanced(fck, fy)
}

// ModulusOfElasticity returns Ec (MPa) for concrete of strength fck and unit mass mc.
func ModulusOfElasticity(fck, mc float64) float64 {
	if fck <= 30 {
		return 0.043 * math.Pow(mc, 1.5) * math.Sqrt(fck)
	}
	return 0.030*math.Pow(mc, 1.5)*math.Sqrt(fck) + 7700
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
