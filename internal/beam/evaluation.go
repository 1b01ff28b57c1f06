package beam

import (
	"github.com/alexiusacademia/rccheck/internal/kds"
	"github.com/alexiusacademia/rccheck/internal/section"
)

// SectionClass is the strain classification of a flexural section
type SectionClass string

const (
	TensionControlled     SectionClass = "tension-controlled"
	TransitionZone        SectionClass = "transition zone"
	CompressionControlled SectionClass = "compression-controlled"
)

// Evaluation is the complete check of one section. Batch results and
// calculation reports are both views of it.
type Evaluation struct {
	Input    section.Input
	Material kds.Material
	Factors  kds.Factors // base factors from the material

	Flexure Flexure
	Shear   Shear
	Service Service
}

// Flexure holds the flexural derivation (N, mm)
type Flexure struct {
	// Geometry
	B float64 // width
	H float64 // overall depth
	D float64 // effective depth (to centroid of tension steel)

	// Forces
	Mu  float64 // factored moment (N-mm)
	Nu  float64 // factored axial force, compression positive (N)
	MuS float64 // factored moment about the tension steel (N-mm)

	Beta1 float64

	// Provided reinforcement
	BarArea float64 // area of one bar (mm²)
	AsUsed  float64 // provided steel area (mm²)

	// Section at the provided reinforcement
	T        float64 // As·fy (N)
	Cc       float64 // concrete compression 0.85·fck·b·a (N)
	A        float64 // depth of compression block (mm)
	C        float64 // neutral axis depth (mm)
	EpsilonY float64 // yield strain
	EpsilonT float64 // net tensile strain
	Phi      float64 // strength reduction factor
	Class    SectionClass

	// Required reinforcement
	AReq  float64 // compression block depth at Mu (mm)
	AsReq float64 // required steel area (mm²)

	// Utilization (provided / required)
	Ratio          float64
	RatioUndefined bool // AsReq is zero; Ratio is reported as 0

	// Reinforcement ratios
	RhoMin1     float64 // 1.4/fy
	RhoMin2     float64 // 0.25√fck/fy
	RhoMin      float64
	RhoBalanced float64
	RhoMax      float64
	RhoUsed     float64
	RhoReq43    float64 // 4/3 of the required ratio
	MinReinfOK  bool
	MaxReinfOK  bool

	// Capacity
	Mn           float64 // nominal moment about the section centroid (N-mm)
	Mr           float64 // design moment φMn (N-mm)
	SafetyFactor float64 // Mr/Mu, 0 when Mu is zero
	IsAdequate   bool
}

// RhoOK reports whether the reinforcement ratio check passes. A section
// below ρmin passes when it provides at least 4/3 of the required steel.
func (f Flexure) RhoOK() bool {
	if f.MinReinfOK {
		return f.MaxReinfOK
	}
	return f.RhoUsed >= f.RhoReq43
}

// Shear holds the shear derivation (N, mm)
type Shear struct {
	Vu          float64 // factored shear (N)
	D           float64 // effective depth for shear (mm)
	Ag          float64 // gross area (mm²)
	AxialFactor float64 // 1 + Nu/(14Ag) in compression, 1 + Nu/(3.5Ag) in tension
	Phi         float64

	Vc    float64 // concrete contribution (N)
	PhiVc float64

	StirrupsRequired bool // φVc < Vu

	AvUsed     float64 // stirrup area per spacing (mm²)
	AvReq      float64 // required stirrup area per spacing (mm²)
	Spacing    float64 // used spacing (mm)
	SpacingMax float64 // min(600, d/2)
	Vs         float64 // stirrup contribution (N)
	VsMax      float64 // (2/3)√fck·b·d
	PhiVn      float64 // φ(Vc + Vs)

	SpacingOK  bool
	VsOK       bool
	IsAdequate bool
}

// Service holds the serviceability (crack control) derivation
type Service struct {
	Ms float64 // service moment (N-mm)

	Ec  float64 // concrete modulus (MPa)
	N   float64 // modular ratio Es/Ec
	Chi float64 // cracked neutral axis depth (mm)
	Fs  float64 // steel stress under service moment (MPa)

	ClearCover float64 // Cc = Dc - db/2 (mm)
	Kcr        float64

	// Crack control applies only when the steel carries service stress
	CrackCheck   bool
	SpacingLimA  float64 // 375(Kcr/fs) - 2.5Cc
	SpacingLimB  float64 // 300(Kcr/fs)
	SpacingLimit float64 // smaller of the two
	SpacingUsed  float64 // centre spacing of the tension bars (mm)
	IsAdequate   bool
}

// Result is the batch view of an Evaluation: the numeric fields the
// calculation sheet shows per row. Shear detail is only in the report.
type Result struct {
	AsReq          float64 `json:"as_req" yaml:"as_req"`
	AsUsed         float64 `json:"as_used" yaml:"as_used"`
	AsRatio        float64 `json:"as_ratio" yaml:"as_ratio"`
	RatioUndefined bool    `json:"ratio_undefined,omitempty" yaml:"ratio_undefined,omitempty"`
	Mr             float64 `json:"Mr" yaml:"Mr"` // kN-m
	Fs             float64 `json:"fs" yaml:"fs"` // MPa
	PhiF           float64 `json:"phi_f" yaml:"phi_f"`
	PhiV           float64 `json:"phi_v" yaml:"phi_v"`
}

// Result projects the batch result.
func (e *Evaluation) Result() Result {
	return Result{
		AsReq:          e.Flexure.AsReq,
		AsUsed:         e.Flexure.AsUsed,
		AsRatio:        e.Flexure.Ratio,
		RatioUndefined: e.Flexure.RatioUndefined,
		Mr:             e.Flexure.Mr / 1e6,
		Fs:             e.Service.Fs,
		PhiF:           e.Flexure.Phi,
		PhiV:           e.Shear.Phi,
	}
}
