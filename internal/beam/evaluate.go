package beam

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexiusacademia/rccheck/internal/kds"
	"github.com/alexiusacademia/rccheck/internal/section"
)

// ErrEngine marks a row that cannot be evaluated: invalid row data or an
// arithmetic singularity for its combination of forces and geometry.
var ErrEngine = errors.New("section check failed")

const (
	// Side cover assumed for the clear spacing of tension bars (mm)
	sideCover = 40.0

	// Crack control exposure factor (normal exposure)
	kcrNormal = 210.0

	// Upper limit of stirrup spacing (mm)
	stirrupSpacingCap = 600.0
)

// Evaluate checks one section for flexure with axial force, shear and
// service stress. Errors wrap kds.ErrInvalidMaterial or ErrEngine.
func Evaluate(m kds.Material, in section.Input) (*Evaluation, error) {
	factors, err := kds.DeriveFactors(m.Fck, m.Fy)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}

	e := &Evaluation{
		Input:    in,
		Material: m,
		Factors:  factors,
	}
	if err := e.flexure(); err != nil {
		return nil, err
	}
	e.shear()
	e.service()

	if err := e.checkFinite(); err != nil {
		return nil, err
	}
	return e, nil
}

// checkFinite rejects a row whose magnitudes overflow the derivation.
// Finite inputs can still produce Inf or NaN, e.g. Ms near the float64 limit.
func (e *Evaluation) checkFinite() error {
	values := []struct {
		name  string
		value float64
	}{
		{"As,req", e.Flexure.AsReq}, {"As,used", e.Flexure.AsUsed},
		{"As ratio", e.Flexure.Ratio}, {"Mr", e.Flexure.Mr},
		{"Av,req", e.Shear.AvReq}, {"φVn", e.Shear.PhiVn},
		{"n", e.Service.N}, {"χ", e.Service.Chi}, {"fs", e.Service.Fs},
		{"crack spacing limit", e.Service.SpacingLimit},
	}
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s is not finite (%v); check the magnitude of the row's forces",
				ErrEngine, v.name, v.value)
		}
	}
	return nil
}

func (e *Evaluation) flexure() error {
	in, fck, fy := e.Input, e.Material.Fck, e.Material.Fy
	f := &e.Flexure

	f.B = float64(in.B)
	f.H = float64(in.H)
	f.D = in.EffectiveDepth()
	f.Beta1 = kds.Beta1(fck)

	// Convert forces to N and N-mm
	f.Mu = math.Abs(float64(in.Mu)) * 1e6
	f.Nu = float64(in.Nu) * 1e3

	// Axial force acts at mid-depth; move it to the tension steel
	eccentricity := f.D - f.H/2
	f.MuS = f.Mu + f.Nu*eccentricity

	f.BarArea = kds.BarArea(in.AsDia)
	f.AsUsed = float64(in.AsNum) * f.BarArea

	// Equilibrium at the provided steel: 0.85·fck·b·a = As·fy + Nu
	f.T = f.AsUsed * fy
	f.Cc = f.T + f.Nu
	f.A = f.Cc / (0.85 * fck * f.B)
	if f.A < 0 {
		return fmt.Errorf("%w: axial tension Nu=%.1f kN exceeds provided steel capacity As·fy=%.1f kN",
			ErrEngine, f.Nu/1e3, f.T/1e3)
	}
	if f.A >= f.H {
		return fmt.Errorf("%w: compression block a=%.1f mm exceeds section depth h=%.1f mm",
			ErrEngine, f.A, f.H)
	}
	f.C = f.A / f.Beta1

	// Calculate tensile strain
	f.EpsilonY = fy / kds.Es
	if f.C > 0 {
		f.EpsilonT = kds.EpsilonCU * (f.D - f.C) / f.C
	}

	// Determine phi based on strain
	f.Phi = kds.PhiFor(f.EpsilonT, fy)
	switch {
	case f.EpsilonT >= kds.EpsilonTension:
		f.Class = TensionControlled
	case f.EpsilonT <= f.EpsilonY:
		f.Class = CompressionControlled
	default:
		f.Class = TransitionZone
	}

	// Required steel: Mu,s/φ = 0.85·fck·b·a·(d - a/2), then As = (0.85·fck·b·a - Nu)/fy
	k := 2 * f.MuS / (f.Phi * 0.85 * fck * f.B)
	disc := f.D*f.D - k
	if disc < 0 {
		return fmt.Errorf("%w: section cannot develop Mu=%.1f kN-m (d² - 2Mu/(φ·0.85·fck·b) = %.1f < 0)",
			ErrEngine, f.Mu/1e6, disc)
	}
	f.AReq = f.D - math.Sqrt(disc)
	f.AsReq = math.Max(0, (0.85*fck*f.B*f.AReq-f.Nu)/fy)

	if f.AsReq > 0 {
		f.Ratio = f.AsUsed / f.AsReq
	} else {
		f.RatioUndefined = true
	}

	// Reinforcement ratio limits
	f.RhoMin1, f.RhoMin2 = kds.RhoMinTerms(fck, fy)
	f.RhoMin = kds.RhoMin(fck, fy)
	f.RhoBalanced = kds.RhoBalanced(fck, fy)
	f.RhoMax = kds.RhoMax(fck, fy)
	f.RhoUsed = f.AsUsed / (f.B * f.D)
	f.RhoReq43 = 4.0 / 3.0 * f.AsReq / (f.B * f.D)
	f.MinReinfOK = f.RhoUsed >= f.RhoMin
	f.MaxReinfOK = f.RhoUsed <= f.RhoMax

	// Moment capacity about the tension steel, then back to the centroid
	// Mn = Cc·(d - a/2) - Nu·(d - h/2)
	f.Mn = f.Cc*(f.D-f.A/2) - f.Nu*eccentricity
	f.Mr = f.Phi * f.Mn

	if f.Mu > 0 {
		f.SafetyFactor = f.Mr / f.Mu
	}
	f.IsAdequate = f.Mr >= f.Mu

	return nil
}

func (e *Evaluation) shear() {
	in, fck, fy := e.Input, e.Material.Fck, e.Material.Fy
	s := &e.Shear
	b := float64(in.B)

	s.Phi = e.Factors.PhiV
	s.Vu = math.Abs(float64(in.Vu)) * 1e3
	s.D = e.Flexure.D
	s.Ag = b * float64(in.H)

	// Axial force modifies the concrete contribution
	nu := e.Flexure.Nu
	if nu >= 0 {
		s.AxialFactor = 1 + nu/(14*s.Ag)
	} else {
		s.AxialFactor = math.Max(0, 1+nu/(3.5*s.Ag))
	}

	s.Vc = s.AxialFactor * math.Sqrt(fck) / 6 * b * s.D
	s.PhiVc = s.Phi * s.Vc
	s.StirrupsRequired = s.PhiVc < s.Vu

	s.Spacing = float64(in.AvSpace)
	s.AvUsed = kds.BarArea(in.AvDia) * float64(in.AvLeg)
	s.AvReq = math.Max(0, (s.Vu-s.PhiVc)*s.Spacing/(fy*s.D*s.Phi))
	s.SpacingMax = math.Min(stirrupSpacingCap, 0.5*s.D)

	s.Vs = s.AvUsed * fy * s.D / s.Spacing
	s.VsMax = 2.0 / 3.0 * math.Sqrt(fck) * b * s.D
	s.PhiVn = s.Phi * (s.Vc + s.Vs)

	s.SpacingOK = s.Spacing <= s.SpacingMax
	s.VsOK = s.Vs <= s.VsMax
	s.IsAdequate = !s.StirrupsRequired || (s.PhiVn >= s.Vu && s.SpacingOK && s.VsOK)
}

func (e *Evaluation) service() {
	in := e.Input
	s := &e.Service
	f := e.Flexure

	s.Ms = math.Abs(float64(in.Ms)) * 1e6
	s.Ec = kds.ModulusOfElasticity(e.Material.Fck, e.Material.UnitMass())
	s.N = kds.Es / s.Ec
	s.Kcr = kcrNormal
	s.ClearCover = float64(in.Dc) - float64(in.AsDia)/2

	if in.AsNum > 1 {
		s.SpacingUsed = (f.B - 2*sideCover - float64(in.AsDia)) / (float64(in.AsNum) - 1)
	}

	if f.AsUsed <= 0 {
		s.IsAdequate = true
		return
	}

	// Cracked transformed section
	// χ = -n·As/b + n·As/b·√(1 + 2·b·d/(n·As))
	term := s.N * f.AsUsed / f.B
	s.Chi = -term + term*math.Sqrt(1+2*f.B*f.D/(s.N*f.AsUsed))
	s.Fs = s.Ms / (f.AsUsed * (f.D - s.Chi/3))

	if s.Fs <= 0 {
		s.IsAdequate = true
		return
	}

	s.CrackCheck = true
	s.SpacingLimA = 375*(s.Kcr/s.Fs) - 2.5*s.ClearCover
	s.SpacingLimB = 300 * (s.Kcr / s.Fs)
	s.SpacingLimit = math.Min(s.SpacingLimA, s.SpacingLimB)
	s.IsAdequate = s.SpacingLimit >= s.SpacingUsed
}
