package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/rccheck/internal/beam"
	"github.com/alexiusacademia/rccheck/internal/diagram"
	"github.com/alexiusacademia/rccheck/internal/kds"
)

const width = 75

var (
	heavyRule = strings.Repeat("═", width)
	lightRule = strings.Repeat("─", width)
)

// sheet accumulates report lines
type sheet struct {
	sb strings.Builder
}

func (s *sheet) title(text string) {
	pad := (width - len([]rune(text))) / 2
	if pad < 0 {
		pad = 0
	}
	s.sb.WriteString(heavyRule + "\n")
	s.sb.WriteString(strings.Repeat(" ", pad) + text + "\n")
	s.sb.WriteString(heavyRule + "\n")
}

func (s *sheet) heading(text string) {
	s.sb.WriteString("\n" + text + "\n")
}

func (s *sheet) line(format string, args ...interface{}) {
	s.sb.WriteString("  " + fmt.Sprintf(format, args...) + "\n")
}

func (s *sheet) String() string {
	return strings.TrimRight(s.sb.String(), "\n")
}

func verdict(ok bool) string {
	if ok {
		return "∴ O.K"
	}
	return "∴ N.G"
}

func geq(ok bool) string {
	if ok {
		return "≥"
	}
	return "<"
}

func renderFlexure(e *beam.Evaluation) string {
	in, m, f := e.Input, e.Material, e.Flexure
	var s sheet

	s.title("FLEXURE CHECK - STRENGTH DESIGN (USD)")

	s.heading("1) SECTION AND DESIGN DATA")
	s.line("fck = %.1f MPa, fy = %.1f MPa, φf = %.2f, φv = %.2f, Es = %.0f MPa",
		m.Fck, m.Fy, f.Phi, e.Shear.Phi, kds.Es)
	s.line("%s", strings.Repeat("─", width-2))

	var tbl strings.Builder
	w := tabwriter.NewWriter(&tbl, 0, 0, 2, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintf(w, "B(mm)\tH(mm)\td(mm)\tDc(mm)\tMu(N-mm)\tNu(N)\tVu(N)\tMs(N-mm)\t\n")
	fmt.Fprintf(w, "%.0f\t%.0f\t%.1f\t%.1f\t%.0f\t%.0f\t%.0f\t%.0f\t\n",
		f.B, f.H, f.D, float64(in.Dc), f.Mu, f.Nu, e.Shear.Vu, e.Service.Ms)
	w.Flush()
	for _, row := range strings.Split(strings.TrimRight(tbl.String(), "\n"), "\n") {
		s.line("%s", row)
	}

	s.heading("2) CONCRETE STRESS BLOCK")
	s.line("β1 : depth factor of the equivalent rectangular stress block = %.3f", f.Beta1)

	s.heading("3) STRENGTH REDUCTION FACTOR (φ)")
	s.line("T = As x fy = %.3f x %.3f = %.1f N", f.AsUsed, m.Fy, f.T)
	s.line("C = 0.85 x fck x a x b = 0.85 x %.3f x a x %.3f = %.1f x a", m.Fck, f.B, 0.85*m.Fck*f.B)
	if f.Nu != 0 {
		s.line("C = T + Nu = %.1f + %.1f = %.1f N", f.T, f.Nu, f.Cc)
	} else {
		s.line("C = T")
	}
	s.line("a = %.3f mm, c = a / β1 = %.3f / %.3f = %.3f mm", f.A, f.A, f.Beta1, f.C)
	s.line("εy = fy / Es = %.1f / %.0f = %.5f", m.Fy, kds.Es, f.EpsilonY)
	s.line("εt = 0.00300 x (dt - c) / c = 0.00300 x (%.3f - %.3f) / %.3f = %.5f", f.D, f.C, f.C, f.EpsilonT)
	s.line("εt %s 0.0050 : %s section, φf = %.2f", geq(f.EpsilonT >= kds.EpsilonTension), f.Class, f.Phi)

	s.heading("4) REQUIRED REINFORCEMENT")
	s.line("Mu,s = Mu + Nu x (d - h / 2) = %.1f + %.1f x (%.1f - %.1f / 2) = %.1f N-mm",
		f.Mu, f.Nu, f.D, f.H, f.MuS)
	s.line("Mu,s / φf = 0.85 x fck x b x a x (d - a / 2)        ---------- (1)")
	s.line("As = (0.85 x fck x b x a - Nu) / fy                  ---------- (2)")
	s.line("a,req = d - √(d² - 2 x Mu,s / (φf x 0.85 x fck x b)) = %.3f mm", f.AReq)
	s.line("As,req = (0.85 x %.3f x %.3f x %.3f - %.1f) / %.1f = %.3f mm²",
		m.Fck, f.B, f.AReq, f.Nu, m.Fy, f.AsReq)

	s.heading(fmt.Sprintf("5) PROVIDED REINFORCEMENT : As,use = %.1f mm², d = %.1f mm, [ ratio = %s ]",
		f.AsUsed, f.D, ratioText(f)))
	s.line("D%d - %v EA (= %.1f mm², Dc = %.1f mm)", in.AsDia, float64(in.AsNum), f.AsUsed, float64(in.Dc))

	s.heading("6) REINFORCEMENT RATIO CHECK")
	s.line("ρmin : 1.4 / fy          = %.6f", f.RhoMin1)
	s.line("       0.25 x √fck / fy  = %.6f, ρmin = %.6f governs", f.RhoMin2, f.RhoMin)
	s.line("ρmax = 0.75 x ρb = 0.75 x (0.85 x β1 x fck / fy) x (600 / (600 + fy)) = %.6f", f.RhoMax)
	s.line("ρuse = As / (b x d) = %.6f", f.RhoUsed)
	switch {
	case f.MinReinfOK && f.MaxReinfOK:
		s.line("ρmax ≥ ρuse ≥ ρmin --> minimum and maximum ratio satisfied   %s", verdict(true))
	case f.MinReinfOK:
		s.line("ρuse > ρmax --> maximum ratio not satisfied   %s", verdict(false))
	default:
		s.line("ρuse < ρmin, 4/3 x ρreq = %.6f --> ρuse %s 4/3 x ρreq   %s",
			f.RhoReq43, geq(f.RhoUsed >= f.RhoReq43), verdict(f.RhoOK()))
	}

	s.heading("7) DESIGN FLEXURAL STRENGTH")
	s.line("a = (As x fy + Nu) / (0.85 x fck x b) = %.3f mm", f.A)
	s.line("φMn = φf x [C x (d - a / 2) - Nu x (d - h / 2)]")
	s.line("    = %.2f x [%.1f x (%.1f - %.3f / 2) - %.1f x (%.1f - %.1f / 2)]",
		f.Phi, f.Cc, f.D, f.A, f.Nu, f.D, f.H)
	s.line("    = %.1f N-mm %s Mu = %.1f N-mm  %s  [S.F = %.3f]",
		f.Mr, geq(f.IsAdequate), f.Mu, verdict(f.IsAdequate), f.SafetyFactor)

	return s.String()
}

func renderShear(e *beam.Evaluation) string {
	in, m, v := e.Input, e.Material, e.Shear
	var s sheet

	s.title("SHEAR CHECK")
	s.heading("8) CONCRETE SHEAR STRENGTH")
	if e.Flexure.Nu != 0 {
		s.line("axial factor = 1 + Nu / (%s x Ag) = %.4f", axialDivisor(e.Flexure.Nu), v.AxialFactor)
	}
	s.line("φVc = φv x (axial factor) x √fck x b x d / 6")
	s.line("    = %.2f x %.4f x √%.1f x %.1f x %.1f / 6 = %.1f N", v.Phi, v.AxialFactor, m.Fck, float64(in.B), v.D, v.PhiVc)

	if !v.StirrupsRequired {
		s.line("φVc ≥ Vu = %.1f N  ∴ shear reinforcement not required", v.Vu)
		return s.String()
	}
	s.line("φVc < Vu = %.1f N  ∴ shear reinforcement required", v.Vu)

	s.heading("9) SHEAR REINFORCEMENT")
	s.line("Av,req = (Vu - φVc) x s / (fy x d x φv)")
	s.line("       = (%.3f - %.3f) x %.1f / (%.1f x %.1f x %.2f) = %.3f mm²",
		v.Vu/1e3, v.PhiVc/1e3, v.Spacing, m.Fy, v.D, v.Phi, v.AvReq)
	s.line("Av,use = %.3f mm² (D%d - %v legs, @ %.1f mm)", v.AvUsed, in.AvDia, float64(in.AvLeg), v.Spacing)
	s.line("s = %.1f mm %s s,max = min(600, 0.5d) = %.3f mm  %s",
		v.Spacing, leq(v.SpacingOK), v.SpacingMax, verdict(v.SpacingOK))
	s.line("Vs = Av x fy x d / s = %.3f x %.1f x %.1f / %.1f = %.1f N", v.AvUsed, m.Fy, v.D, v.Spacing, v.Vs)
	s.line("Vs,max = 2 x √fck / 3 x b x d = 2 x √%.1f / 3 x %.1f x %.3f = %.1f N",
		m.Fck, float64(in.B), v.D, v.VsMax)
	s.line("Vs = %.1f N %s Vs,max  %s", v.Vs, leq(v.VsOK), verdict(v.VsOK))
	s.line("φVn = φv x (Vc + Vs) = %.2f x (%.1f + %.1f) = %.3f N %s Vu = %.1f N  %s",
		v.Phi, v.Vc, v.Vs, v.PhiVn, geq(v.PhiVn >= v.Vu), v.Vu, verdict(v.PhiVn >= v.Vu))
	s.line("shear check  %s", verdict(v.IsAdequate))

	return s.String()
}

func renderService(e *beam.Evaluation) string {
	in, f, sv := e.Input, e.Flexure, e.Service
	var s sheet

	s.title("SERVICEABILITY (CRACK CONTROL) CHECK")

	s.heading("10) STEEL STRESS UNDER SERVICE MOMENT")
	s.line("Ec = %.1f MPa, n = Es / Ec = %.3f", sv.Ec, sv.N)
	if f.AsUsed <= 0 {
		s.line("no tension reinforcement provided, fs = 0.000 MPa")
		return s.String()
	}
	s.line("fs = M / [As x (d - χ / 3)] = %.1f / [%.3f x (%.3f - %.2f / 3)]", sv.Ms, f.AsUsed, f.D, sv.Chi)
	s.line("   = %.3f MPa", sv.Fs)
	s.line("χ = -n x As / b + n x As / b x √[1 + 2 x b x d / (n x As)]")
	s.line("  = -%.1f x %.1f / %.1f + %.1f x %.1f / %.1f x √[1 + 2 x %.1f x %.3f / (%.1f x %.1f)]",
		sv.N, f.AsUsed, f.B, sv.N, f.AsUsed, f.B, f.B, f.D, sv.N, f.AsUsed)
	s.line("  = %.3f mm", sv.Chi)
	s.line("As,use = %.3f mm² (D%d - %v EA, Dc = %.1f mm)", f.AsUsed, in.AsDia, float64(in.AsNum), float64(in.Dc))

	s.heading("11) MAXIMUM BAR SPACING")
	s.line("exposure : normal, Kcr = %.0f", sv.Kcr)
	s.line("Cc = %.1f - %d / 2 = %.2f mm (clear cover to the tension bar surface)",
		float64(in.Dc), in.AsDia, sv.ClearCover)
	if !sv.CrackCheck {
		s.line("fs = 0, crack control does not govern  %s", verdict(true))
		return s.String()
	}
	s.line("s1 = 375 x (Kcr / fs) - 2.5 x Cc = 375 x (%.0f / %.3f) - 2.5 x %.3f = %.3f mm",
		sv.Kcr, sv.Fs, sv.ClearCover, sv.SpacingLimA)
	s.line("s2 = 300 x (Kcr / fs) = 300 x (%.0f / %.3f) = %.3f mm", sv.Kcr, sv.Fs, sv.SpacingLimB)
	s.line("sa = min(s1, s2) = %.3f mm", sv.SpacingLimit)
	s.line("sa = %.3f mm %s s,use = %.3f mm  %s",
		sv.SpacingLimit, geq(sv.IsAdequate), sv.SpacingUsed, verdict(sv.IsAdequate))

	return s.String()
}

// renderSummary prints the batch result fields of the evaluation.
func renderSummary(e *beam.Evaluation) string {
	r := e.Result()
	lines := []string{
		fmt.Sprintf("As,req   = %.3f mm²", r.AsReq),
		fmt.Sprintf("As,used  = %.3f mm²", r.AsUsed),
		fmt.Sprintf("As ratio = %s", ratioText(e.Flexure)),
		fmt.Sprintf("Mr       = %.3f kN-m", r.Mr),
		fmt.Sprintf("fs       = %.3f MPa", r.Fs),
		fmt.Sprintf("φf       = %.3f", r.PhiF),
		fmt.Sprintf("φv       = %.3f", r.PhiV),
		fmt.Sprintf("flexure %s, shear %s, service %s",
			verdict(e.Flexure.IsAdequate), verdict(e.Shear.IsAdequate), verdict(e.Service.IsAdequate)),
	}
	return diagram.DrawSummaryBox("SUMMARY - "+e.Input.Label(), lines)
}

func ratioText(f beam.Flexure) string {
	if f.RatioUndefined {
		return "undefined (As,req = 0)"
	}
	return fmt.Sprintf("%.3f", f.Ratio)
}

func leq(ok bool) string {
	if ok {
		return "≤"
	}
	return ">"
}

func axialDivisor(nu float64) string {
	if nu >= 0 {
		return "14"
	}
	return "3.5"
}
