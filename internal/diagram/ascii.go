package diagram

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/alexiusacademia/rccheck/internal/beam"
	"github.com/alexiusacademia/rccheck/internal/kds"
)

// SectionData holds what the section and strain diagrams draw
type SectionData struct {
	// Beam dimensions
	Width  float64 // mm
	Height float64 // mm
	Depth  float64 // effective depth d (mm)

	// Equilibrium at the provided reinforcement
	NeutralAxisDepth float64 // c - from top (mm)
	StressBlockDepth float64 // a - from top (mm)
	AxialForce       float64 // Nu, compression positive (N)

	// Reinforcement
	SteelArea float64 // mm²
	BarCount  int
	BarDia    int // mm

	// Strains
	EpsilonCU float64
	EpsilonT  float64
	EpsilonY  float64

	// Stresses (MPa)
	Fc float64 // 0.85 fck
	Fs float64 // tension steel stress at nominal strength

	TensionYields bool
}

// FromEvaluation builds diagram data from a section check
func FromEvaluation(e *beam.Evaluation) SectionData {
	f := e.Flexure
	fs := math.Min(e.Material.Fy, kds.Es*f.EpsilonT)
	if fs < 0 {
		fs = 0
	}
	return SectionData{
		Width:            f.B,
		Height:           f.H,
		Depth:            f.D,
		NeutralAxisDepth: f.C,
		StressBlockDepth: f.A,
		AxialForce:       f.Nu,
		SteelArea:        f.AsUsed,
		BarCount:         int(e.Input.AsNum),
		BarDia:           e.Input.AsDia,
		EpsilonCU:        kds.EpsilonCU,
		EpsilonT:         f.EpsilonT,
		EpsilonY:         f.EpsilonY,
		Fc:               0.85 * e.Material.Fck,
		Fs:               fs,
		TensionYields:    f.EpsilonT >= f.EpsilonY,
	}
}

// DrawSectionDiagram creates an ASCII representation of the section with its stress block
func DrawSectionDiagram(data SectionData) string {
	var sb strings.Builder

	widthChars := 30
	heightChars := 20

	naLine := rowAt(data.NeutralAxisDepth, data.Height, heightChars)
	aLine := rowAt(data.StressBlockDepth, data.Height, heightChars)
	steelLine := rowAt(data.Depth, data.Height, heightChars)
	if steelLine >= heightChars {
		steelLine = heightChars - 1
	}

	sb.WriteString("\n")
	sb.WriteString("  BEAM SECTION                      STRAIN              STRESS\n")
	sb.WriteString("  ────────────                      ──────              ──────\n")

	for i := 0; i <= heightChars; i++ {
		switch i {
		case 0:
			sb.WriteString(fmt.Sprintf("  ┌%s┐", strings.Repeat("─", widthChars)))
		case heightChars:
			sb.WriteString(fmt.Sprintf("  └%s┘", strings.Repeat("─", widthChars)))
		default:
			fill := []rune(strings.Repeat(" ", widthChars))
			if i <= aLine {
				fill = []rune(strings.Repeat("░", widthChars))
			}
			if i == steelLine {
				placeBars(fill, data.BarCount)
			}
			sb.WriteString(fmt.Sprintf("  │%s│", string(fill)))
		}

		marker := "  "
		if i == naLine && i > 0 && i < heightChars {
			marker = "◄─"
		}
		sb.WriteString(marker)

		// Strain column
		switch {
		case i == 0:
			sb.WriteString(fmt.Sprintf("  ├── εcu = %.4f", data.EpsilonCU))
		case i == naLine:
			sb.WriteString("  ├── ε = 0 (N.A.)")
		case i == steelLine:
			mark := ""
			if data.TensionYields {
				mark = " (yields)"
			}
			sb.WriteString(fmt.Sprintf("  ├── εt = %.4f%s", data.EpsilonT, mark))
		case i < heightChars:
			sb.WriteString("  │")
		}

		// Stress column
		switch {
		case i == 0:
			sb.WriteString(fmt.Sprintf("      ┌── 0.85fck = %.1f MPa", data.Fc))
		case i == aLine && aLine > 0:
			sb.WriteString("      └── (stress block)")
		case i == steelLine:
			sb.WriteString(fmt.Sprintf("      ── fs = %.1f MPa", data.Fs))
		}

		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  ░░░ = Compression zone (stress block)\n")
	sb.WriteString(fmt.Sprintf("  ● = D%d tension bar (%d EA, As = %.1f mm²)\n", data.BarDia, data.BarCount, data.SteelArea))
	sb.WriteString(fmt.Sprintf("  N.A. at c = %.1f mm from top, a = %.1f mm\n", data.NeutralAxisDepth, data.StressBlockDepth))
	if data.AxialForce != 0 {
		sb.WriteString(fmt.Sprintf("  Nu = %.1f kN at mid-depth (compression positive)\n", data.AxialForce/1e3))
	}

	return sb.String()
}

// placeBars spreads up to n bar glyphs across a row
func placeBars(fill []rune, n int) {
	if n <= 0 {
		return
	}
	usable := len(fill) - 4
	shown := n
	if shown > usable/2 {
		shown = usable / 2
	}
	if shown == 1 {
		fill[len(fill)/2] = '●'
		return
	}
	for k := 0; k < shown; k++ {
		fill[2+k*(usable-1)/(shown-1)] = '●'
	}
}

func rowAt(depth, height float64, rows int) int {
	if height <= 0 {
		return 0
	}
	r := int(depth / height * float64(rows))
	if r < 0 {
		return 0
	}
	if r > rows {
		return rows
	}
	return r
}

// DrawStrainDiagram creates an ASCII strain distribution diagram
func DrawStrainDiagram(data SectionData) string {
	var sb strings.Builder

	height := 15
	width := 40

	sb.WriteString("\n")
	sb.WriteString("  STRAIN DISTRIBUTION DIAGRAM\n")
	sb.WriteString("  ───────────────────────────\n\n")

	if data.NeutralAxisDepth <= 0 || data.Height <= 0 {
		sb.WriteString("  (no compression zone)\n")
		return sb.String()
	}

	// Largest strain over the depth sets the scale
	maxStrain := math.Max(data.EpsilonCU, data.EpsilonCU*(data.Height-data.NeutralAxisDepth)/data.NeutralAxisDepth)
	scale := float64(width-10) / maxStrain

	naLine := rowAt(data.NeutralAxisDepth, data.Height, height)
	steelLine := rowAt(data.Depth, data.Height, height)

	for i := 0; i <= height; i++ {
		depth := float64(i) / float64(height) * data.Height
		strain := data.EpsilonCU * math.Abs(data.NeutralAxisDepth-depth) / data.NeutralAxisDepth

		bar := strings.Repeat("█", int(strain*scale))

		switch {
		case i == 0:
			sb.WriteString(fmt.Sprintf("  Top    │%s▶ εcu=%.4f\n", bar, data.EpsilonCU))
		case i == naLine:
			sb.WriteString(fmt.Sprintf("  N.A.   ├%s (ε=0)\n", strings.Repeat("─", 5)))
		case i == steelLine:
			mark := ""
			if data.TensionYields {
				mark = " ✓yields"
			}
			sb.WriteString(fmt.Sprintf("  Steel  │%s▶ εt=%.4f%s\n", bar, data.EpsilonT, mark))
		case i == height:
			sb.WriteString(fmt.Sprintf("  Bottom │%s\n", bar))
		default:
			sb.WriteString(fmt.Sprintf("         │%s\n", bar))
		}
	}

	yieldBar := int(data.EpsilonY * scale)
	sb.WriteString(fmt.Sprintf("\n  εy = %.4f %s (yield strain)\n", data.EpsilonY, strings.Repeat("─", yieldBar)+"┤"))

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
