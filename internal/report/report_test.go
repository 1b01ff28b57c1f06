package report

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alexiusacademia/rccheck/internal/beam"
	"github.com/alexiusacademia/rccheck/internal/kds"
	"github.com/alexiusacademia/rccheck/internal/section"
)

var material = kds.Material{Fck: 35, Fy: 400}

func scenario() section.Input {
	return section.Input{
		ID: 1, Name: "B1",
		Mu: 1000, Vu: 50, Nu: 5, Ms: 80,
		H: 800, B: 1000, Dc: 80,
		AsDia: 25, AsNum: 8,
		AvDia: 16, AvLeg: 2, AvSpace: 400,
	}
}

func TestGenerateViews(t *testing.T) {
	b, err := Generate(material, scenario())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		view string
		want string
	}{
		{ViewFlexure, "FLEXURE CHECK"},
		{ViewShear, "SHEAR CHECK"},
		{ViewService, "SERVICEABILITY"},
	}
	for _, tt := range tests {
		text, err := b.View(tt.view)
		if err != nil {
			t.Fatalf("View(%q) error = %v", tt.view, err)
		}
		if !strings.Contains(text, tt.want) {
			t.Errorf("view %q does not contain %q", tt.view, tt.want)
		}
		if !strings.Contains(b.Total, text) {
			t.Errorf("total view does not contain the %q view", tt.view)
		}
	}

	if strings.Contains(b.Flexure, "SHEAR CHECK") || strings.Contains(b.Shear, "FLEXURE CHECK") {
		t.Error("single views leak other sections")
	}
	if _, err := b.View("export"); err == nil {
		t.Error("View(\"export\"): want error")
	}
}

func TestSummaryMatchesResult(t *testing.T) {
	e, err := beam.Evaluate(material, scenario())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	r := e.Result()
	b := Render(e)

	for _, want := range []string{
		fmt.Sprintf("As,req   = %.3f mm²", r.AsReq),
		fmt.Sprintf("As,used  = %.3f mm²", r.AsUsed),
		fmt.Sprintf("As ratio = %.3f", r.AsRatio),
		fmt.Sprintf("Mr       = %.3f kN-m", r.Mr),
		fmt.Sprintf("fs       = %.3f MPa", r.Fs),
		fmt.Sprintf("φf       = %.3f", r.PhiF),
		fmt.Sprintf("φv       = %.3f", r.PhiV),
	} {
		if !strings.Contains(b.Total, want) {
			t.Errorf("total view has no %q", want)
		}
	}
	if !strings.Contains(b.Total, "SUMMARY - B1") {
		t.Error("total view has no summary box")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	first, err := Generate(material, scenario())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	again, err := Generate(material, scenario())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if first != again {
		t.Error("two reports of the same row differ")
	}
}

func TestVerdicts(t *testing.T) {
	b, err := Generate(material, scenario())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// Mr ≈ 927.6 kN-m < Mu = 1000 kN-m
	if !strings.Contains(b.Flexure, "< Mu") || !strings.Contains(b.Flexure, "∴ N.G") {
		t.Errorf("flexure view does not report N.G:\n%s", b.Flexure)
	}
	if !strings.Contains(b.Shear, "shear reinforcement not required") {
		t.Errorf("shear view:\n%s", b.Shear)
	}

	in := scenario()
	in.Mu = 0
	b, err = Generate(material, in)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(b.Total, "As ratio = undefined (As,req = 0)") {
		t.Error("summary does not mark the undefined ratio")
	}
}

func TestShearReinforcementSection(t *testing.T) {
	in := scenario()
	in.Vu = 900
	b, err := Generate(material, in)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, want := range []string{"shear reinforcement required", "Av,req", "Vs,max", "φVn"} {
		if !strings.Contains(b.Shear, want) {
			t.Errorf("shear view has no %q", want)
		}
	}
}

func TestGenerateEngineError(t *testing.T) {
	in := scenario()
	in.Mu = 50000
	_, err := Generate(material, in)
	if !errors.Is(err, beam.ErrEngine) {
		t.Errorf("Generate() error = %v, want ErrEngine", err)
	}
}
