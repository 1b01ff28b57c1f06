package section

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/rccheck/internal/kds"
)

// Input is one row of the calculation sheet: a rectangular beam section with
// its reinforcement and design forces.
//
// Units: forces in kN and kN-m, lengths in mm. Nu is positive in compression.
type Input struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Forces
	Mu Number `json:"Mu" yaml:"Mu"` // Factored moment (kN-m)
	Vu Number `json:"Vu" yaml:"Vu"` // Factored shear (kN)
	Nu Number `json:"Nu" yaml:"Nu"` // Factored axial force (kN)
	Ms Number `json:"Ms" yaml:"Ms"` // Service moment (kN-m)

	// Geometry (mm)
	H  Number `json:"H" yaml:"H"`   // Overall depth
	B  Number `json:"B" yaml:"B"`   // Width
	Dc Number `json:"Dc" yaml:"Dc"` // Cover to centroid of tension steel

	// Flexural reinforcement
	AsDia int    `json:"as_dia" yaml:"as_dia"` // Bar diameter (mm)
	AsNum Number `json:"as_num" yaml:"as_num"` // Number of bars

	// Shear reinforcement
	AvDia   int    `json:"av_dia" yaml:"av_dia"`     // Stirrup diameter (mm)
	AvLeg   Number `json:"av_leg" yaml:"av_leg"`     // Number of legs
	AvSpace Number `json:"av_space" yaml:"av_space"` // Stirrup spacing (mm)
}

// Eligible reports whether the row has a section to evaluate (H > 0 and B > 0).
// Rows that are not eligible are skipped by batch evaluation.
func (in Input) Eligible() bool {
	return in.H > 0 && in.B > 0
}

// EffectiveDepth returns d = H - Dc.
func (in Input) EffectiveDepth() float64 {
	return float64(in.H) - float64(in.Dc)
}

// Label names the row in messages and sheet titles.
func (in Input) Label() string {
	if in.Name != "" {
		return in.Name
	}
	return fmt.Sprintf("Beam_%d", in.ID)
}

// Validate checks an eligible row before evaluation.
func (in Input) Validate() error {
	fields := []struct {
		name  string
		value Number
	}{
		{"Mu", in.Mu}, {"Vu", in.Vu}, {"Nu", in.Nu}, {"Ms", in.Ms},
		{"H", in.H}, {"B", in.B}, {"Dc", in.Dc},
		{"as_num", in.AsNum}, {"av_leg", in.AvLeg}, {"av_space", in.AvSpace},
	}
	for _, f := range fields {
		if math.IsNaN(float64(f.value)) || math.IsInf(float64(f.value), 0) {
			return &ValidationError{msg: fmt.Sprintf("%s must be a finite number", f.name)}
		}
	}

	if in.H <= 0 || in.B <= 0 {
		return &ValidationError{msg: fmt.Sprintf("invalid beam dimensions: B=%.2f, H=%.2f", in.B, in.H)}
	}
	if in.Dc < 0 {
		return &ValidationError{msg: fmt.Sprintf("cover must not be negative: Dc=%.2f", in.Dc)}
	}
	if in.EffectiveDepth() <= 0 {
		return &ValidationError{msg: fmt.Sprintf("effective depth must be positive: d=%.2f", in.EffectiveDepth())}
	}
	if !kds.IsBarSize(in.AsDia) {
		return &ValidationError{msg: fmt.Sprintf("unsupported bar diameter: as_dia=%d", in.AsDia)}
	}
	if !kds.IsBarSize(in.AvDia) {
		return &ValidationError{msg: fmt.Sprintf("unsupported stirrup diameter: av_dia=%d", in.AvDia)}
	}
	if !in.AsNum.IsCount() {
		return &ValidationError{msg: fmt.Sprintf("bar count must be a non-negative integer: as_num=%v", in.AsNum)}
	}
	if !in.AvLeg.IsCount() {
		return &ValidationError{msg: fmt.Sprintf("stirrup legs must be a non-negative integer: av_leg=%v", in.AvLeg)}
	}
	if in.AvSpace <= 0 {
		return &ValidationError{msg: fmt.Sprintf("stirrup spacing must be positive: av_space=%.2f", in.AvSpace)}
	}
	return nil
}

// ValidationError represents a row validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Number is a float64 that also accepts the values a spreadsheet-like form
// sends while a cell is being edited: numeric strings, "" and "-" (read as 0).
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("number expected, got %s", data)
	}
	v, err := ParseNumber(s)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: number expected", value.Line)
	}
	v, err := ParseNumber(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*n = v
	return nil
}

// ParseNumber parses a cell value. Blank cells and a lone minus sign are zero.
func ParseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("number expected, got %q", s)
	}
	return Number(f), nil
}

// ParseBarDiameter parses a bar diameter cell. The designation prefix of a
// deformed bar ("D25", "H13") is accepted.
func ParseBarDiameter(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) > 1 && strings.ContainsRune("DdHh", rune(s[0])) {
		s = s[1:]
	}
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if !v.IsCount() || float64(v) > math.MaxInt32 {
		return 0, fmt.Errorf("bar diameter expected, got %v", float64(v))
	}
	return int(v), nil
}

// IsCount reports whether n is a non-negative whole number.
func (n Number) IsCount() bool {
	f := float64(n)
	return f >= 0 && f == math.Trunc(f) && !math.IsInf(f, 0)
}
