// Package report renders the calculation report of one section: the
// derivation of every intermediate value, in four views.
package report

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/rccheck/internal/beam"
	"github.com/alexiusacademia/rccheck/internal/kds"
	"github.com/alexiusacademia/rccheck/internal/section"
)

// View names
const (
	ViewTotal   = "total"
	ViewFlexure = "flexure"
	ViewShear   = "shear"
	ViewService = "service"
)

// Views lists the report views in the order they appear in the total view.
var Views = []string{ViewTotal, ViewFlexure, ViewShear, ViewService}

// Bundle holds the four report views of one section.
type Bundle struct {
	Total   string `json:"total" yaml:"total"`
	Flexure string `json:"flexure" yaml:"flexure"`
	Shear   string `json:"shear" yaml:"shear"`
	Service string `json:"service" yaml:"service"`
}

// View returns the named view.
func (b Bundle) View(name string) (string, error) {
	switch name {
	case ViewTotal:
		return b.Total, nil
	case ViewFlexure:
		return b.Flexure, nil
	case ViewShear:
		return b.Shear, nil
	case ViewService:
		return b.Service, nil
	}
	return "", fmt.Errorf("unknown report view %q (want one of %s)", name, strings.Join(Views, ", "))
}

// Generate evaluates one section and renders its report.
func Generate(m kds.Material, in section.Input) (Bundle, error) {
	e, err := beam.Evaluate(m, in)
	if err != nil {
		return Bundle{}, err
	}
	return Render(e), nil
}

// Render formats an evaluation. The output depends only on the evaluation.
func Render(e *beam.Evaluation) Bundle {
	flexure := renderFlexure(e)
	shear := renderShear(e)
	service := renderService(e)

	var total strings.Builder
	total.WriteString(flexure)
	total.WriteString("\n\n")
	total.WriteString(shear)
	total.WriteString("\n\n")
	total.WriteString(service)
	total.WriteString("\n\n")
	total.WriteString(renderSummary(e))

	return Bundle{
		Total:   total.String(),
		Flexure: flexure,
		Shear:   shear,
		Service: service,
	}
}
