// Package api defines the request and response shapes of the section check
// and dispatches a request to batch evaluation or report generation.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexiusacademia/rccheck/internal/batch"
	"github.com/alexiusacademia/rccheck/internal/kds"
	"github.com/alexiusacademia/rccheck/internal/report"
	"github.com/alexiusacademia/rccheck/internal/section"
)

// Request modes
const (
	ModeCalc   = "calc"
	ModeReport = "report"
	ModeExport = "export"
)

var (
	// ErrMultiRowReport is returned when a report request does not carry exactly one row.
	ErrMultiRowReport = errors.New("report mode requires exactly one row")

	// ErrUnsupportedMode is returned for modes this package does not serve.
	// Spreadsheet export belongs to the host application.
	ErrUnsupportedMode = errors.New("unsupported mode")
)

// Request is one call from the calculation sheet.
type Request struct {
	Mode     string          `json:"mode,omitempty" yaml:"mode,omitempty"`
	Material kds.Material    `json:"material" yaml:"material"`
	Rows     []section.Input `json:"rows" yaml:"rows"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handle runs a request. Calc mode returns []batch.Entry; report mode
// returns report.Bundle.
func Handle(ctx context.Context, ev batch.Evaluator, req Request) (interface{}, error) {
	switch req.Mode {
	case "", ModeCalc:
		return Calc(ctx, ev, req)
	case ModeReport:
		return Report(req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, req.Mode)
	}
}

// Calc evaluates every eligible row of a request.
func Calc(ctx context.Context, ev batch.Evaluator, req Request) ([]batch.Entry, error) {
	return ev.Evaluate(ctx, req.Material, req.Rows)
}

// Report renders the calculation report of the single row of a request.
func Report(req Request) (report.Bundle, error) {
	if len(req.Rows) != 1 {
		return report.Bundle{}, fmt.Errorf("%w: got %d rows", ErrMultiRowReport, len(req.Rows))
	}
	return report.Generate(req.Material, req.Rows[0])
}
