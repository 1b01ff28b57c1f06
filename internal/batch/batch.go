// Package batch evaluates the rows of a calculation sheet against one material.
//
// Only eligible rows (H > 0 and B > 0) produce an output entry, and entries
// keep the order of the eligible rows. A caller holding the original row list
// re-associates entries with rows by applying Eligible to the rows in order
// and pairing the i-th eligible row with the i-th entry; Merge does exactly
// that.
package batch

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/rccheck/internal/beam"
	"github.com/alexiusacademia/rccheck/internal/kds"
	"github.com/alexiusacademia/rccheck/internal/section"
)

// Entry is one output of a batch: a result, or an error marker for a row
// the engine could not evaluate.
type Entry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	*beam.Result

	Error  bool   `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// MarshalYAML flattens the result fields the same way encoding/json does.
func (e Entry) MarshalYAML() (interface{}, error) {
	if e.Error || e.Result == nil {
		return struct {
			ID     int    `yaml:"id"`
			Name   string `yaml:"name"`
			Error  bool   `yaml:"error"`
			Reason string `yaml:"reason"`
		}{e.ID, e.Name, true, e.Reason}, nil
	}
	return struct {
		ID          int    `yaml:"id"`
		Name        string `yaml:"name"`
		beam.Result `yaml:",inline"`
	}{e.ID, e.Name, *e.Result}, nil
}

// Eligible reports whether a row takes part in evaluation.
func Eligible(row section.Input) bool {
	return row.Eligible()
}

// Evaluator runs the section check over a list of rows.
type Evaluator struct {
	// Workers bounds the number of rows evaluated at once;
	// zero means GOMAXPROCS.
	Workers int
}

// Evaluate checks every eligible row. An invalid material fails the whole
// batch with no entries; a row that cannot be evaluated becomes an error
// entry and does not affect its siblings.
func (ev Evaluator) Evaluate(ctx context.Context, m kds.Material, rows []section.Input) ([]Entry, error) {
	if _, err := kds.DeriveFactors(m.Fck, m.Fy); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	eligible := make([]section.Input, 0, len(rows))
	for _, row := range rows {
		if Eligible(row) {
			eligible = append(eligible, row)
		}
	}

	entries := make([]Entry, len(eligible))
	var g errgroup.Group
	g.SetLimit(ev.workers())

	for i, row := range eligible {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			entries[i] = evaluateRow(m, row)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (ev Evaluator) workers() int {
	if ev.Workers > 0 {
		return ev.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func evaluateRow(m kds.Material, row section.Input) Entry {
	entry := Entry{ID: row.ID, Name: row.Name}

	eval, err := beam.Evaluate(m, row)
	if err != nil {
		entry.Error = true
		entry.Reason = err.Error()
		return entry
	}

	res := eval.Result()
	entry.Result = &res
	return entry
}

// Pair is a row of the original list with its entry, if it was evaluated.
type Pair struct {
	Row   section.Input
	Entry *Entry // nil for rows that are not eligible
}

// Merge re-associates batch entries with the full row list they came from.
// It returns an error when the number of eligible rows and entries differ.
func Merge(rows []section.Input, entries []Entry) ([]Pair, error) {
	pairs := make([]Pair, len(rows))
	next := 0
	for i, row := range rows {
		pairs[i].Row = row
		if !Eligible(row) {
			continue
		}
		if next >= len(entries) {
			return nil, errors.New("fewer entries than eligible rows")
		}
		pairs[i].Entry = &entries[next]
		next++
	}
	if next != len(entries) {
		return nil, errors.New("more entries than eligible rows")
	}
	return pairs, nil
}

// DisplayFactors returns the strength-reduction factors of the first entry
// that evaluated, which the sheet shows for the whole batch.
func DisplayFactors(entries []Entry) (kds.Factors, bool) {
	for _, e := range entries {
		if !e.Error && e.Result != nil {
			return kds.Factors{PhiF: e.PhiF, PhiV: e.PhiV}, true
		}
	}
	return kds.Factors{}, false
}
