package batch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/rccheck/internal/beam"
	"github.com/alexiusacademia/rccheck/internal/kds"
	"github.com/alexiusacademia/rccheck/internal/section"
)

var material = kds.Material{Fck: 24, Fy: 400}

func row(id int, h section.Number) section.Input {
	return section.Input{
		ID: id, Name: "B" + string(rune('0'+id)),
		Mu: section.Number(50 + 20*id), Vu: 60, Ms: 40,
		H: h, B: 400, Dc: 60,
		AsDia: 22, AsNum: 4,
		AvDia: 10, AvLeg: 2, AvSpace: 200,
	}
}

// sheet has eligible rows at positions 0, 2 and 4
func sheet() []section.Input {
	return []section.Input{row(1, 600), row(2, 0), row(3, 600), row(4, 0), row(5, 600)}
}

func TestEvaluateKeepsEligibleOrder(t *testing.T) {
	rows := sheet()
	entries, err := Evaluator{Workers: 3}.Evaluate(context.Background(), material, rows)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, wantID := range []int{1, 3, 5} {
		e := entries[i]
		if e.ID != wantID || e.Error {
			t.Errorf("entry %d = id %d (error %v), want id %d", i, e.ID, e.Error, wantID)
			continue
		}
		single, err := beam.Evaluate(material, rows[2*i])
		if err != nil {
			t.Fatalf("beam.Evaluate() error = %v", err)
		}
		if *e.Result != single.Result() {
			t.Errorf("entry %d = %+v, want %+v", i, *e.Result, single.Result())
		}
	}
}

func TestEvaluateSameForAnyWorkerCount(t *testing.T) {
	var rows []section.Input
	for i := 1; i <= 9; i++ {
		rows = append(rows, row(i, 600))
	}
	want, err := Evaluator{Workers: 1}.Evaluate(context.Background(), material, rows)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	for _, workers := range []int{0, 2, 8, 32} {
		got, err := Evaluator{Workers: workers}.Evaluate(context.Background(), material, rows)
		if err != nil {
			t.Fatalf("workers %d: Evaluate() error = %v", workers, err)
		}
		for i := range want {
			if got[i].ID != want[i].ID || *got[i].Result != *want[i].Result {
				t.Errorf("workers %d, entry %d differs", workers, i)
			}
		}
	}
}

func TestEvaluateInvalidMaterial(t *testing.T) {
	entries, err := Evaluator{}.Evaluate(context.Background(), kds.Material{Fck: -5, Fy: 400}, sheet())
	if !errors.Is(err, kds.ErrInvalidMaterial) {
		t.Fatalf("Evaluate() error = %v, want ErrInvalidMaterial", err)
	}
	if entries != nil {
		t.Errorf("got %d entries for an invalid material, want none", len(entries))
	}
}

func TestEvaluateRowErrorIsIsolated(t *testing.T) {
	rows := sheet()
	rows[2].Mu = 5000

	entries, err := Evaluator{}.Evaluate(context.Background(), material, rows)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Error || entries[2].Error {
		t.Error("sibling rows failed")
	}
	bad := entries[1]
	if !bad.Error || bad.Result != nil || bad.ID != 3 {
		t.Errorf("entry 1 = %+v, want an error entry for id 3", bad)
	}
	if !strings.Contains(bad.Reason, beam.ErrEngine.Error()) {
		t.Errorf("reason = %q", bad.Reason)
	}
}

func TestEvaluateOverflowingRowIsIsolated(t *testing.T) {
	rows := []section.Input{row(1, 600), row(2, 600)}
	rows[1].Ms = 1e305

	entries, err := Evaluator{}.Evaluate(context.Background(), material, rows)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Error || entries[0].Result == nil {
		t.Errorf("entry 0 = %+v, want a result", entries[0])
	}
	if !entries[1].Error || entries[1].Result != nil {
		t.Errorf("entry 1 = %+v, want an error entry", entries[1])
	}

	// The whole batch must still encode
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"reason"`) {
		t.Errorf("encoded batch = %s", data)
	}
}

func TestEvaluateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluator{}.Evaluate(ctx, material, sheet())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Evaluate() error = %v, want context.Canceled", err)
	}
}

func TestMerge(t *testing.T) {
	rows := sheet()
	entries, err := Evaluator{}.Evaluate(context.Background(), material, rows)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	pairs, err := Merge(rows, entries)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	for i, p := range pairs {
		eligible := i%2 == 0
		if (p.Entry != nil) != eligible {
			t.Errorf("position %d: entry present = %v, want %v", i, p.Entry != nil, eligible)
		}
		if p.Entry != nil && p.Entry.ID != p.Row.ID {
			t.Errorf("position %d: entry id %d paired with row id %d", i, p.Entry.ID, p.Row.ID)
		}
	}

	if _, err := Merge(rows, entries[:2]); err == nil {
		t.Error("Merge() with missing entries: want error")
	}
	if _, err := Merge(rows[:3], entries); err == nil {
		t.Error("Merge() with extra entries: want error")
	}
}

func TestDisplayFactors(t *testing.T) {
	entries := []Entry{
		{ID: 1, Error: true, Reason: "x"},
		{ID: 2, Result: &beam.Result{PhiF: 0.8, PhiV: 0.85}},
		{ID: 3, Result: &beam.Result{PhiF: 0.85, PhiV: 0.85}},
	}
	f, ok := DisplayFactors(entries)
	if !ok || f.PhiF != 0.8 || f.PhiV != 0.85 {
		t.Errorf("DisplayFactors() = %+v, %v; want first evaluated entry", f, ok)
	}
	if _, ok := DisplayFactors(entries[:1]); ok {
		t.Error("DisplayFactors() with only errors: want false")
	}
}

func TestEntryEncoding(t *testing.T) {
	ok := Entry{ID: 1, Name: "B1", Result: &beam.Result{AsReq: 100, AsUsed: 200, AsRatio: 2, PhiF: 0.85, PhiV: 0.85}}
	failed := Entry{ID: 2, Name: "B2", Error: true, Reason: "section check failed: bad"}

	data, err := json.Marshal([]Entry{ok, failed})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	for _, key := range []string{"id", "name", "as_req", "as_used", "as_ratio", "Mr", "fs", "phi_f", "phi_v"} {
		if _, found := decoded[0][key]; !found {
			t.Errorf("result entry has no %q: %s", key, data)
		}
	}
	if _, found := decoded[0]["error"]; found {
		t.Errorf("result entry carries an error field: %s", data)
	}
	if decoded[1]["error"] != true || decoded[1]["as_req"] != nil {
		t.Errorf("error entry = %v", decoded[1])
	}

	out, err := yaml.Marshal([]Entry{ok, failed})
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), "as_ratio: 2") || !strings.Contains(string(out), "error: true") {
		t.Errorf("yaml output:\n%s", out)
	}
}
