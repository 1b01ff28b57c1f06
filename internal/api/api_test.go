package api

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/rccheck/internal/batch"
	"github.com/alexiusacademia/rccheck/internal/kds"
	"github.com/alexiusacademia/rccheck/internal/report"
	"github.com/alexiusacademia/rccheck/internal/section"
)

const calcJSON = `{
  "material": {"fck": 35, "fy": 400},
  "rows": [
    {"id": 1, "name": "B1", "Mu": 1000, "Vu": 50, "Nu": 5, "Ms": 80, "H": 800, "B": 1000, "Dc": 80,
     "as_dia": 25, "as_num": 8, "av_dia": 16, "av_leg": 2, "av_space": 400},
    {"id": 2, "name": "", "Mu": "", "Vu": "", "Nu": "", "Ms": "", "H": 0, "B": 0, "Dc": "",
     "as_dia": 25, "as_num": 0, "av_dia": 10, "av_leg": 0, "av_space": 0}
  ]
}`

func TestHandleCalc(t *testing.T) {
	req, err := DecodeJSON(strings.NewReader(calcJSON))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	out, err := Handle(context.Background(), batch.Evaluator{}, req)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	entries, ok := out.([]batch.Entry)
	if !ok {
		t.Fatalf("Handle() returned %T, want []batch.Entry", out)
	}
	if len(entries) != 1 || entries[0].ID != 1 {
		t.Fatalf("entries = %+v, want only row 1", entries)
	}
	if entries[0].PhiF != 0.85 || entries[0].PhiV != 0.85 {
		t.Errorf("phi_f, phi_v = %v, %v", entries[0].PhiF, entries[0].PhiV)
	}
}

func TestHandleReport(t *testing.T) {
	req, err := DecodeJSON(strings.NewReader(calcJSON))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	req.Mode = ModeReport

	if _, err := Handle(context.Background(), batch.Evaluator{}, req); !errors.Is(err, ErrMultiRowReport) {
		t.Errorf("two-row report: error = %v, want ErrMultiRowReport", err)
	}

	req.Rows = req.Rows[:1]
	out, err := Handle(context.Background(), batch.Evaluator{}, req)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	b, ok := out.(report.Bundle)
	if !ok {
		t.Fatalf("Handle() returned %T, want report.Bundle", out)
	}
	if b.Total == "" || b.Flexure == "" || b.Shear == "" || b.Service == "" {
		t.Error("report has empty views")
	}

	req.Rows = nil
	if _, err := Report(req); !errors.Is(err, ErrMultiRowReport) {
		t.Errorf("empty report: error = %v, want ErrMultiRowReport", err)
	}
}

func TestHandleModes(t *testing.T) {
	req := Request{Material: kds.Material{Fck: 24, Fy: 400}}
	for _, mode := range []string{ModeExport, "pdf"} {
		req.Mode = mode
		if _, err := Handle(context.Background(), batch.Evaluator{}, req); !errors.Is(err, ErrUnsupportedMode) {
			t.Errorf("mode %q: error = %v, want ErrUnsupportedMode", mode, err)
		}
	}

	req.Mode = ModeCalc
	req.Material.Fck = -5
	if _, err := Handle(context.Background(), batch.Evaluator{}, req); !errors.Is(err, kds.ErrInvalidMaterial) {
		t.Errorf("invalid material: error = %v, want ErrInvalidMaterial", err)
	}
}

func TestDecodeYAML(t *testing.T) {
	data := `
mode: calc
material:
  fck: 24
  fy: 400
rows:
  - id: 1
    name: G1
    Mu: 150
    Vu: 80
    Nu: "-"
    Ms: 100
    H: 600
    B: 400
    Dc: 60
    as_dia: 22
    as_num: 4
    av_dia: 10
    av_leg: 2
    av_space: 200
`
	req, err := DecodeYAML(strings.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if req.Mode != ModeCalc || req.Material.Fck != 24 || len(req.Rows) != 1 {
		t.Fatalf("decoded %+v", req)
	}
	if r := req.Rows[0]; r.Name != "G1" || r.Nu != 0 || r.AsDia != 22 || r.AvSpace != 200 {
		t.Errorf("row = %+v", r)
	}
}

func TestDecodeJSONInvalid(t *testing.T) {
	if _, err := DecodeJSON(strings.NewReader(`{"material": `)); err == nil {
		t.Error("DecodeJSON() of truncated input: want error")
	}
	if _, err := DecodeJSON(strings.NewReader(`{"rows": [{"Mu": "abc"}]}`)); err == nil {
		t.Error("DecodeJSON() with a non-numeric cell: want error")
	}
}

// workbook builds an xlsx with the given header and rows on its first sheet
func workbook(t *testing.T, header []string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := r
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	return buf.Bytes()
}

func TestReadRowsXLSX(t *testing.T) {
	// Columns out of order, with an extra column that is ignored
	header := []string{"name", "H", "B", "Dc", "Mu", "Vu", "Nu", "Ms", "as_dia", "as_num", "av_dia", "av_leg", "av_space", "note", "id"}
	data := workbook(t, header, [][]interface{}{
		{"B1", 600, 400, 60, 150, 80, "-", 100, 22, 4, 10, 2, 200, "first", 11},
		{},
		{"B2", 0, 0, "", "", "", "", "", 25, 0, 10, 0, 0, "", ""},
	})

	rows, err := ReadRowsXLSX(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadRowsXLSX() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank row skipped)", len(rows))
	}
	want := section.Input{
		ID: 11, Name: "B1",
		Mu: 150, Vu: 80, Nu: 0, Ms: 100,
		H: 600, B: 400, Dc: 60,
		AsDia: 22, AsNum: 4,
		AvDia: 10, AvLeg: 2, AvSpace: 200,
	}
	if rows[0] != want {
		t.Errorf("row 0 = %+v, want %+v", rows[0], want)
	}
	if rows[1].ID != 2 || rows[1].Eligible() {
		t.Errorf("row 1 = %+v, want id 2 and not eligible", rows[1])
	}
}

func TestReadRowsXLSXBarDesignations(t *testing.T) {
	header := []string{"id", "H", "B", "Dc", "as_dia", "as_num", "av_dia", "av_leg", "av_space"}
	data := workbook(t, header, [][]interface{}{
		{1, 600, 400, 60, "D22", 4, "H10", 2, 200},
		{2, 600, 400, 60, 25, 3, "D13", 2, 150},
	})

	rows, err := ReadRowsXLSX(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadRowsXLSX() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].AsDia != 22 || rows[0].AvDia != 10 {
		t.Errorf("row 1 bars = D%d / D%d, want D22 / D10", rows[0].AsDia, rows[0].AvDia)
	}
	if rows[1].AsDia != 25 || rows[1].AvDia != 13 {
		t.Errorf("row 2 bars = D%d / D%d, want D25 / D13", rows[1].AsDia, rows[1].AvDia)
	}
}

func TestReadRowsXLSXErrors(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		rows    [][]interface{}
		wantErr string
	}{
		{"missing column", []string{"id", "B"}, nil, `missing column "H"`},
		{"bad number", []string{"H", "B", "Mu"}, [][]interface{}{{600, 400, "abc"}}, "row 2, column Mu"},
		{"bad diameter", []string{"H", "B", "as_dia"}, [][]interface{}{{600, 400, 22.5}}, "row 2, column as_dia"},
		{"bad designation", []string{"H", "B", "av_dia"}, [][]interface{}{{600, 400, "X10"}}, "row 2, column av_dia"},
		{"bad id", []string{"id", "H", "B"}, [][]interface{}{{"x", 600, 400}}, "row 2, column id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRowsXLSX(bytes.NewReader(workbook(t, tt.header, tt.rows)))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadRowsXLSX() error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	if _, err := ReadRowsXLSX(strings.NewReader("not a workbook")); err == nil {
		t.Error("ReadRowsXLSX() of garbage: want error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "rows.json")
	if err := os.WriteFile(jsonPath, []byte(calcJSON), 0644); err != nil {
		t.Fatal(err)
	}
	req, err := LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("LoadFile(json) error = %v", err)
	}
	if req.Material.Fck != 35 || len(req.Rows) != 2 {
		t.Errorf("json request = %+v", req)
	}

	xlsxPath := filepath.Join(dir, "rows.xlsx")
	data := workbook(t, Columns, [][]interface{}{{1, "B1", 150, 80, 0, 100, 600, 400, 60, 22, 4, 10, 2, 200}})
	if err := os.WriteFile(xlsxPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	req, err = LoadFile(xlsxPath)
	if err != nil {
		t.Fatalf("LoadFile(xlsx) error = %v", err)
	}
	if len(req.Rows) != 1 || req.Material != (kds.Material{}) {
		t.Errorf("xlsx request = %+v, want one row and no material", req)
	}

	if _, err := LoadFile(filepath.Join(dir, "rows.csv")); err == nil {
		t.Error("LoadFile(csv): want error")
	}
}
