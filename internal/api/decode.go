package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/rccheck/internal/section"
)

// Columns is the header row of a row workbook. Columns may appear in any
// order; unknown columns are ignored.
var Columns = []string{
	"id", "name", "Mu", "Vu", "Nu", "Ms", "H", "B", "Dc",
	"as_dia", "as_num", "av_dia", "av_leg", "av_space",
}

// DecodeJSON reads a request from JSON.
func DecodeJSON(r io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("failed to decode request: %w", err)
	}
	return req, nil
}

// DecodeYAML reads a request from YAML.
func DecodeYAML(r io.Reader) (Request, error) {
	var req Request
	if err := yaml.NewDecoder(r).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("failed to decode request: %w", err)
	}
	return req, nil
}

// LoadFile reads a request file, choosing the decoder by extension.
// A workbook (.xlsx) carries rows only; the caller supplies the material.
func LoadFile(path string) (Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return Request{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(f)
	case ".yaml", ".yml":
		return DecodeYAML(f)
	case ".xlsx":
		rows, err := ReadRowsXLSX(f)
		if err != nil {
			return Request{}, err
		}
		return Request{Rows: rows}, nil
	}
	return Request{}, fmt.Errorf("unsupported input file %s (want .json, .yaml or .xlsx)", filepath.Base(path))
}

// ReadRowsXLSX reads section rows from the first sheet of a workbook.
// The first row names the columns; blank rows are skipped. A row without
// an id takes its 1-based position among the data rows.
func ReadRowsXLSX(r io.Reader) ([]section.Input, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(all) < 1 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	index := make(map[string]int, len(all[0]))
	for i, h := range all[0] {
		index[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"H", "B"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("sheet %q: missing column %q", sheet, required)
		}
	}

	var rows []section.Input
	for n, cells := range all[1:] {
		if blank(cells) {
			continue
		}
		line := n + 2 // sheet row number
		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[i])
		}

		in := section.Input{Name: cell("name")}
		if s := cell("id"); s != "" {
			id, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("row %d, column id: integer expected, got %q", line, s)
			}
			in.ID = id
		} else {
			in.ID = len(rows) + 1
		}

		numbers := []struct {
			col string
			dst *section.Number
		}{
			{"Mu", &in.Mu}, {"Vu", &in.Vu}, {"Nu", &in.Nu}, {"Ms", &in.Ms},
			{"H", &in.H}, {"B", &in.B}, {"Dc", &in.Dc},
			{"as_num", &in.AsNum}, {"av_leg", &in.AvLeg}, {"av_space", &in.AvSpace},
		}
		for _, c := range numbers {
			v, err := section.ParseNumber(cell(c.col))
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", line, c.col, err)
			}
			*c.dst = v
		}

		diameters := []struct {
			col string
			dst *int
		}{
			{"as_dia", &in.AsDia}, {"av_dia", &in.AvDia},
		}
		for _, c := range diameters {
			v, err := section.ParseBarDiameter(cell(c.col))
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", line, c.col, err)
			}
			*c.dst = v
		}

		rows = append(rows, in)
	}
	return rows, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
