// Package importer reads fastener tables from xlsx workbooks and complete
// load cases from YAML or JSON documents.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"Strut/internal/calc/fastener"
	"Strut/internal/calc/hsb21030"
	"Strut/internal/calc/loads"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptySheet    = errors.New("importer: sheet has no fastener rows")
	ErrMissingColumn = errors.New("importer: missing column")
	ErrBadRow        = errors.New("importer: bad row")
	ErrBadLoadCase   = errors.New("importer: bad load case")
)

var required = []string{"name", "shear", "tension", "x", "y", "z"}

// ReadFasteners parses the first sheet of an xlsx workbook. The first row is
// a header naming the columns (any order, case-insensitive): name,
// specification, shear, tension, x, y, z, material. Specification and
// material may be omitted. Blank rows are skipped; any other malformed row
// fails the whole import with its 1-based sheet row number.
func ReadFasteners(r io.Reader) ([]fastener.Fastener, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("importer: read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	cols := header(rows[0])
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var out []fastener.Fastener
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		fst, err := parseRow(rows[i], cols)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrBadRow, i+1, err)
		}
		out = append(out, fst)
	}
	if len(out) == 0 {
		return nil, ErrEmptySheet
	}
	return out, nil
}

func header(row []string) map[string]int {
	cols := make(map[string]int, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, cols map[string]int) (fastener.Fastener, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(name string) (float64, error) {
		v, err := toFloat(cell(name))
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", name, err)
		}
		return v, nil
	}

	f := fastener.Fastener{
		Name:          cell("name"),
		Specification: cell("specification"),
		Material:      cell("material"),
	}
	if f.Name == "" {
		return f, errors.New("column name: empty")
	}
	var err error
	if f.ShearAllowable, err = num("shear"); err != nil {
		return f, err
	}
	if f.TensionAllowable, err = num("tension"); err != nil {
		return f, err
	}
	if f.X, err = num("x"); err != nil {
		return f, err
	}
	if f.Y, err = num("y"); err != nil {
		return f, err
	}
	if f.Z, err = num("z"); err != nil {
		return f, err
	}
	return f, nil
}

// toFloat accepts a decimal comma as written by some spreadsheet locales.
func toFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// ReadLoadCase decodes a load case document. JSON is accepted as well since
// it is valid YAML. A missing case means limit loads.
func ReadLoadCase(data []byte) (hsb21030.Input, error) {
	var in hsb21030.Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return hsb21030.Input{}, fmt.Errorf("%w: %v", ErrBadLoadCase, err)
	}
	switch in.Case {
	case "":
		in.Case = loads.CaseLimit
	case loads.CaseLimit, loads.CaseUltimate:
	default:
		return hsb21030.Input{}, fmt.Errorf("%w: unknown case %q", ErrBadLoadCase, in.Case)
	}
	return in, nil
}
