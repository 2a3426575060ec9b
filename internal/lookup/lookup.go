// Package lookup loads the master product lookup workbook and filters it
// to the products a batch actually references, matching on registration
// codes.
package lookup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "navcompare/internal/errors"
)

// Table is the loaded lookup sheet: a header row plus data rows, all cells
// kept as strings.
type Table struct {
	Columns []string
	Rows    [][]string

	codeCol int
}

// Options configures where product rows live inside the lookup workbook.
type Options struct {
	SheetPatterns []string // ordered, substring match on sheet names
	HeaderRow     int      // zero-based row index of the header row
	CodeColumn    string   // header of the registration-code column
}

// DefaultOptions matches the standard product-query export: a 产品列表
// sheet with eight banner rows above the header.
func DefaultOptions() Options {
	return Options{
		SheetPatterns: []string{"产品列表"},
		HeaderRow:     8,
		CodeColumn:    "登记编码",
	}
}

// Load reads the lookup table from a workbook. Any structural problem is
// returned as an error; callers treat a failed load as "lookup absent" and
// keep running without product-info output.
func Load(path string, opts Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open lookup workbook", err).WithContext("file", path)
	}
	defer f.Close()

	var sheet string
	for _, pattern := range opts.SheetPatterns {
		for _, name := range f.GetSheetList() {
			if strings.Contains(name, pattern) {
				sheet = name
				break
			}
		}
		if sheet != "" {
			break
		}
	}
	if sheet == "" {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sheet matching %v", opts.SheetPatterns))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) <= opts.HeaderRow {
		return nil, fmt.Errorf("sheet %s has no header at row %d", sheet, opts.HeaderRow+1)
	}

	t := &Table{Columns: rows[opts.HeaderRow], codeCol: -1}
	for i, h := range t.Columns {
		if strings.TrimSpace(h) == opts.CodeColumn {
			t.codeCol = i
			break
		}
	}
	if t.codeCol == -1 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %q on sheet %s", opts.CodeColumn, sheet))
	}

	for _, row := range rows[opts.HeaderRow+1:] {
		// pad short rows so every row has one cell per column
		if len(row) < len(t.Columns) {
			padded := make([]string, len(t.Columns))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row[:len(t.Columns)])
	}

	return t, nil
}

// floatArtifactRe matches the ".0" tail that numeric codes pick up when a
// spreadsheet stores them as floating-point cells.
var floatArtifactRe = regexp.MustCompile(`^(\d+)\.0+$`)

// NormalizeCode canonicalizes a registration code for matching: surrounding
// whitespace is trimmed and a float-formatting tail on an otherwise numeric
// code is stripped. Codes are otherwise opaque; case and leading zeros are
// significant.
func NormalizeCode(code string) string {
	c := strings.TrimSpace(code)
	if m := floatArtifactRe.FindStringSubmatch(c); m != nil {
		return m[1]
	}
	return c
}

// CodeSet builds a membership set of normalized codes.
func CodeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if n := NormalizeCode(c); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// FilterByCodes returns the rows whose registration code is a member of
// the given set. An empty set yields an empty table.
func (t *Table) FilterByCodes(codes map[string]struct{}) *Table {
	out := &Table{Columns: t.Columns, codeCol: t.codeCol}
	for _, row := range t.Rows {
		if _, ok := codes[NormalizeCode(row[t.codeCol])]; ok {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// ReorderColumns returns a copy of the table with the preferred columns
// first (those actually present, in preferred order) and every remaining
// column appended in its original order.
func (t *Table) ReorderColumns(preferred []string) *Table {
	idx := make([]int, 0, len(t.Columns))
	taken := make(map[int]bool, len(t.Columns))

	for _, want := range preferred {
		for i, h := range t.Columns {
			if !taken[i] && strings.TrimSpace(h) == want {
				idx = append(idx, i)
				taken[i] = true
				break
			}
		}
	}
	for i := range t.Columns {
		if !taken[i] {
			idx = append(idx, i)
		}
	}

	out := &Table{codeCol: -1}
	for _, i := range idx {
		out.Columns = append(out.Columns, t.Columns[i])
	}
	for pos, i := range idx {
		if i == t.codeCol {
			out.codeCol = pos
		}
	}
	for _, row := range t.Rows {
		newRow := make([]string, 0, len(idx))
		for _, i := range idx {
			newRow = append(newRow, row[i])
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}
