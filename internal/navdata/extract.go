package navdata

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "navcompare/internal/errors"
	"navcompare/internal/infrastructure"
	"navcompare/internal/series"
)

// Patterns holds the ordered sheet and column name patterns used to locate
// NAV data inside a workbook. Each list is tried in priority order; the
// first sheet or header containing the pattern wins.
type Patterns struct {
	HistorySheet []string
	LatestSheet  []string
	DateColumn   []string
	NAVColumn    []string
	CodeColumn   string
}

// DefaultPatterns matches the sheet layout of the common NAV export tools.
func DefaultPatterns() Patterns {
	return Patterns{
		HistorySheet: []string{"历史净值", "历史"},
		LatestSheet:  []string{"最新净值", "最新"},
		DateColumn:   []string{"日期"},
		NAVColumn:    []string{"单位净值"},
		CodeColumn:   "登记编码",
	}
}

// Extraction is what one workbook contributes to a batch: at most one NAV
// series and the registration codes found on its latest-NAV sheet. Either
// part may be missing without the other being affected.
type Extraction struct {
	ProductName string
	Series      *series.Series
	Codes       []string
}

// dateLayouts are the cell formats accepted for NAV dates, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006年01月02日",
	"2006年1月2日",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1-2-06",
	"20060102",
}

// ExtractWorkbook opens a NAV workbook and pulls out its historical series
// and registration codes. A missing sheet or column is logged and skipped;
// only a workbook that cannot be opened at all returns an error.
func ExtractWorkbook(ctx context.Context, path string, pat Patterns) (*Extraction, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("file", path)
	}
	defer f.Close()

	ext := &Extraction{ProductName: ProductNameFromFile(path)}

	if sheet, ok := findSheet(f, pat.HistorySheet); ok {
		s, err := extractHistory(f, sheet, ext.ProductName, pat)
		if err != nil {
			logger.Warn("history sheet unusable, skipping series",
				slog.String("file", path),
				slog.String("sheet", sheet),
				slog.String("error", err.Error()))
		} else {
			ext.Series = s
		}
	} else {
		logger.Warn("no historical NAV sheet found, skipping series",
			slog.String("file", path),
			slog.Any("patterns", pat.HistorySheet))
	}

	if sheet, ok := findSheet(f, pat.LatestSheet); ok {
		codes, err := extractCodes(f, sheet, pat.CodeColumn)
		if err != nil {
			logger.Warn("latest NAV sheet unusable, skipping codes",
				slog.String("file", path),
				slog.String("sheet", sheet),
				slog.String("error", err.Error()))
		} else {
			ext.Codes = codes
		}
	} else {
		logger.Warn("no latest NAV sheet found, skipping codes",
			slog.String("file", path),
			slog.Any("patterns", pat.LatestSheet))
	}

	return ext, nil
}

// findSheet returns the first sheet whose name contains one of the
// patterns, testing patterns in priority order.
func findSheet(f *excelize.File, patterns []string) (string, bool) {
	sheets := f.GetSheetList()
	for _, pattern := range patterns {
		for _, name := range sheets {
			if strings.Contains(name, pattern) {
				return name, true
			}
		}
	}
	return "", false
}

// findColumn returns the index of the first header containing one of the
// patterns, testing patterns in priority order.
func findColumn(headers []string, patterns []string) (int, bool) {
	for _, pattern := range patterns {
		for i, h := range headers {
			if strings.Contains(h, pattern) {
				return i, true
			}
		}
	}
	return -1, false
}

// extractHistory builds the product's NAV series from the history sheet.
// Rows with an unparseable date or value are dropped; duplicate dates keep
// the last value seen.
func extractHistory(f *excelize.File, sheet, product string, pat Patterns) (*series.Series, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet has no data rows")
	}

	dateCol, ok := findColumn(rows[0], pat.DateColumn)
	if !ok {
		return nil, fmt.Errorf("no date column matching %v", pat.DateColumn)
	}
	navCol, ok := findColumn(rows[0], pat.NAVColumn)
	if !ok {
		return nil, fmt.Errorf("no unit NAV column matching %v", pat.NAVColumn)
	}

	s := series.NewSeries(product)
	for _, row := range rows[1:] {
		if dateCol >= len(row) || navCol >= len(row) {
			continue
		}
		date, ok := parseDate(row[dateCol])
		if !ok {
			continue
		}
		value, ok := parseValue(row[navCol])
		if !ok {
			continue
		}
		s.Set(date, value)
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("no parseable date/value rows")
	}
	return s, nil
}

// extractCodes collects the registration codes from the latest-NAV sheet.
func extractCodes(f *excelize.File, sheet, codeColumn string) ([]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet has no data rows")
	}

	col, ok := findColumn(rows[0], []string{codeColumn})
	if !ok {
		return nil, fmt.Errorf("no %q column", codeColumn)
	}

	var codes []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if code := strings.TrimSpace(row[col]); code != "" {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// parseDate accepts the common workbook date renderings plus raw Excel
// serial numbers, which excelize returns for unformatted date cells.
func parseDate(cell string) (time.Time, bool) {
	v := strings.TrimSpace(cell)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return series.Day(t), true
		}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 59 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return series.Day(t), true
		}
	}
	return time.Time{}, false
}

// parseValue parses a numeric NAV cell, tolerating thousands separators.
func parseValue(cell string) (float64, bool) {
	v := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
