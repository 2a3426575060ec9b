package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	apperrors "navcompare/internal/errors"
	"navcompare/internal/lookup"
	"navcompare/internal/series"
)

// Sheet names of the closed-fund comparison report.
const (
	SheetRawData  = "净值数据"
	SheetPlotData = "作图数据"
	SheetInfo     = "产品信息"
)

// Sheet names of the open-fund comparison report.
const (
	SheetOpenRaw      = "原始净值"
	SheetOpenNorm     = "统一基准净值"
	SheetOpenRawPlot  = "原始净值作图"
	SheetOpenNormPlot = "统一基准作图"
)

// Date renderings used in report cells.
const (
	dateFormatLong = "2006年01月02日"
	dateFormatISO  = "2006-01-02"
)

// chartAnchor is where the comparison chart is inserted on its sheet.
const chartAnchor = "H2"

// Writer serializes comparison tables into xlsx reports with embedded
// line charts. refMarker identifies the reference product family for
// chart coloring.
type Writer struct {
	refMarker string
}

// NewWriter creates a report writer for the given reference marker.
func NewWriter(refMarker string) *Writer {
	return &Writer{refMarker: refMarker}
}

// WriteClosed writes the closed-fund report: the raw merged table, the
// calendar-resampled charting table, an optional product-info sheet, and
// one comparison chart (drawn on the raw sheet, sourced from the charting
// sheet).
func (w *Writer) WriteClosed(path string, raw, plot *series.Table, info *lookup.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeTableSheet(f, SheetRawData, raw, dateFormatLong, true); err != nil {
		return err
	}
	if err := writeTableSheet(f, SheetPlotData, plot, dateFormatISO, false); err != nil {
		return err
	}
	if err := writeInfoSheet(f, info); err != nil {
		return err
	}
	if err := w.addComparisonChart(f, SheetRawData, SheetPlotData, plot, "产品单位净值对比图", "单位净值"); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save report", err).WithContext("path", path)
	}
	return nil
}

// WriteOpen writes the open-fund report: raw and normalized tables, their
// calendar-resampled charting variants, an optional product-info sheet,
// and one chart per charting sheet.
func (w *Writer) WriteOpen(path string, raw, norm, rawPlot, normPlot *series.Table, info *lookup.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeTableSheet(f, SheetOpenRaw, raw, dateFormatISO, true); err != nil {
		return err
	}
	if err := writeTableSheet(f, SheetOpenNorm, norm, dateFormatISO, false); err != nil {
		return err
	}
	if err := writeTableSheet(f, SheetOpenRawPlot, rawPlot, dateFormatISO, false); err != nil {
		return err
	}
	if err := writeTableSheet(f, SheetOpenNormPlot, normPlot, dateFormatISO, false); err != nil {
		return err
	}
	if err := writeInfoSheet(f, info); err != nil {
		return err
	}
	if err := w.addComparisonChart(f, SheetOpenRawPlot, SheetOpenRawPlot, rawPlot, "原始产品单位净值", "单位净值"); err != nil {
		return err
	}
	if err := w.addComparisonChart(f, SheetOpenNormPlot, SheetOpenNormPlot, normPlot, "统一基准单位净值", "单位净值"); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save report", err).WithContext("path", path)
	}
	return nil
}

// writeTableSheet writes a table onto its own sheet: a 净值日期 header
// column followed by one column per product, absent cells left empty.
// replaceDefault renames the workbook's default sheet instead of adding a
// new one, so the first table becomes the first sheet.
func writeTableSheet(f *excelize.File, sheet string, t *series.Table, dateFormat string, replaceDefault bool) error {
	if replaceDefault {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return fmt.Errorf("failed to rename sheet %s: %w", sheet, err)
		}
	} else {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
	}

	header := make([]interface{}, 0, len(t.Columns)+1)
	header = append(header, "净值日期")
	for _, name := range t.Columns {
		header = append(header, name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %s: %w", sheet, err)
	}

	for i, d := range t.Dates {
		row := make([]interface{}, 1, len(t.Columns)+1)
		row[0] = d.Format(dateFormat)
		for _, name := range t.Columns {
			if v, ok := t.Value(name, d); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+2, sheet, err)
		}
	}

	return nil
}

// writeInfoSheet appends the product-info sheet when lookup rows matched.
func writeInfoSheet(f *excelize.File, info *lookup.Table) error {
	if info.IsEmpty() {
		return nil
	}
	if _, err := f.NewSheet(SheetInfo); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", SheetInfo, err)
	}

	header := make([]interface{}, len(info.Columns))
	for i, h := range info.Columns {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetInfo, "A1", &header); err != nil {
		return err
	}
	for i, row := range info.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetInfo, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

// addComparisonChart draws the comparison line chart on anchorSheet, with
// series data drawn from the table written on dataSheet. Reference-family
// series come first in green shades; competitors follow in palette order.
func (w *Writer) addComparisonChart(f *excelize.File, anchorSheet, dataSheet string, t *series.Table, title, yAxis string) error {
	if t.IsEmpty() {
		return nil
	}

	var refCols, otherCols []int
	for i, name := range t.Columns {
		if series.IsReference(name, w.refMarker) {
			refCols = append(refCols, i)
		} else {
			otherCols = append(otherCols, i)
		}
	}

	lastRow := len(t.Dates) + 1
	categories := fmt.Sprintf("'%s'!$A$2:$A$%d", dataSheet, lastRow)

	var chartSeries []excelize.ChartSeries
	greens := GreenShades(len(refCols))
	for i, col := range refCols {
		s, err := seriesForColumn(dataSheet, t.Columns[col], col, lastRow, categories, greens[i])
		if err != nil {
			return err
		}
		chartSeries = append(chartSeries, s)
	}
	for i, col := range otherCols {
		s, err := seriesForColumn(dataSheet, t.Columns[col], col, lastRow, categories, PaletteColor(i))
		if err != nil {
			return err
		}
		chartSeries = append(chartSeries, s)
	}

	chart := &excelize.Chart{
		Type:   excelize.Line,
		Series: chartSeries,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "日期"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: yAxis}}},
		Dimension: excelize.ChartDimension{
			Width:  900,
			Height: 400,
		},
	}
	if err := f.AddChart(anchorSheet, chartAnchor, chart); err != nil {
		return fmt.Errorf("failed to add chart on %s: %w", anchorSheet, err)
	}
	return nil
}

// seriesForColumn builds one chart series for a table column. col is the
// zero-based column index within the table; on the sheet it sits one
// column right of the date index.
func seriesForColumn(dataSheet, name string, col, lastRow int, categories, color string) (excelize.ChartSeries, error) {
	colName, err := excelize.ColumnNumberToName(col + 2)
	if err != nil {
		return excelize.ChartSeries{}, err
	}
	return excelize.ChartSeries{
		Name:       name,
		Categories: categories,
		Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", dataSheet, colName, colName, lastRow),
		Fill:       excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Line:       excelize.ChartLine{Width: 2},
	}, nil
}
