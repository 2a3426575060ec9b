package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"navcompare/internal/lookup"
	"navcompare/internal/series"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buildTables(t *testing.T) (raw, plot *series.Table) {
	t.Helper()
	ref := series.NewSeries("法巴农银A")
	ref.Set(day(2025, 1, 1), 1.00)
	ref.Set(day(2025, 1, 3), 1.02)
	comp := series.NewSeries("CompetitorX")
	comp.Set(day(2025, 1, 1), 100)
	comp.Set(day(2025, 1, 2), 101)

	raw = series.Merge(map[string]*series.Series{ref.Name: ref, comp.Name: comp})
	return raw, raw.Resample()
}

func TestWriteClosed(t *testing.T) {
	raw, plot := buildTables(t)
	info := &lookup.Table{
		Columns: []string{"理财产品名称", "登记编码"},
		Rows:    [][]string{{"法巴农银A", "Z7001234"}},
	}

	path := filepath.Join(t.TempDir(), "封闭式90天_产品净值汇总_含连接图表.xlsx")
	require.NoError(t, NewWriter("法巴").WriteClosed(path, raw, plot, info))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetRawData, SheetPlotData, SheetInfo}, f.GetSheetList())

	// header row: date index first, then sorted product columns
	v, err := f.GetCellValue(SheetRawData, "A1")
	require.NoError(t, err)
	assert.Equal(t, "净值日期", v)
	v, _ = f.GetCellValue(SheetRawData, "B1")
	assert.Equal(t, "CompetitorX", v)
	v, _ = f.GetCellValue(SheetRawData, "C1")
	assert.Equal(t, "法巴农银A", v)

	// raw sheet keeps the long date rendering and absent cells stay empty
	v, _ = f.GetCellValue(SheetRawData, "A2")
	assert.Equal(t, "2025年01月01日", v)
	v, _ = f.GetCellValue(SheetRawData, "C3")
	assert.Equal(t, "", v, "reference has no raw value on 1/2")

	// plot sheet is daily with ISO dates and interpolated interior values
	v, _ = f.GetCellValue(SheetPlotData, "A3")
	assert.Equal(t, "2025-01-02", v)
	v, _ = f.GetCellValue(SheetPlotData, "C3")
	assert.Equal(t, "1.01", v, "interpolated midpoint")
	v, _ = f.GetCellValue(SheetPlotData, "B4")
	assert.Equal(t, "", v, "no extrapolation past CompetitorX's last date")

	// product info sheet
	v, _ = f.GetCellValue(SheetInfo, "B2")
	assert.Equal(t, "Z7001234", v)
}

func TestWriteClosed_NoInfoSheet(t *testing.T) {
	raw, plot := buildTables(t)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, NewWriter("法巴").WriteClosed(path, raw, plot, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetRawData, SheetPlotData}, f.GetSheetList(),
		"no lookup rows, no product info sheet")
}

func TestWriteOpen(t *testing.T) {
	raw, rawPlot := buildTables(t)
	baseline, ok := raw.BaselineDate("法巴")
	require.True(t, ok)
	norm := raw.Normalize("法巴", baseline)
	normPlot := norm.Resample().TrimBefore(baseline)

	path := filepath.Join(t.TempDir(), "开放式_产品对比.xlsx")
	require.NoError(t, NewWriter("法巴").WriteOpen(path, raw, norm, rawPlot, normPlot, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t,
		[]string{SheetOpenRaw, SheetOpenNorm, SheetOpenRawPlot, SheetOpenNormPlot},
		f.GetSheetList())

	// normalized sheet: derived column directly after its source
	v, _ := f.GetCellValue(SheetOpenNorm, "B1")
	assert.Equal(t, "CompetitorX", v)
	v, _ = f.GetCellValue(SheetOpenNorm, "C1")
	assert.Equal(t, "CompetitorX"+series.NormalizedSuffix, v)
	v, _ = f.GetCellValue(SheetOpenNorm, "C2")
	assert.Equal(t, "1", v, "ratio to baseline on the baseline date")
}
