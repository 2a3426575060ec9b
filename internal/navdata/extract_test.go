package navdata

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestProductNameFromFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{
			name:     "chinese product with bank prefix",
			filename: "20250601-农银理财-法巴农银A.xlsx",
			expected: "法巴农银A",
		},
		{
			name:     "plain chinese name",
			filename: "法巴封闭1号.xlsx",
			expected: "法巴封闭1号",
		},
		{
			name:     "latin name with digits",
			filename: "export_CompetitorX2.xlsx",
			expected: "CompetitorX2",
		},
		{
			name:     "fullwidth parentheses kept",
			filename: "下载-稳健理财（90天）.xlsx",
			expected: "稳健理财（90天）",
		},
		{
			name:     "path is stripped",
			filename: "batch1/子文件夹-产品B.xlsx",
			expected: "产品B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProductNameFromFile(tt.filename))
		})
	}
}

// writeNAVWorkbook builds a minimal product workbook with a history sheet
// and a latest-NAV sheet.
func writeNAVWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "产品历史净值")
	f.SetCellValue("产品历史净值", "A1", "净值日期")
	f.SetCellValue("产品历史净值", "B1", "单位净值（元）")
	rows := [][]interface{}{
		{"2025-01-01", "1.0000"},
		{"2025-01-02", "1.0010"},
		{"2025-01-02", "1.0020"}, // duplicate date, later row wins
		{"not a date", "1.5"},
		{"2025-01-03", "n/a"},
		{"2025-01-04", "1.0040"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetCellValue("产品历史净值", cell, row[0])
		cell, _ = excelize.CoordinatesToCellName(2, i+2)
		f.SetCellValue("产品历史净值", cell, row[1])
	}

	f.NewSheet("最新净值")
	f.SetCellValue("最新净值", "A1", "产品名称")
	f.SetCellValue("最新净值", "B1", "登记编码")
	f.SetCellValue("最新净值", "A2", "法巴农银A")
	f.SetCellValue("最新净值", "B2", "Z7001234")

	require.NoError(t, f.SaveAs(path))
}

func TestExtractWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "农银理财-法巴农银A.xlsx")
	writeNAVWorkbook(t, path)

	ext, err := ExtractWorkbook(context.Background(), path, DefaultPatterns())
	require.NoError(t, err)

	assert.Equal(t, "法巴农银A", ext.ProductName)
	require.NotNil(t, ext.Series)
	assert.Equal(t, 3, ext.Series.Len(), "malformed rows dropped, duplicate collapsed")

	pts := ext.Series.Points()
	assert.Equal(t, 1.0020, pts[1].Value, "duplicate date keeps the last value")
	assert.Equal(t, []string{"Z7001234"}, ext.Codes)
}

func TestExtractWorkbook_NoHistorySheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "无历史-产品C.xlsx")

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "最新净值")
	f.SetCellValue("最新净值", "A1", "登记编码")
	f.SetCellValue("最新净值", "A2", "Z123")
	require.NoError(t, f.SaveAs(path))

	ext, err := ExtractWorkbook(context.Background(), path, DefaultPatterns())
	require.NoError(t, err)
	assert.Nil(t, ext.Series, "missing history sheet contributes no series")
	assert.Equal(t, []string{"Z123"}, ext.Codes, "codes still collected")
}

func TestExtractWorkbook_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "坏列-产品D.xlsx")

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "历史净值")
	f.SetCellValue("历史净值", "A1", "序号")
	f.SetCellValue("历史净值", "B1", "累计净值")
	f.SetCellValue("历史净值", "A2", "1")
	f.SetCellValue("历史净值", "B2", "1.2")
	require.NoError(t, f.SaveAs(path))

	ext, err := ExtractWorkbook(context.Background(), path, DefaultPatterns())
	require.NoError(t, err)
	assert.Nil(t, ext.Series, "unit NAV column pattern must not match 累计净值 alone")
}

func TestExtractWorkbook_SheetPatternPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "优先级-产品E.xlsx")

	// Both a generic "历史" sheet and an exact "历史净值" sheet exist; the
	// more specific pattern must win even though the generic sheet sorts
	// first in the workbook.
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "历史记录")
	f.SetCellValue("历史记录", "A1", "日期")
	f.SetCellValue("历史记录", "B1", "单位净值")
	f.SetCellValue("历史记录", "A2", "2020-01-01")
	f.SetCellValue("历史记录", "B2", "9.9")

	f.NewSheet("历史净值表")
	f.SetCellValue("历史净值表", "A1", "日期")
	f.SetCellValue("历史净值表", "B1", "单位净值")
	f.SetCellValue("历史净值表", "A2", "2025-01-01")
	f.SetCellValue("历史净值表", "B2", "1.5")
	require.NoError(t, f.SaveAs(path))

	ext, err := ExtractWorkbook(context.Background(), path, DefaultPatterns())
	require.NoError(t, err)
	require.NotNil(t, ext.Series)
	pts := ext.Series.Points()
	require.Len(t, pts, 1)
	assert.Equal(t, 1.5, pts[0].Value)
}

func TestFindColumn(t *testing.T) {
	headers := []string{"序号", "净值日期", "单位净值(元)", "累计单位净值"}

	i, ok := findColumn(headers, []string{"日期"})
	require.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = findColumn(headers, []string{"单位净值"})
	require.True(t, ok)
	assert.Equal(t, 2, i, "first matching header wins")

	_, ok = findColumn(headers, []string{"登记编码"})
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		cell string
		want string
		ok   bool
	}{
		{"2025-06-01", "2025-06-01", true},
		{"2025/6/1", "2025-06-01", true},
		{"2025年6月1日", "2025-06-01", true},
		{"45809", "2025-06-01", true}, // Excel serial date
		{"净值日期", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		d, ok := parseDate(tt.cell)
		require.Equal(t, tt.ok, ok, "cell %q", tt.cell)
		if ok {
			assert.Equal(t, tt.want, d.Format("2006-01-02"), "cell %q", tt.cell)
		}
	}
}
