package exporter

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"retailreports/internal/report"
	"retailreports/internal/shared/testutil"
)

func renderWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	snapshot := testutil.SampleSnapshot()
	rpt, err := report.Build(&snapshot, testutil.FixedExportTime)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = NewWorkbookSerializer(nil, 0).Serialize(rpt, &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// sheetRows reads a sheet with trailing empty cells trimmed
func sheetRows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		for len(row) > 0 && row[len(row)-1] == "" {
			row = row[:len(row)-1]
		}
		rows[i] = row
	}
	return rows
}

func TestWorkbookSerializer_SixSheets(t *testing.T) {
	f := renderWorkbook(t)
	assert.Equal(t, []string{
		"KPI Summary",
		"Category Performance",
		"Transactions",
		"Best Sellers",
		"Staff Performance",
		"Peak Hours",
	}, f.GetSheetList())
}

func TestWorkbookSerializer_MetadataSheetLayout(t *testing.T) {
	f := renderWorkbook(t)
	rows := sheetRows(t, f, "KPI Summary")

	require.GreaterOrEqual(t, len(rows), 9)
	assert.Equal(t, []string{"Key Performance Indicators"}, rows[0])
	assert.Equal(t, []string{"Report Period", "Jan 1, 2025 - Jan 20, 2025"}, rows[1])
	assert.Equal(t, []string{"Generated on", "Jan 20, 2025"}, rows[2])
	assert.Empty(t, rows[3])
	assert.Equal(t, []string{"Metric", "Value", "Change", "Comparison Period"}, rows[4])
	assert.Equal(t, []string{"Total Revenue", "$125,430.5", "+12%", "vs last month"}, rows[5])

	merged, err := f.GetMergeCells("KPI Summary")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "D1", merged[0].GetEndAxis())
}

func TestWorkbookSerializer_PlainSheetLayout(t *testing.T) {
	f := renderWorkbook(t)
	rows := sheetRows(t, f, "Peak Hours")

	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Peak Hours"}, rows[0])
	assert.Empty(t, rows[1])
	assert.Equal(t, []string{"Hour", "Transactions", "Revenue", "Average Transaction Value"}, rows[2])
	assert.Equal(t, []string{"10-11AM", "120", "$500", "$4.17"}, rows[3])
	assert.Equal(t, []string{"2-3PM", "180", "$900", "$5"}, rows[4])
	assert.Equal(t, []string{"6-7PM", "150", "$900", "$6"}, rows[5])
}

func TestWorkbookSerializer_PreservesCategoryOrder(t *testing.T) {
	f := renderWorkbook(t)
	rows := sheetRows(t, f, "Category Performance")

	var names []string
	for _, row := range rows[5:] {
		names = append(names, row[0])
	}
	assert.Equal(t, []string{"Accessories", "Electronics", "Apparel", "Home & Garden"}, names)
}

func TestWorkbookSerializer_ValuesAreStrings(t *testing.T) {
	f := renderWorkbook(t)

	cellType, err := f.GetCellType("Transactions", "E5")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, cellType)

	value, err := f.GetCellValue("Transactions", "E5")
	require.NoError(t, err)
	assert.Equal(t, "$1,500", value)
}

func TestWorkbookSerializer_FixedColumnWidth(t *testing.T) {
	f := renderWorkbook(t)

	for _, sheet := range f.GetSheetList() {
		for _, col := range []string{"A", "B", "C", "D"} {
			width, err := f.GetColWidth(sheet, col)
			require.NoError(t, err)
			assert.Equal(t, DefaultColumnWidth, width, "%s!%s", sheet, col)
		}
	}
}

// recordingBuilder captures builder calls without producing a real workbook
type recordingBuilder struct {
	sheets []string
	rows   map[string]map[int][]string
	styles map[string]map[int]RowStyle
	widths map[string]float64
	closed bool
}

func newRecordingBuilder() *recordingBuilder {
	return &recordingBuilder{
		rows:   make(map[string]map[int][]string),
		styles: make(map[string]map[int]RowStyle),
		widths: make(map[string]float64),
	}
}

func (b *recordingBuilder) AddSheet(name string) error {
	b.sheets = append(b.sheets, name)
	b.rows[name] = make(map[int][]string)
	b.styles[name] = make(map[int]RowStyle)
	return nil
}

func (b *recordingBuilder) SetRow(sheet string, row int, values []string) error {
	b.rows[sheet][row] = values
	return nil
}

func (b *recordingBuilder) MergeRow(string, int, int) error { return nil }

func (b *recordingBuilder) StyleRow(sheet string, row, _ int, style RowStyle) error {
	b.styles[sheet][row] = style
	return nil
}

func (b *recordingBuilder) SetColumnWidth(sheet string, _ int, width float64) error {
	b.widths[sheet] = width
	return nil
}

func (b *recordingBuilder) SheetNames() []string { return b.sheets }

func (b *recordingBuilder) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte("recorded"))
	return int64(n), err
}

func (b *recordingBuilder) Close() error {
	b.closed = true
	return nil
}

func TestWorkbookSerializer_UsesInjectedBuilder(t *testing.T) {
	var built []*recordingBuilder
	factory := func() WorkbookBuilder {
		b := newRecordingBuilder()
		built = append(built, b)
		return b
	}

	snapshot := testutil.SampleSnapshot()
	rpt, err := report.Build(&snapshot, testutil.FixedExportTime)
	require.NoError(t, err)

	serializer := NewWorkbookSerializer(factory, 24)
	for i := 0; i < 2; i++ {
		var buf bytes.Buffer
		info, err := serializer.Serialize(rpt, &buf)
		require.NoError(t, err)
		assert.Len(t, info.Sheets, 6)
		assert.Equal(t, "recorded", buf.String())
	}

	require.Len(t, built, 2, "each export gets a fresh builder")
	b := built[0]
	assert.True(t, b.closed)
	assert.Equal(t, 24.0, b.widths["Best Sellers"])
	assert.Equal(t, RowStyleTitle, b.styles["Staff Performance"][0])
	assert.Equal(t, RowStyleHeader, b.styles["Staff Performance"][2])
	assert.Equal(t, RowStyleData, b.styles["Staff Performance"][3])
	assert.Equal(t, RowStyleHeader, b.styles["Category Performance"][4])
	assert.Equal(t, "Maria Lopez", b.rows["Staff Performance"][3][0])
}
