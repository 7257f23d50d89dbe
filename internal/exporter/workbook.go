package exporter

import (
	"fmt"
	"io"

	"retailreports/internal/report"
	"retailreports/pkg/contracts/domain"
)

// DefaultColumnWidth is applied to every column of every sheet
const DefaultColumnWidth = 20.0

// WorkbookSerializer writes one sheet per report section
type WorkbookSerializer struct {
	newBuilder  WorkbookFactory
	columnWidth float64
}

// NewWorkbookSerializer creates a serializer over factory. A nil factory
// selects the excelize builder.
func NewWorkbookSerializer(factory WorkbookFactory, columnWidth float64) *WorkbookSerializer {
	if factory == nil {
		factory = NewExcelizeBuilder
	}
	if columnWidth <= 0 {
		columnWidth = DefaultColumnWidth
	}
	return &WorkbookSerializer{newBuilder: factory, columnWidth: columnWidth}
}

// Format implements Serializer
func (s *WorkbookSerializer) Format() domain.ReportFormat {
	return domain.ReportFormatExcel
}

// Serialize lays every sheet out as: title in row 0, then for sections with
// metadata one row per entry and a blank row, otherwise a single blank row,
// then the header and the data rows.
func (s *WorkbookSerializer) Serialize(r *report.Report, w io.Writer) (RenderInfo, error) {
	b := s.newBuilder()
	defer b.Close()

	for _, section := range r.Sections {
		if err := writeSheet(b, section, s.columnWidth); err != nil {
			return RenderInfo{}, fmt.Errorf("failed to build sheet %q: %w", section.SheetName, err)
		}
	}

	if _, err := b.WriteTo(w); err != nil {
		return RenderInfo{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	return RenderInfo{Sheets: b.SheetNames()}, nil
}

func writeSheet(b WorkbookBuilder, section report.Section, width float64) error {
	sheet := section.SheetName
	cols := len(section.Columns)

	if err := b.AddSheet(sheet); err != nil {
		return err
	}

	if err := b.SetRow(sheet, 0, []string{section.Title}); err != nil {
		return err
	}
	if err := b.MergeRow(sheet, 0, cols); err != nil {
		return err
	}
	if err := b.StyleRow(sheet, 0, cols, RowStyleTitle); err != nil {
		return err
	}

	row := 1
	for _, m := range section.Metadata {
		if err := b.SetRow(sheet, row, []string{m.Label, m.Value}); err != nil {
			return err
		}
		row++
	}
	row++ // blank spacer row

	if err := b.SetRow(sheet, row, section.Columns); err != nil {
		return err
	}
	if err := b.StyleRow(sheet, row, cols, RowStyleHeader); err != nil {
		return err
	}
	row++

	for _, values := range section.Rows {
		if err := b.SetRow(sheet, row, values); err != nil {
			return err
		}
		if err := b.StyleRow(sheet, row, cols, RowStyleData); err != nil {
			return err
		}
		row++
	}

	return b.SetColumnWidth(sheet, cols, width)
}
