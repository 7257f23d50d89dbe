package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// RowStyle selects the cell style applied to a workbook row
type RowStyle int

const (
	RowStyleTitle RowStyle = iota
	RowStyleHeader
	RowStyleData
)

// WorkbookBuilder is the workbook capability the serializer writes through.
// Rows and columns are zero-based.
type WorkbookBuilder interface {
	AddSheet(name string) error
	SetRow(sheet string, row int, values []string) error
	MergeRow(sheet string, row, cols int) error
	StyleRow(sheet string, row, cols int, style RowStyle) error
	SetColumnWidth(sheet string, cols int, width float64) error
	SheetNames() []string
	WriteTo(w io.Writer) (int64, error)
	Close() error
}

// WorkbookFactory returns a fresh builder for each export
type WorkbookFactory func() WorkbookBuilder

// NewExcelizeBuilder is the default WorkbookFactory
func NewExcelizeBuilder() WorkbookBuilder {
	return &excelizeBuilder{
		file:   excelize.NewFile(),
		styles: make(map[RowStyle]int),
	}
}

type excelizeBuilder struct {
	file   *excelize.File
	styles map[RowStyle]int
	sheets int
}

// AddSheet renames the default sheet on first use so the workbook holds
// only the sheets added here.
func (b *excelizeBuilder) AddSheet(name string) error {
	if b.sheets == 0 {
		if err := b.file.SetSheetName(b.file.GetSheetName(0), name); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", name, err)
		}
	} else if _, err := b.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", name, err)
	}
	b.sheets++
	return nil
}

func (b *excelizeBuilder) SetRow(sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := b.file.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func (b *excelizeBuilder) MergeRow(sheet string, row, cols int) error {
	if cols < 2 {
		return nil
	}
	first, last, err := rowRange(row, cols)
	if err != nil {
		return err
	}
	return b.file.MergeCell(sheet, first, last)
}

func (b *excelizeBuilder) StyleRow(sheet string, row, cols int, style RowStyle) error {
	id, err := b.style(style)
	if err != nil {
		return err
	}
	first, last, err := rowRange(row, cols)
	if err != nil {
		return err
	}
	return b.file.SetCellStyle(sheet, first, last, id)
}

func (b *excelizeBuilder) SetColumnWidth(sheet string, cols int, width float64) error {
	if cols < 1 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	return b.file.SetColWidth(sheet, "A", last, width)
}

func (b *excelizeBuilder) SheetNames() []string {
	return b.file.GetSheetList()
}

func (b *excelizeBuilder) WriteTo(w io.Writer) (int64, error) {
	return b.file.WriteTo(w)
}

func (b *excelizeBuilder) Close() error {
	return b.file.Close()
}

// style creates each row style once per workbook
func (b *excelizeBuilder) style(style RowStyle) (int, error) {
	if id, ok := b.styles[style]; ok {
		return id, nil
	}

	var def *excelize.Style
	switch style {
	case RowStyleTitle:
		def = &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}
	case RowStyleHeader:
		def = &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}
	default:
		def = &excelize.Style{
			Alignment: &excelize.Alignment{Horizontal: "left"},
		}
	}

	id, err := b.file.NewStyle(def)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	b.styles[style] = id
	return id, nil
}

func rowRange(row, cols int) (string, string, error) {
	first, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return "", "", err
	}
	last, err := excelize.CoordinatesToCellName(cols, row+1)
	if err != nil {
		return "", "", err
	}
	return first, last, nil
}
