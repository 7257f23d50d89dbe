package exporter

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"retailreports/internal/report"
	"retailreports/pkg/contracts/domain"
)

const (
	insightsHeading = "Key Insights"

	pageMargin     = 15.0
	sectionMargin  = 10.0
	headerHeight   = 7.0
	rowHeight      = 6.0
	insightSpacing = 8.0
	fontFamily     = "Go"
)

// documentPages lists the sections drawn on each page, in order. The
// insights list follows the last page's break.
var documentPages = [][]report.SectionKey{
	{report.SectionKPIs, report.SectionCategories, report.SectionTopProducts},
	{report.SectionStaff, report.SectionPeakHours},
}

// DocumentSerializer renders a report as an A4 portrait PDF
type DocumentSerializer struct {
	compress bool
}

// NewDocumentSerializer creates a PDF serializer. Uncompressed output keeps
// page content streams readable.
func NewDocumentSerializer(compress bool) *DocumentSerializer {
	return &DocumentSerializer{compress: compress}
}

// Format implements Serializer
func (s *DocumentSerializer) Format() domain.ReportFormat {
	return domain.ReportFormatPDF
}

// Serialize draws the title block, the tables and the insights list down a
// single vertical cursor. Tables that outgrow a page continue through fpdf's
// automatic page break; no overflow prediction is done.
func (s *DocumentSerializer) Serialize(r *report.Report, w io.Writer) (RenderInfo, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(s.compress)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetModificationDate(r.GeneratedAt)
	pdf.SetTitle(r.Title, true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)

	d := &documentCursor{pdf: pdf}

	pdf.AddPage()
	d.title(r)

	for i, keys := range documentPages {
		if i > 0 {
			d.pageBreak()
		}
		for _, key := range keys {
			section, ok := r.Section(key)
			if !ok {
				return RenderInfo{}, fmt.Errorf("report has no %s section", key)
			}
			d.table(section)
		}
	}

	d.pageBreak()
	d.insights(r.Insights)

	if err := pdf.Error(); err != nil {
		return RenderInfo{}, fmt.Errorf("failed to render document: %w", err)
	}

	pages := pdf.PageCount()
	if err := pdf.Output(w); err != nil {
		return RenderInfo{}, fmt.Errorf("failed to write document: %w", err)
	}
	return RenderInfo{PageCount: pages}, nil
}

// documentCursor tracks the vertical position y on the current page
type documentCursor struct {
	pdf *fpdf.Fpdf
	y   float64
}

func (d *documentCursor) usableWidth() float64 {
	pageWidth, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return pageWidth - left - right
}

func (d *documentCursor) title(r *report.Report) {
	d.y = pageMargin
	d.pdf.SetY(d.y)

	d.pdf.SetFont(fontFamily, "B", 20)
	d.pdf.SetTextColor(31, 78, 120)
	d.pdf.CellFormat(0, 12, r.Title, "", 1, "C", false, 0, "")

	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.SetTextColor(80, 80, 80)
	d.pdf.CellFormat(0, 6, "Report Period: "+r.DateRange, "", 1, "C", false, 0, "")
	d.pdf.CellFormat(0, 6, "Generated on: "+r.GeneratedOn, "", 1, "C", false, 0, "")

	d.advance()
}

// table draws a heading, a filled header row and one row per element
func (d *documentCursor) table(section report.Section) {
	width := d.usableWidth() / float64(len(section.Columns))

	d.pdf.SetY(d.y)
	d.pdf.SetFont(fontFamily, "B", 14)
	d.pdf.SetTextColor(31, 78, 120)
	d.pdf.CellFormat(0, 9, section.Title, "", 1, "L", false, 0, "")

	d.pdf.SetFont(fontFamily, "B", 10)
	d.pdf.SetFillColor(31, 78, 120)
	d.pdf.SetTextColor(255, 255, 255)
	for _, col := range section.Columns {
		d.pdf.CellFormat(width, headerHeight, col, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont(fontFamily, "", 9)
	d.pdf.SetTextColor(0, 0, 0)
	for _, row := range section.Rows {
		for _, cell := range row {
			d.pdf.CellFormat(width, rowHeight, cell, "1", 0, "L", false, 0, "")
		}
		d.pdf.Ln(-1)
	}

	d.advance()
}

func (d *documentCursor) insights(items []domain.DerivedInsight) {
	d.pdf.SetY(d.y)
	d.pdf.SetFont(fontFamily, "B", 14)
	d.pdf.SetTextColor(31, 78, 120)
	d.pdf.CellFormat(0, 9, insightsHeading, "", 1, "L", false, 0, "")
	d.y = d.pdf.GetY() + insightSpacing/2

	d.pdf.SetFont(fontFamily, "", 11)
	d.pdf.SetTextColor(0, 0, 0)
	left, _, _, _ := d.pdf.GetMargins()
	for _, item := range items {
		d.pdf.SetXY(left, d.y)
		d.pdf.CellFormat(0, rowHeight, "• "+item.Text(), "", 0, "L", false, 0, "")
		d.y += insightSpacing
	}
}

// advance moves the cursor past the last drawn block plus the section margin
func (d *documentCursor) advance() {
	d.y = d.pdf.GetY() + sectionMargin
}

func (d *documentCursor) pageBreak() {
	d.pdf.AddPage()
	d.y = pageMargin
}
