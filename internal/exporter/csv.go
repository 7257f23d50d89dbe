package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"retailreports/internal/report"
	"retailreports/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSerializer writes every section of a report into one CSV file
type CSVSerializer struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding
	BOMPrefix bool
}

// NewCSVSerializer creates a serializer that writes a BOM
func NewCSVSerializer() *CSVSerializer {
	return &CSVSerializer{BOMPrefix: true}
}

// Format implements Serializer
func (s *CSVSerializer) Format() domain.ReportFormat {
	return domain.ReportFormatCSV
}

// Serialize writes each section as a title line, its metadata, a header and
// its rows, separated by blank lines, followed by the insights.
func (s *CSVSerializer) Serialize(r *report.Report, w io.Writer) (RenderInfo, error) {
	if s.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return RenderInfo{}, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	records := [][]string{{r.Title}}
	for _, section := range r.Sections {
		records = append(records, []string{}, []string{section.Title})
		for _, m := range section.Metadata {
			records = append(records, []string{m.Label, m.Value})
		}
		records = append(records, section.Columns)
		records = append(records, section.Rows...)
	}

	records = append(records, []string{}, []string{insightsHeading})
	for _, insight := range r.Insights {
		records = append(records, []string{insight.Label, insight.Value})
	}

	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return RenderInfo{}, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return RenderInfo{}, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return RenderInfo{}, nil
}
