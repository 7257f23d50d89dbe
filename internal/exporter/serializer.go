package exporter

import (
	"io"

	"retailreports/internal/report"
	"retailreports/pkg/contracts/domain"
)

// RenderInfo carries format-specific facts about a rendered report
type RenderInfo struct {
	PageCount int
	Sheets    []string
}

// Serializer lays out an assembled report in one file format
type Serializer interface {
	Format() domain.ReportFormat
	Serialize(r *report.Report, w io.Writer) (RenderInfo, error)
}
