package domain

import (
	"time"
)

// ReportFormat defines the format of an exported report
type ReportFormat string

const (
	ReportFormatPDF   ReportFormat = "pdf"
	ReportFormatExcel ReportFormat = "excel"
	ReportFormatCSV   ReportFormat = "csv"
)

// AllReportFormats lists every format the engine can produce, in export order
var AllReportFormats = []ReportFormat{ReportFormatPDF, ReportFormatExcel, ReportFormatCSV}

// Extension returns the file extension used for the format
func (f ReportFormat) Extension() string {
	switch f {
	case ReportFormatPDF:
		return "pdf"
	case ReportFormatExcel:
		return "xlsx"
	case ReportFormatCSV:
		return "csv"
	default:
		return ""
	}
}

// ContentType returns the MIME type of the format
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatPDF:
		return "application/pdf"
	case ReportFormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ReportFormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// ParseReportFormat accepts a format name or a file extension
func ParseReportFormat(s string) (ReportFormat, bool) {
	switch s {
	case "pdf", "document":
		return ReportFormatPDF, true
	case "excel", "xlsx", "workbook":
		return ReportFormatExcel, true
	case "csv":
		return ReportFormatCSV, true
	}
	return "", false
}

// ExportArtifact describes one persisted export file
type ExportArtifact struct {
	ID          string       `json:"id" db:"id"`
	Format      ReportFormat `json:"format" db:"format"`
	FileName    string       `json:"file_name" db:"file_name"`
	Location    string       `json:"location" db:"location"`
	Size        int64        `json:"size" db:"size"`
	PageCount   int          `json:"page_count,omitempty" db:"page_count"`
	Sheets      []string     `json:"sheets,omitempty" db:"sheets"`
	DateRange   string       `json:"date_range" db:"date_range"`
	GeneratedAt time.Time    `json:"generated_at" db:"generated_at"`
}
