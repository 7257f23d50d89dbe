package exporter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "retailreports/internal/errors"
	"retailreports/internal/report"
	"retailreports/internal/storage"
	"retailreports/internal/validation"
	"retailreports/pkg/contracts/domain"
)

// FileNamePrefix starts every report file name
const FileNamePrefix = "Reports"

// FileName returns Reports<YYYYMMDD>.<ext> for the calendar date of t
func FileName(format domain.ReportFormat, t time.Time) string {
	return FileNamePrefix + t.Format("20060102") + "." + format.Extension()
}

// Engine turns snapshots into stored report artifacts. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	store       storage.Store
	validator   *validation.SnapshotValidator
	workbooks   WorkbookFactory
	clock       func() time.Time
	logger      *slog.Logger
	compress    bool
	columnWidth float64
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the source of the invocation date
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithWorkbookFactory replaces the excelize workbook builder
func WithWorkbookFactory(factory WorkbookFactory) Option {
	return func(e *Engine) { e.workbooks = factory }
}

// WithLogger sets the engine logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithCompression toggles PDF stream compression
func WithCompression(compress bool) Option {
	return func(e *Engine) { e.compress = compress }
}

// WithColumnWidth sets the fixed workbook column width
func WithColumnWidth(width float64) Option {
	return func(e *Engine) { e.columnWidth = width }
}

// NewEngine creates an engine that saves into store
func NewEngine(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		validator:   validation.NewSnapshotValidator(),
		workbooks:   NewExcelizeBuilder,
		clock:       time.Now,
		logger:      slog.Default(),
		compress:    true,
		columnWidth: DefaultColumnWidth,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(slog.String("component", "export_engine"))
	return e
}

// Serializer returns the serializer for format
func (e *Engine) Serializer(format domain.ReportFormat) (Serializer, error) {
	switch format {
	case domain.ReportFormatPDF:
		return NewDocumentSerializer(e.compress), nil
	case domain.ReportFormatExcel:
		return NewWorkbookSerializer(e.workbooks, e.columnWidth), nil
	case domain.ReportFormatCSV:
		return NewCSVSerializer(), nil
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported report format %q", format))
	}
}

// ExportDocument renders and stores the PDF report
func (e *Engine) ExportDocument(ctx context.Context, snapshot *domain.AnalyticsSnapshot) (*domain.ExportArtifact, error) {
	return e.Export(ctx, domain.ReportFormatPDF, snapshot)
}

// ExportWorkbook renders and stores the six-sheet XLSX report
func (e *Engine) ExportWorkbook(ctx context.Context, snapshot *domain.AnalyticsSnapshot) (*domain.ExportArtifact, error) {
	return e.Export(ctx, domain.ReportFormatExcel, snapshot)
}

// ExportCSV renders and stores the CSV report
func (e *Engine) ExportCSV(ctx context.Context, snapshot *domain.AnalyticsSnapshot) (*domain.ExportArtifact, error) {
	return e.Export(ctx, domain.ReportFormatCSV, snapshot)
}

// Export validates snapshot, renders it completely in memory and only then
// saves it. Any failure before the save leaves storage untouched.
func (e *Engine) Export(ctx context.Context, format domain.ReportFormat, snapshot *domain.AnalyticsSnapshot) (*domain.ExportArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	serializer, err := e.Serializer(format)
	if err != nil {
		return nil, err
	}

	if err := e.validator.Validate(snapshot); err != nil {
		e.logger.WarnContext(ctx, "Snapshot rejected",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return nil, err
	}

	now := e.clock()
	rpt, err := report.Build(snapshot, now)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	info, err := serializer.Serialize(rpt, &buf)
	if err != nil {
		if _, ok := apperrors.TypeOf(err); ok {
			return nil, err
		}
		return nil, apperrors.NewFormattingError(fmt.Sprintf("failed to render %s report", format), err)
	}

	name := FileName(format, now)
	obj, err := e.store.Save(ctx, name, buf.Bytes())
	if err != nil {
		return nil, err
	}

	artifact := &domain.ExportArtifact{
		ID:          uuid.New().String(),
		Format:      format,
		FileName:    name,
		Location:    obj.Location,
		Size:        obj.Size,
		PageCount:   info.PageCount,
		Sheets:      info.Sheets,
		DateRange:   snapshot.DateRange,
		GeneratedAt: now,
	}

	e.logger.InfoContext(ctx, "Report exported",
		slog.String("format", string(format)),
		slog.String("file_name", name),
		slog.Int64("size_bytes", obj.Size),
		slog.String("artifact_id", artifact.ID))

	return artifact, nil
}
