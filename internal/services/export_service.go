package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	apperrors "retailreports/internal/errors"
	"retailreports/internal/infrastructure"
	"retailreports/internal/storage"
	"retailreports/pkg/contracts/domain"
)

// ReportExporter renders and persists one report format
type ReportExporter interface {
	Export(ctx context.Context, format domain.ReportFormat, snapshot *domain.AnalyticsSnapshot) (*domain.ExportArtifact, error)
}

// HistoryRecorder keeps a ledger of produced artifacts
type HistoryRecorder interface {
	Record(ctx context.Context, artifact *domain.ExportArtifact) error
	Recent(ctx context.Context, limit int) ([]domain.ExportArtifact, error)
}

// ExportService wraps the export engine with tracing, metrics, a per-call
// timeout and the history ledger
type ExportService struct {
	exporter ReportExporter
	store    storage.Store
	history  HistoryRecorder
	tracer   trace.Tracer
	metrics  *infrastructure.ExportMetrics
	timeout  time.Duration
	logger   *slog.Logger
}

// ExportServiceOption configures an ExportService
type ExportServiceOption func(*ExportService)

// WithTracer sets the tracer used for export spans
func WithTracer(tracer trace.Tracer) ExportServiceOption {
	return func(s *ExportService) { s.tracer = tracer }
}

// WithMetrics sets the export instruments
func WithMetrics(metrics *infrastructure.ExportMetrics) ExportServiceOption {
	return func(s *ExportService) { s.metrics = metrics }
}

// WithHistory enables the history ledger
func WithHistory(history HistoryRecorder) ExportServiceOption {
	return func(s *ExportService) { s.history = history }
}

// WithTimeout bounds each export call. Zero disables the bound.
func WithTimeout(timeout time.Duration) ExportServiceOption {
	return func(s *ExportService) { s.timeout = timeout }
}

// NewExportService creates an export service. store serves downloads and
// the history fallback when no ledger is configured.
func NewExportService(exporter ReportExporter, store storage.Store, logger *slog.Logger, opts ...ExportServiceOption) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &ExportService{
		exporter: exporter,
		store:    store,
		tracer:   tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
		logger:   infrastructure.WithComponent(logger, "export_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export produces one format and records it in the ledger. A ledger failure
// is logged and does not fail the export.
func (s *ExportService) Export(ctx context.Context, format domain.ReportFormat, snapshot *domain.AnalyticsSnapshot) (*domain.ExportArtifact, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "report.export",
		trace.WithAttributes(attribute.String("report.format", string(format))))
	defer span.End()

	start := time.Now()
	artifact, err := s.exporter.Export(ctx, format, snapshot)
	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordExport(ctx, string(format), 0, duration, err)
		infrastructure.RecordError(ctx, err)
		s.logFailure(ctx, format, err)
		return nil, err
	}

	s.metrics.RecordExport(ctx, string(format), artifact.Size, duration, nil)
	span.SetAttributes(
		attribute.String("report.file_name", artifact.FileName),
		attribute.Int64("report.size_bytes", artifact.Size),
	)

	if s.history != nil {
		if err := s.history.Record(ctx, artifact); err != nil {
			s.logger.WarnContext(ctx, "failed to record export history",
				slog.String("file_name", artifact.FileName),
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "export completed",
		slog.String("format", string(format)),
		slog.String("file_name", artifact.FileName),
		slog.Duration("duration", duration))

	return artifact, nil
}

func (s *ExportService) logFailure(ctx context.Context, format domain.ReportFormat, err error) {
	level := slog.LevelError
	if apperrors.IsPrecondition(err) || apperrors.IsFormatting(err) || apperrors.IsType(err, apperrors.ErrTypeValidation) {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "export failed",
		slog.String("format", string(format)),
		slog.String("error", err.Error()))
}

// ExportAll renders formats concurrently. An empty list means every format.
// Results keep the order of formats. On the first failure the remaining
// exports are cancelled; artifacts already saved stay in storage.
func (s *ExportService) ExportAll(ctx context.Context, formats []domain.ReportFormat, snapshot *domain.AnalyticsSnapshot) ([]*domain.ExportArtifact, error) {
	if len(formats) == 0 {
		formats = domain.AllReportFormats
	}

	seen := make(map[domain.ReportFormat]bool, len(formats))
	for _, f := range formats {
		if seen[f] {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("format %q requested more than once", f))
		}
		seen[f] = true
	}

	ctx, span := s.tracer.Start(ctx, "report.export_all",
		trace.WithAttributes(attribute.Int("report.format_count", len(formats))))
	defer span.End()

	artifacts := make([]*domain.ExportArtifact, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			artifact, err := s.Export(gctx, format, snapshot)
			if err != nil {
				return err
			}
			artifacts[i] = artifact
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	return artifacts, nil
}

// Open returns a reader for a stored report
func (s *ExportService) Open(ctx context.Context, name string) (io.ReadCloser, storage.Object, error) {
	return s.store.Open(ctx, name)
}

// History returns up to limit recent exports. Without a ledger it lists the
// stored objects instead, which carry no ID, page count or sheet names.
func (s *ExportService) History(ctx context.Context, limit int) ([]domain.ExportArtifact, error) {
	if limit <= 0 {
		return nil, apperrors.NewAppValidationError("limit must be positive")
	}
	if s.history != nil {
		return s.history.Recent(ctx, limit)
	}

	objects, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(objects) > limit {
		objects = objects[:limit]
	}

	artifacts := make([]domain.ExportArtifact, 0, len(objects))
	for _, obj := range objects {
		format, _ := domain.ParseReportFormat(strings.TrimPrefix(path.Ext(obj.Name), "."))
		artifacts = append(artifacts, domain.ExportArtifact{
			Format:      format,
			FileName:    obj.Name,
			Location:    obj.Location,
			Size:        obj.Size,
			GeneratedAt: obj.ModTime,
		})
	}
	return artifacts, nil
}
