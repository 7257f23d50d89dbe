package http

import (
	"context"
	"io"

	"retailreports/internal/storage"
	"retailreports/pkg/contracts/domain"
)

// ReportServiceInterface defines the export operations the handlers need
type ReportServiceInterface interface {
	Export(ctx context.Context, format domain.ReportFormat, snapshot *domain.AnalyticsSnapshot) (*domain.ExportArtifact, error)
	ExportAll(ctx context.Context, formats []domain.ReportFormat, snapshot *domain.AnalyticsSnapshot) ([]*domain.ExportArtifact, error)
	Open(ctx context.Context, name string) (io.ReadCloser, storage.Object, error)
	History(ctx context.Context, limit int) ([]domain.ExportArtifact, error)
}
