package services

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"retailreports/internal/storage"
	"retailreports/pkg/contracts/domain"
)

// MockHistoryRecorder is a mock for HistoryRecorder
type MockHistoryRecorder struct {
	mock.Mock
}

func (m *MockHistoryRecorder) Record(ctx context.Context, artifact *domain.ExportArtifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockHistoryRecorder) Recent(ctx context.Context, limit int) ([]domain.ExportArtifact, error) {
	args := m.Called(ctx, limit)
	artifacts, _ := args.Get(0).([]domain.ExportArtifact)
	return artifacts, args.Error(1)
}

// MockReportExporter is a mock for ReportExporter
type MockReportExporter struct {
	mock.Mock
}

func (m *MockReportExporter) Export(ctx context.Context, format domain.ReportFormat, snapshot *domain.AnalyticsSnapshot) (*domain.ExportArtifact, error) {
	args := m.Called(ctx, format, snapshot)
	artifact, _ := args.Get(0).(*domain.ExportArtifact)
	return artifact, args.Error(1)
}

// MockStore is a mock for storage.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, name string, data []byte) (storage.Object, error) {
	args := m.Called(ctx, name, data)
	return args.Get(0).(storage.Object), args.Error(1)
}

func (m *MockStore) Open(ctx context.Context, name string) (io.ReadCloser, storage.Object, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.Object), args.Error(2)
}

func (m *MockStore) List(ctx context.Context) ([]storage.Object, error) {
	args := m.Called(ctx)
	objects, _ := args.Get(0).([]storage.Object)
	return objects, args.Error(1)
}
