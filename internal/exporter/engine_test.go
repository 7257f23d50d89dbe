package exporter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailreports/internal/errors"
	"retailreports/internal/shared/testutil"
	"retailreports/internal/storage"
	"retailreports/pkg/contracts/domain"
)

func setupTestEngine(t *testing.T, opts ...Option) (*Engine, string) {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	dir := filepath.Join(t.TempDir(), "reports")
	store, err := storage.NewLocalStore(dir, logger)
	require.NoError(t, err)

	base := []Option{
		WithClock(testutil.FixedClock()),
		WithLogger(logger),
		WithCompression(false),
	}
	return NewEngine(store, append(base, opts...)...), dir
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestFileName(t *testing.T) {
	day := time.Date(2025, time.January, 20, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, "Reports20250120.pdf", FileName(domain.ReportFormatPDF, day))
	assert.Equal(t, "Reports20250120.xlsx", FileName(domain.ReportFormatExcel, day))
	assert.Equal(t, "Reports20250120.csv", FileName(domain.ReportFormatCSV, day))
}

func TestEngine_ExportDocument(t *testing.T) {
	engine, dir := setupTestEngine(t)
	snapshot := testutil.SampleSnapshot()

	artifact, err := engine.ExportDocument(context.Background(), &snapshot)
	require.NoError(t, err)

	assert.Equal(t, domain.ReportFormatPDF, artifact.Format)
	assert.Equal(t, "Reports20250120.pdf", artifact.FileName)
	assert.Equal(t, filepath.Join(dir, "Reports20250120.pdf"), artifact.Location)
	assert.Equal(t, 3, artifact.PageCount)
	assert.Equal(t, testutil.FixedExportTime, artifact.GeneratedAt)
	assert.NotEmpty(t, artifact.ID)

	data, err := os.ReadFile(artifact.Location)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, int64(len(data)), artifact.Size)
}

func TestEngine_ExportWorkbook(t *testing.T) {
	engine, dir := setupTestEngine(t)
	snapshot := testutil.SampleSnapshot()

	artifact, err := engine.ExportWorkbook(context.Background(), &snapshot)
	require.NoError(t, err)

	assert.Equal(t, "Reports20250120.xlsx", artifact.FileName)
	assert.Equal(t, []string{
		"KPI Summary",
		"Category Performance",
		"Transactions",
		"Best Sellers",
		"Staff Performance",
		"Peak Hours",
	}, artifact.Sheets)
	assert.Equal(t, []string{"Reports20250120.xlsx"}, listDir(t, dir))
}

func TestEngine_ExportCSV(t *testing.T) {
	engine, _ := setupTestEngine(t)
	snapshot := testutil.SampleSnapshot()

	artifact, err := engine.ExportCSV(context.Background(), &snapshot)
	require.NoError(t, err)
	assert.Equal(t, "Reports20250120.csv", artifact.FileName)

	data, err := os.ReadFile(artifact.Location)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Contains(t, string(data), "$1,500")
}

func TestEngine_PreconditionsWriteNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.AnalyticsSnapshot)
	}{
		{"empty staff performance", func(s *domain.AnalyticsSnapshot) { s.StaffPerformance = []domain.StaffPerformance{} }},
		{"zero transaction count", func(s *domain.AnalyticsSnapshot) { s.PeakHours[2].TransactionCount = 0 }},
		{"empty categories", func(s *domain.AnalyticsSnapshot) { s.Categories = nil }},
	}

	for _, tt := range tests {
		for _, format := range domain.AllReportFormats {
			t.Run(tt.name+"/"+string(format), func(t *testing.T) {
				engine, dir := setupTestEngine(t)
				snapshot := testutil.SampleSnapshot()
				tt.mutate(&snapshot)

				artifact, err := engine.Export(context.Background(), format, &snapshot)
				require.Error(t, err)
				assert.Nil(t, artifact)
				assert.True(t, apperrors.IsPrecondition(err), err.Error())
				assert.Empty(t, listDir(t, dir))
			})
		}
	}
}

func TestEngine_EmptyDisplayStringsExport(t *testing.T) {
	for _, format := range domain.AllReportFormats {
		t.Run(string(format), func(t *testing.T) {
			engine, dir := setupTestEngine(t)
			snapshot := testutil.SampleSnapshot()
			snapshot.DateRange = ""
			snapshot.Transactions[0].ID = ""
			snapshot.StaffPerformance[0].Name = ""

			artifact, err := engine.Export(context.Background(), format, &snapshot)
			require.NoError(t, err)
			assert.Equal(t, FileName(format, testutil.FixedExportTime), artifact.FileName)
			assert.Len(t, listDir(t, dir), 1)
		})
	}
}

func TestEngine_SameDayExportsShareFileName(t *testing.T) {
	morning := time.Date(2025, time.January, 20, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.January, 20, 21, 30, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		if calls == 1 {
			return morning
		}
		return evening
	}

	engine, dir := setupTestEngine(t, WithClock(clock))
	snapshot := testutil.SampleSnapshot()

	first, err := engine.ExportDocument(context.Background(), &snapshot)
	require.NoError(t, err)
	second, err := engine.ExportDocument(context.Background(), &snapshot)
	require.NoError(t, err)

	assert.Equal(t, first.FileName, second.FileName)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, []string{"Reports20250120.pdf"}, listDir(t, dir))
}

func TestEngine_CancelledContext(t *testing.T) {
	engine, dir := setupTestEngine(t)
	snapshot := testutil.SampleSnapshot()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.ExportWorkbook(ctx, &snapshot)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, listDir(t, dir))
}

func TestEngine_UnsupportedFormat(t *testing.T) {
	engine, _ := setupTestEngine(t)
	snapshot := testutil.SampleSnapshot()

	_, err := engine.Export(context.Background(), "docx", &snapshot)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

type failingStore struct {
	storage.Store
}

func (failingStore) Save(context.Context, string, []byte) (storage.Object, error) {
	return storage.Object{}, apperrors.NewPersistenceError("disk full", nil)
}

func TestEngine_PersistenceFailure(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	engine := NewEngine(failingStore{}, WithLogger(logger), WithClock(testutil.FixedClock()))
	snapshot := testutil.SampleSnapshot()

	_, err := engine.ExportDocument(context.Background(), &snapshot)
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
}

// brokenWriteBuilder fails when the finished workbook is written out
type brokenWriteBuilder struct {
	*recordingBuilder
}

func (brokenWriteBuilder) WriteTo(io.Writer) (int64, error) {
	return 0, errors.New("zip writer closed")
}

func TestEngine_WorkbookWriteFailureIsFormatting(t *testing.T) {
	engine, dir := setupTestEngine(t, WithWorkbookFactory(func() WorkbookBuilder {
		return brokenWriteBuilder{newRecordingBuilder()}
	}))
	snapshot := testutil.SampleSnapshot()

	_, err := engine.ExportWorkbook(context.Background(), &snapshot)

	require.Error(t, err)
	assert.True(t, apperrors.IsFormatting(err))
	assert.Empty(t, listDir(t, dir))
}
