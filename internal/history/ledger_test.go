package history

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailreports/internal/errors"
	"retailreports/internal/shared/testutil"
	"retailreports/pkg/contracts/domain"
)

func artifactAt(id string, format domain.ReportFormat, at time.Time) *domain.ExportArtifact {
	return &domain.ExportArtifact{
		ID:          id,
		Format:      format,
		FileName:    "Reports" + at.Format("20060102") + "." + format.Extension(),
		Location:    "/reports/Reports" + at.Format("20060102") + "." + format.Extension(),
		Size:        1024,
		DateRange:   "Jan 1, 2025 - Jan 20, 2025",
		GeneratedAt: at,
	}
}

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	ledger, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "history.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger
}

func TestLedger_RecordAndRecent(t *testing.T) {
	ledger := openLedger(t)
	ctx := context.Background()

	base := testutil.FixedExportTime
	workbook := artifactAt("b", domain.ReportFormatExcel, base.Add(500*time.Millisecond))
	workbook.Sheets = []string{"KPI Summary", "Category Performance"}
	document := artifactAt("a", domain.ReportFormatPDF, base)
	document.PageCount = 3
	csvFile := artifactAt("c", domain.ReportFormatCSV, base.Add(2*time.Second))

	for _, a := range []*domain.ExportArtifact{document, workbook, csvFile} {
		require.NoError(t, ledger.Record(ctx, a))
	}

	got, err := ledger.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"c", "b", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, workbook.Sheets, got[1].Sheets)
	assert.Nil(t, got[2].Sheets)
	assert.Equal(t, 3, got[2].PageCount)
	assert.Equal(t, domain.ReportFormatPDF, got[2].Format)
	assert.True(t, base.Equal(got[2].GeneratedAt))

	limited, err := ledger.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "c", limited[0].ID)
}

func TestLedger_RecordDuplicateID(t *testing.T) {
	ledger := openLedger(t)
	ctx := context.Background()

	a := artifactAt("same", domain.ReportFormatCSV, testutil.FixedExportTime)
	require.NoError(t, ledger.Record(ctx, a))

	err := ledger.Record(ctx, a)
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
}

func TestLedger_InvalidInput(t *testing.T) {
	ledger := openLedger(t)

	assert.True(t, apperrors.IsPrecondition(ledger.Record(context.Background(), nil)))

	_, err := ledger.Recent(context.Background(), 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestLedger_ReopenKeepsRows(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	first, err := Open(ctx, path, logger)
	require.NoError(t, err)
	require.NoError(t, first.Record(ctx, artifactAt("kept", domain.ReportFormatPDF, testutil.FixedExportTime)))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path, logger)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].ID)
}

func TestLedger_DatabaseFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	logger, _ := testutil.NewTestLogger(t)
	ledger := New(db, logger)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exports")).
		WillReturnError(errors.New("database is locked"))
	err = ledger.Record(ctx, artifactAt("x", domain.ReportFormatPDF, testutil.FixedExportTime))
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
	assert.Contains(t, err.Error(), "database is locked")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, format")).
		WithArgs(5).
		WillReturnError(errors.New("disk I/O error"))
	_, err = ledger.Recent(ctx, 5)
	assert.True(t, apperrors.IsPersistence(err))

	rows := sqlmock.NewRows([]string{"id", "format", "file_name", "location", "size", "page_count", "sheets", "date_range", "generated_at"}).
		AddRow("y", "pdf", "Reports20250120.pdf", "/r", 10, 1, "[]", "Jan 2025", "yesterday")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, format")).WithArgs(5).WillReturnRows(rows)
	_, err = ledger.Recent(ctx, 5)
	assert.True(t, apperrors.IsPersistence(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}
