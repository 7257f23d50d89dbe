// Package history keeps a SQLite ledger of every report artifact the engine
// has persisted, newest first.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	apperrors "retailreports/internal/errors"
	"retailreports/pkg/contracts/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exports (
	id           TEXT PRIMARY KEY,
	format       TEXT NOT NULL,
	file_name    TEXT NOT NULL,
	location     TEXT NOT NULL,
	size         INTEGER NOT NULL,
	page_count   INTEGER NOT NULL DEFAULT 0,
	sheets       TEXT NOT NULL DEFAULT '[]',
	date_range   TEXT NOT NULL,
	generated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exports_generated_at ON exports(generated_at);
`

// timeLayout is fixed-width so generated_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const insertSQL = `INSERT INTO exports
	(id, format, file_name, location, size, page_count, sheets, date_range, generated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const recentSQL = `SELECT id, format, file_name, location, size, page_count, sheets, date_range, generated_at
	FROM exports ORDER BY generated_at DESC, rowid DESC LIMIT ?`

// Ledger records export artifacts in SQLite
type Ledger struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the ledger database at path and applies the schema
func Open(ctx context.Context, path string, logger *slog.Logger) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, apperrors.NewPersistenceError("failed to create history directory", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to open history database", err)
	}
	// A single connection serialises writers from concurrent exports
	db.SetMaxOpenConns(1)

	ledger := New(db, logger)
	if err := ledger.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ledger, nil
}

// New wraps an existing database handle without touching its schema
func New(db *sql.DB, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{db: db, logger: logger.With(slog.String("component", "history"))}
}

// Migrate creates the exports table if it does not exist
func (l *Ledger) Migrate(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schemaSQL); err != nil {
		return apperrors.NewPersistenceError("failed to create history schema", err)
	}
	return nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record appends one artifact to the ledger
func (l *Ledger) Record(ctx context.Context, artifact *domain.ExportArtifact) error {
	if artifact == nil {
		return apperrors.NewPreconditionError("artifact is required")
	}

	sheets, err := json.Marshal(nonNil(artifact.Sheets))
	if err != nil {
		return apperrors.NewPersistenceError("failed to encode sheet names", err)
	}

	_, err = l.db.ExecContext(ctx, insertSQL,
		artifact.ID,
		string(artifact.Format),
		artifact.FileName,
		artifact.Location,
		artifact.Size,
		artifact.PageCount,
		string(sheets),
		artifact.DateRange,
		artifact.GeneratedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("failed to record export %s", artifact.FileName), err)
	}

	l.logger.DebugContext(ctx, "export recorded",
		slog.String("id", artifact.ID),
		slog.String("file_name", artifact.FileName))
	return nil
}

// Recent returns up to limit artifacts, newest first
func (l *Ledger) Recent(ctx context.Context, limit int) ([]domain.ExportArtifact, error) {
	if limit <= 0 {
		return nil, apperrors.NewAppValidationError("limit must be positive")
	}

	rows, err := l.db.QueryContext(ctx, recentSQL, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query export history", err)
	}
	defer func() { _ = rows.Close() }()

	artifacts := make([]domain.ExportArtifact, 0, min(limit, 64))
	for rows.Next() {
		var (
			a           domain.ExportArtifact
			format      string
			sheets      string
			generatedAt string
		)
		if err := rows.Scan(&a.ID, &format, &a.FileName, &a.Location, &a.Size,
			&a.PageCount, &sheets, &a.DateRange, &generatedAt); err != nil {
			return nil, apperrors.NewPersistenceError("failed to read export history", err)
		}

		a.Format = domain.ReportFormat(format)
		if err := json.Unmarshal([]byte(sheets), &a.Sheets); err != nil {
			return nil, apperrors.NewPersistenceError("failed to decode sheet names", err)
		}
		if len(a.Sheets) == 0 {
			a.Sheets = nil
		}
		a.GeneratedAt, err = time.Parse(timeLayout, generatedAt)
		if err != nil {
			return nil, apperrors.NewPersistenceError("failed to parse export time", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to read export history", err)
	}
	return artifacts, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
