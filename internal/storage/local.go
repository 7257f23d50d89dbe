package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "retailreports/internal/errors"
	"retailreports/internal/validation"
)

const tempPrefix = ".tmp-"

// LocalStore keeps artifacts in a single directory
type LocalStore struct {
	dir    string
	logger *slog.Logger
}

// NewLocalStore creates the directory if needed and returns a store over it
func NewLocalStore(dir string, logger *slog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewPersistenceError("failed to create report directory", err)
	}
	return &LocalStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "local_store")),
	}, nil
}

// Dir returns the directory the store writes into
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes data to a temporary file in the target directory, syncs it and
// renames it over name.
func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (Object, error) {
	if !validation.IsSafeFileName(name) {
		return Object{}, apperrors.NewPersistenceError(fmt.Sprintf("invalid file name %q", name), nil)
	}
	if err := ctx.Err(); err != nil {
		return Object{}, apperrors.NewPersistenceError("save cancelled", err)
	}

	target := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, tempPrefix+name+"-*")
	if err != nil {
		return Object{}, apperrors.NewPersistenceError("failed to create temporary file", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return Object{}, apperrors.NewPersistenceError(fmt.Sprintf("failed to write %s", name), err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return Object{}, apperrors.NewPersistenceError(fmt.Sprintf("failed to sync %s", name), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Object{}, apperrors.NewPersistenceError(fmt.Sprintf("failed to close %s", name), err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return Object{}, apperrors.NewPersistenceError(fmt.Sprintf("failed to set permissions on %s", name), err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return Object{}, apperrors.NewPersistenceError(fmt.Sprintf("failed to move %s into place", name), err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return Object{}, apperrors.NewPersistenceError(fmt.Sprintf("failed to stat %s", name), err)
	}

	s.logger.InfoContext(ctx, "Report saved",
		slog.String("name", name),
		slog.String("path", target),
		slog.Int64("size_bytes", info.Size()))

	return Object{
		Name:     name,
		Location: target,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}, nil
}

// Open opens a stored report for reading
func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, Object, error) {
	if !validation.IsSafeFileName(name) {
		return nil, Object{}, apperrors.NewNotFoundError(fmt.Sprintf("report %s", name))
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Object{}, apperrors.NewNotFoundError(fmt.Sprintf("report %s", name))
	}
	if err != nil {
		return nil, Object{}, apperrors.NewPersistenceError(fmt.Sprintf("failed to open %s", name), err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Object{}, apperrors.NewPersistenceError(fmt.Sprintf("failed to stat %s", name), err)
	}
	if info.IsDir() {
		f.Close()
		return nil, Object{}, apperrors.NewNotFoundError(fmt.Sprintf("report %s", name))
	}

	s.logger.DebugContext(ctx, "Report opened", slog.String("name", name))

	return f, Object{Name: name, Location: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// List returns regular files in the directory, skipping in-flight temp files
func (s *LocalStore) List(ctx context.Context) ([]Object, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to read report directory", err)
	}

	var objects []Object
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{
			Name:     entry.Name(),
			Location: filepath.Join(s.dir, entry.Name()),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].ModTime.After(objects[j].ModTime)
	})

	s.logger.DebugContext(ctx, "Reports listed", slog.Int("count", len(objects)))
	return objects, nil
}
