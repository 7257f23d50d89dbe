package storage

import (
	"context"
	"io"
	"time"
)

// Object describes one stored artifact
type Object struct {
	Name     string
	Location string
	Size     int64
	ModTime  time.Time
}

// Store persists artifacts by file name
type Store interface {
	// Save writes data under name, replacing any existing object
	Save(ctx context.Context, name string, data []byte) (Object, error)

	// Open returns a reader for name. Missing objects yield a NotFoundError.
	Open(ctx context.Context, name string) (io.ReadCloser, Object, error)

	// List returns stored objects, newest first
	List(ctx context.Context) ([]Object, error)
}
