package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// GCSScheme prefixes paths that live in a Google Cloud Storage bucket.
const GCSScheme = "gs://"

// ErrInvalidPath is returned for paths that cannot be mapped onto a backend.
var ErrInvalidPath = errors.New("invalid storage path")

// Storage reads and writes the playlist and CSV files handled by the tool.
type Storage interface {
	GetReader(path string) (io.ReadCloser, error)

	GetWriter(path string) (io.WriteCloser, error)

	FileExists(path string) bool

	Close() error
}

// IsGCSPath reports whether path points into a GCS bucket.
func IsGCSPath(path string) bool {
	return strings.HasPrefix(path, GCSScheme)
}

// For returns the backend serving path: GCS for gs:// paths, the local
// filesystem otherwise.
func For(ctx context.Context, path, credentialsFile string) (Storage, error) {
	if IsGCSPath(path) {
		return NewGCSStorage(ctx, credentialsFile)
	}
	return NewLocalFileStorage(), nil
}
