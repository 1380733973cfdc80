package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage implements the Storage interface for Google Cloud Storage.
// Paths have the form gs://bucket/object.
type GCSStorage struct {
	client *storage.Client
	ctx    context.Context
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, credentialsFile string) (*GCSStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		// Use application default credentials
		client, err = storage.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client: client,
		ctx:    ctx,
	}, nil
}

// ParseGCSPath splits gs://bucket/object into its bucket and object name.
func ParseGCSPath(path string) (bucket, object string, err error) {
	if !IsGCSPath(path) {
		return "", "", fmt.Errorf("%w: %s is not a %s path", ErrInvalidPath, path, GCSScheme)
	}
	bucket, object, ok := strings.Cut(strings.TrimPrefix(path, GCSScheme), "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: %s must name a bucket and an object", ErrInvalidPath, path)
	}
	return bucket, object, nil
}

func (s *GCSStorage) object(path string) (*storage.ObjectHandle, error) {
	bucket, object, err := ParseGCSPath(path)
	if err != nil {
		return nil, err
	}
	return s.client.Bucket(bucket).Object(object), nil
}

// GetReader returns a reader for an object
func (s *GCSStorage) GetReader(path string) (io.ReadCloser, error) {
	obj, err := s.object(path)
	if err != nil {
		return nil, err
	}
	return obj.NewReader(s.ctx)
}

// GetWriter returns a writer for an object. The upload is committed on Close.
func (s *GCSStorage) GetWriter(path string) (io.WriteCloser, error) {
	obj, err := s.object(path)
	if err != nil {
		return nil, err
	}
	w := obj.NewWriter(s.ctx)
	w.ContentType = contentType(path)
	return w, nil
}

// FileExists checks if an object exists
func (s *GCSStorage) FileExists(path string) bool {
	obj, err := s.object(path)
	if err != nil {
		return false
	}
	_, err = obj.Attrs(s.ctx)
	return err == nil
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func contentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".csv"):
		return "text/csv; charset=utf-8"
	case strings.HasSuffix(path, ".m3u8"):
		return "audio/x-mpegurl"
	default:
		return "text/plain; charset=utf-8"
	}
}
