// Package storage provides S3-compatible object storage for automation reports.
package storage

import (
	"context"
	"io"
)

// StorageService defines the object storage operations the archiver needs.
type StorageService interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// PutObject writes size bytes from reader under fileKey.
	PutObject(ctx context.Context, bucket, fileKey, contentType string, reader io.Reader, size int64) error
}
