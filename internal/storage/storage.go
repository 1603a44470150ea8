// Package storage publishes built site trees to S3-compatible object storage.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions are per-object upload settings. Size is the exact byte
// count, or -1 when unknown.
type PutObjectOptions struct {
	Size         int64
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// ObjectInfo describes an uploaded object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// Storage is the object store used for published builds.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for reading key without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
