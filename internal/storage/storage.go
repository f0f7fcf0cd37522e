package storage

import (
	"context"
	"io"
)

// Storage abstracts a durable object store holding generated audio artifacts.
type Storage interface {
	Upload(ctx context.Context, bucket, key string, data io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
}
