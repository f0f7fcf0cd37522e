package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds credentials and addressing for an S3-compatible store.
type S3Config struct {
	Endpoint  string // default: "s3.amazonaws.com"
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Storage uploads artifacts to S3 (or any S3-compatible endpoint).
type S3Storage struct {
	client   *minio.Client
	endpoint string
}

// NewS3Storage creates an S3Storage with sensible defaults applied.
func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "s3.amazonaws.com"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return &S3Storage{client: client, endpoint: cfg.Endpoint}, nil
}

func (s *S3Storage) Upload(ctx context.Context, bucket, key string, data io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PublicURL returns the virtual-hosted-style URL for an uploaded object.
func (s *S3Storage) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.%s/%s", bucket, s.endpoint, key)
}
