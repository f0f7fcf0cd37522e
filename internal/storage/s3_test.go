package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gittranslate/gittranslate/internal/storage"
)

func TestPublicURL(t *testing.T) {
	t.Parallel()

	s, err := storage.NewS3Storage(storage.S3Config{
		AccessKey: "test",
		SecretKey: "test",
		UseSSL:    true,
	})
	require.NoError(t, err)

	assert.Equal(t,
		"https://github-podcasts.s3.amazonaws.com/abc123.wav",
		s.PublicURL("github-podcasts", "abc123.wav"))
}

func TestPublicURLCustomEndpoint(t *testing.T) {
	t.Parallel()

	s, err := storage.NewS3Storage(storage.S3Config{
		Endpoint:  "minio.internal:9000",
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"https://podcasts.minio.internal:9000/key.wav",
		s.PublicURL("podcasts", "key.wav"))
}
