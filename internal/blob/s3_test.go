package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusadmin/campusctl/internal/config"
)

func validStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Endpoint:     "http://127.0.0.1:9000",
		Region:       "us-east-1",
		Bucket:       "student-images",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		UsePathStyle: true,
	}
}

func TestNewS3StorageValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.StorageConfig)
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validStorageConfig()
			tt.mutate(cfg)
			_, err := NewS3Storage(cfg)
			assert.Error(t, err)
		})
	}

	_, err := NewS3Storage(nil)
	assert.Error(t, err)
}

func TestPublicURLDefaultsToEndpointAndBucket(t *testing.T) {
	s, err := NewS3Storage(validStorageConfig())
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/student-images/students/a.jpg",
		s.PublicURL("students/a.jpg"))
}

func TestPublicURLHonorsConfiguredBase(t *testing.T) {
	cfg := validStorageConfig()
	cfg.PublicBaseURL = "https://cdn.example.edu/photos/"

	s, err := NewS3Storage(cfg)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.edu/photos/students/a.jpg",
		s.PublicURL("students/a.jpg"))
}

func TestKeyFromURLRoundTrip(t *testing.T) {
	s, err := NewS3Storage(validStorageConfig())
	require.NoError(t, err)

	key := "students/2021-00001-abc.png"
	assert.Equal(t, key, s.KeyFromURL(s.PublicURL(key)))
}

func TestKeyFromURLForeignAddress(t *testing.T) {
	s, err := NewS3Storage(validStorageConfig())
	require.NoError(t, err)

	assert.Empty(t, s.KeyFromURL("https://elsewhere.example.com/bucket/key.jpg"),
		"URLs outside our public base are not ours to delete")
}

func TestEndpointSchemeInference(t *testing.T) {
	cfg := validStorageConfig()
	cfg.Endpoint = "minio.internal:9000"
	cfg.UseSSL = true

	s, err := NewS3Storage(cfg)
	require.NoError(t, err)

	assert.Equal(t, "https://minio.internal:9000/student-images/k", s.PublicURL("k"))
}
