// Package blob provides the object storage collaborator used for student
// images. The S3 implementation is compatible with any S3-compatible
// backend (AWS S3, MinIO, Supabase storage gateways, etc.)
package blob

import (
	"context"
)

// Storage is the blob storage surface the stores depend on.
type Storage interface {
	// Upload writes an object under key with the given content type.
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// PublicURL returns the publicly addressable URL for key.
	PublicURL(key string) string
	// Remove deletes the object at key.
	Remove(ctx context.Context, key string) error
	// KeyFromURL maps a public URL previously returned by PublicURL back
	// to its object key. Returns "" when the URL is not ours.
	KeyFromURL(url string) string
}
