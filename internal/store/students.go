package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusadmin/campusctl/internal/blob"
	"github.com/campusadmin/campusctl/internal/client"
	"github.com/campusadmin/campusctl/internal/model"
)

// maxImageSize is the largest accepted student image.
const maxImageSize = 5 << 20 // 5MB

// allowedImageTypes is the MIME allow-list for student images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// StudentStore extends the generic store with image operations backed by
// blob storage.
type StudentStore struct {
	*Store[model.Student]
	blobs  blob.Storage
	logger *zap.Logger
}

// NewStudents creates the student resource store. blobs may be nil when
// image operations are not configured; they then fail with a validation
// error instead of touching the network.
func NewStudents(c *client.Client, blobs blob.Storage, logger *zap.Logger) *StudentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := New[model.Student](c, Config{
		Path:     "/students",
		Singular: "student",
		SortKey:  "student_id",
	}, WithLogger[model.Student](logger))

	return &StudentStore{Store: base, blobs: blobs, logger: logger}
}

// Delete removes a student and, when the record carried an image, removes
// the orphaned blob as well. Blob cleanup failures are logged, never
// propagated; the primary deletion already succeeded.
func (s *StudentStore) Delete(ctx context.Context, id string) (string, error) {
	msg, deleted, err := s.Store.Delete(ctx, id)
	if err != nil {
		return "", err
	}

	if deleted.ImageURL != "" && s.blobs != nil {
		if key := s.blobs.KeyFromURL(deleted.ImageURL); key != "" {
			if err := s.blobs.Remove(ctx, key); err != nil {
				s.logger.Warn("removing orphaned student image",
					zap.String("student_id", id), zap.Error(err))
			}
		}
	}
	return msg, nil
}

// UpdateImage validates, uploads, and swaps a student's image. Ordering
// is upload-then-swap-then-delete-old so the record never points at a
// missing image. The new public URL is returned.
func (s *StudentStore) UpdateImage(ctx context.Context, id, filename string, data []byte, contentType string) (string, error) {
	if err := validateImage(len(data), contentType); err != nil {
		return "", err
	}
	if s.blobs == nil {
		return "", model.NewValidationError("image storage is not configured")
	}

	s.setLoading(true)
	defer s.setLoading(false)

	prior, _ := s.find(id)

	key := imageKey(id, filename)
	if err := s.blobs.Upload(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	url := s.blobs.PublicURL(key)

	resp, err := s.client.Patch(ctx, "/students/"+id+"/image", map[string]string{"image_url": url})
	if err != nil {
		return "", err
	}
	if err := resp.Err(); err != nil {
		return "", err
	}

	_, updated, err := s.decodeMutation(resp.Body)
	if err != nil {
		return "", err
	}
	s.replaceLocal(id, updated)

	if prior.ImageURL != "" {
		if oldKey := s.blobs.KeyFromURL(prior.ImageURL); oldKey != "" {
			if err := s.blobs.Remove(ctx, oldKey); err != nil {
				s.logger.Warn("removing replaced student image",
					zap.String("student_id", id), zap.Error(err))
			}
		}
	}
	return url, nil
}

// RemoveImage clears a student's image reference server-side, updates the
// local entry, and deletes the old blob. Blob deletion failures are
// logged only.
func (s *StudentStore) RemoveImage(ctx context.Context, id string) (string, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	prior, _ := s.find(id)
	oldURL := prior.ImageURL

	resp, err := s.client.Delete(ctx, "/students/"+id+"/image")
	if err != nil {
		return "", err
	}
	if err := resp.Err(); err != nil {
		return "", err
	}

	msg, updated, err := s.decodeMutation(resp.Body)
	if err != nil {
		return "", err
	}
	if updated.Key() != "" {
		s.replaceLocal(id, updated)
	} else if prior.Key() != "" {
		prior.ImageURL = ""
		s.replaceLocal(id, prior)
	}

	if oldURL != "" && s.blobs != nil {
		if oldKey := s.blobs.KeyFromURL(oldURL); oldKey != "" {
			if err := s.blobs.Remove(ctx, oldKey); err != nil {
				s.logger.Warn("removing cleared student image",
					zap.String("student_id", id), zap.Error(err))
			}
		}
	}
	return msg, nil
}

// validateImage enforces the MIME allow-list and size limit before any
// network or blob call.
func validateImage(size int, contentType string) error {
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return model.NewValidationError(
			"unsupported image type %q: allowed types are jpeg, jpg, png, webp", contentType)
	}
	if size > maxImageSize {
		return model.NewValidationError("image exceeds the 5MB size limit")
	}
	return nil
}

// imageKey builds a collision-resistant object key preserving the file
// extension.
func imageKey(id, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("students/%s-%s%s", id, uuid.NewString(), ext)
}
