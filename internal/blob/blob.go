// Package blob stores image files and hands out URLs for reading them.
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/shramba/internal/model"
)

// Bucket is a flat object store addressed by slash-separated keys.
type Bucket interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// ResolveThumbnailURL returns a time-limited URL for reading key.
	ResolveThumbnailURL(ctx context.Context, key string) (string, error)
}

// Variant names a stored rendition of an image.
type Variant string

// Image variants.
const (
	VariantFull  Variant = "full"
	VariantThumb Variant = "thumb"
)

// ImageKey returns the key of one variant of an uploaded image. Keys are
// grouped by tenant and owning entity.
func ImageKey(tenant model.TenantID, ref model.EntityRef, file uuid.UUID, v Variant) string {
	return fmt.Sprintf("%s/%s/%s/%s-%s.jpg", tenant, ref.Type, ref.ID, file, v)
}

// contentTypeForKey guesses a content type from the key's extension.
func contentTypeForKey(key string) string {
	s := strings.ToLower(key)
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	default:
		return ""
	}
}
