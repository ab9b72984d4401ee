package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/erazemk/shramba/internal/model"
)

// GCS stores objects in a Google Cloud Storage bucket and resolves V4 signed
// URLs.
type GCS struct {
	client *storage.Client
	bucket string
	ttl    time.Duration

	accessID   string
	privateKey []byte
}

// GCSOption configures a GCS bucket.
type GCSOption func(*GCS)

// WithSigningKey signs URLs with an explicit service account key instead of
// the client's credentials.
func WithSigningKey(accessID string, pemKey []byte) GCSOption {
	return func(g *GCS) {
		g.accessID = accessID
		g.privateKey = pemKey
	}
}

// NewGCS creates a storage client and returns a GCS bucket using it.
func NewGCS(ctx context.Context, bucket string, ttl time.Duration, clientOpts []option.ClientOption, opts ...GCSOption) (*GCS, error) {
	clientOpts = append(clientOpts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	g := &GCS{client: client, bucket: bucket, ttl: ttl}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Close releases the storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}

// Put uploads the object.
func (g *GCS) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = contentTypeForKey(key)
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("writing object to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing GCS writer: %w", err)
	}
	return nil
}

// Open returns a reader for the object.
func (g *GCS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("object %q: %w", key, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("opening GCS reader: %w", err)
	}
	return r, nil
}

// Delete removes the object.
func (g *GCS) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("object %q: %w", key, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting GCS object %q in bucket %q: %w", key, g.bucket, err)
	}
	return nil
}

// ResolveThumbnailURL returns a V4 signed GET URL valid for the bucket's TTL.
func (g *GCS) ResolveThumbnailURL(_ context.Context, key string) (string, error) {
	u, err := g.client.Bucket(g.bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         http.MethodGet,
		Expires:        time.Now().Add(g.ttl),
		GoogleAccessID: g.accessID,
		PrivateKey:     g.privateKey,
	})
	if err != nil {
		return "", fmt.Errorf("signing URL for %q: %w", key, err)
	}
	return u, nil
}
