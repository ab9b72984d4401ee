package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/model"
)

// FilesRoute is the API path local files are served under.
const FilesRoute = "/api/files/"

// Local stores objects as files below a directory. URLs point at the API's
// file route and carry a signed token naming the key.
type Local struct {
	dir     string
	baseURL string
	secret  string
	ttl     time.Duration
}

// NewLocal returns a Local bucket rooted at dir, creating it if needed.
func NewLocal(dir, baseURL, secret string, ttl time.Duration) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &Local{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		ttl:     ttl,
	}, nil
}

// path maps a key to a file below the root, rejecting keys that escape it.
func (l *Local) path(key string) (string, error) {
	p := filepath.FromSlash(key)
	if key == "" || !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: invalid key %q", model.ErrValidationFailed, key)
	}
	return filepath.Join(l.dir, p), nil
}

// Put writes the object atomically.
func (l *Local) Put(_ context.Context, key string, r io.Reader, _ string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("writing object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing object: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("storing object: %w", err)
	}
	return nil
}

// Open returns a reader for the object.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("object %q: %w", key, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("opening object: %w", err)
	}
	return f, nil
}

// Delete removes the object.
func (l *Local) Delete(_ context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("object %q: %w", key, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

// ResolveThumbnailURL returns a URL on the API's file route with a token
// valid for the bucket's TTL.
func (l *Local) ResolveThumbnailURL(_ context.Context, key string) (string, error) {
	if _, err := l.path(key); err != nil {
		return "", err
	}
	token, err := auth.GenerateFileToken(l.secret, key, l.ttl)
	if err != nil {
		return "", err
	}

	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return l.baseURL + FilesRoute + strings.Join(segments, "/") + "?token=" + url.QueryEscape(token), nil
}

// VerifyToken checks a token presented for key.
func (l *Local) VerifyToken(key, token string) error {
	if err := auth.ValidateFileToken(l.secret, token, key); err != nil {
		return fmt.Errorf("%w: %v", model.ErrValidationFailed, err)
	}
	return nil
}
