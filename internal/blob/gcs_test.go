package blob

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestGCSResolveThumbnailURL(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	ctx := context.Background()
	g, err := NewGCS(ctx, "shramba-test", 15*time.Minute,
		[]option.ClientOption{option.WithoutAuthentication()},
		WithSigningKey("signer@example.iam.gserviceaccount.com", pemKey),
	)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })

	raw, err := g.ResolveThumbnailURL(ctx, "tenant/item/id/file-thumb.jpg")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "GOOG4-RSA-SHA256", q.Get("X-Goog-Algorithm"))
	assert.NotEmpty(t, q.Get("X-Goog-Signature"))
	assert.Contains(t, u.Path, "tenant/item/id/file-thumb.jpg")
}
