package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// RevokeToken adds a token's JTI to the revocation list.
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	query, args, err := s.sb.
		Insert("revoked_tokens").
		Columns("jti", "expires_at").
		Values(jti, expiresAt.UTC()).
		Suffix("ON CONFLICT (jti) DO NOTHING").
		ToSql()
	if err != nil {
		return wrap("building token revocation", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return wrap("revoking token", err)
	}

	// Opportunistically clean up expired revocations.
	query, args, err = s.sb.Delete("revoked_tokens").Where(sq.Lt{"expires_at": s.timestamp()}).ToSql()
	if err == nil {
		_, _ = s.db.ExecContext(ctx, query, args...)
	}

	return nil
}

// IsTokenRevoked checks if a token's JTI has been revoked.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.count(ctx, "checking token revocation", "revoked_tokens", sq.Eq{"jti": jti})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
