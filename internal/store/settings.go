package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const jwtSecretKey = "jwt_secret"

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses insert-if-absent + re-select to avoid a race on concurrent startup.
func (s *Store) GetJWTSecret(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	query, args, err := s.sb.
		Insert("settings").
		Columns("key", "value").
		Values(jwtSecretKey, candidate).
		Suffix("ON CONFLICT (key) DO NOTHING").
		ToSql()
	if err != nil {
		return "", wrap("building settings insert", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", wrap("storing jwt_secret", err)
	}

	// Always read back (either our insert or the existing value).
	query, args, err = s.sb.Select("value").From("settings").Where(sq.Eq{"key": jwtSecretKey}).ToSql()
	if err != nil {
		return "", wrap("building settings query", err)
	}
	var secret string
	if err := s.db.GetContext(ctx, &secret, query, args...); err != nil {
		return "", wrap("querying jwt_secret", err)
	}
	return secret, nil
}
