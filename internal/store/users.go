package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/shramba/internal/model"
)

var userColumns = []string{"id", "username", "password_hash", "created_at"}

// CreateUser creates a new user. A taken username is ErrConflict.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.timestamp(),
	}

	query, args, err := s.sb.
		Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Username, u.PasswordHash, u.CreatedAt).
		ToSql()
	if err != nil {
		return nil, wrap("building user insert", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, wrap("creating user", err)
	}
	return u, nil
}

// GetUser returns a user by ID.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.getUser(ctx, "getting user", sq.Eq{"id": id})
}

// GetUserByUsername returns a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, "getting user by username", sq.Eq{"username": username})
}

func (s *Store) getUser(ctx context.Context, op string, where sq.Eq) (*model.User, error) {
	query, args, err := s.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, wrap(op, err)
	}

	u := &model.User{}
	if err := s.db.GetContext(ctx, u, query, args...); err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// UpdateUserPassword updates a user's password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query, args, err := s.sb.
		Update("users").
		Set("password_hash", passwordHash).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return wrap("building password update", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap("updating user password", err)
	}
	return requireAffected("updating user password", result)
}
