package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// GeneratedPasswordLength is the length of passwords created for new accounts.
const GeneratedPasswordLength = 16

// CreateUser adds an account with a generated password and returns the
// password. Every account owns its own inventory.
func CreateUser(ctx context.Context, s *store.Store, username string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", fmt.Errorf("%w: username required", model.ErrValidationFailed)
	}

	password, err := auth.GeneratePassword(GeneratedPasswordLength)
	if err != nil {
		return nil, "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.CreateUser(ctx, username, hash)
	if err != nil {
		return nil, "", fmt.Errorf("creating user %q: %w", username, err)
	}
	return user, password, nil
}
