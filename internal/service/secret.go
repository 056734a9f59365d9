package service

import (
	"context"
	"fmt"

	"github.com/confide/confide/internal/domain/model"
	"github.com/confide/confide/internal/ports"
)

// SecretService reads and writes the single per-user secret. The email
// key always comes from the caller's session identity, so a user can only
// ever touch their own row.
type SecretService struct {
	users ports.UserStore
}

// NewSecretService constructs a SecretService.
func NewSecretService(users ports.UserStore) *SecretService {
	return &SecretService{users: users}
}

// Reveal returns the user's stored secret, or the default placeholder for
// accounts that never submitted one. The read goes to the store, not the
// session snapshot, so it always reflects the latest write.
func (s *SecretService) Reveal(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	return user.RevealSecret(), nil
}

// Submit replaces the user's secret. Last write wins; there is no history.
func (s *SecretService) Submit(ctx context.Context, email, secret string) (*model.User, error) {
	user, err := s.users.UpdateSecret(ctx, email, secret)
	if err != nil {
		return nil, fmt.Errorf("update secret: %w", err)
	}
	return user, nil
}
