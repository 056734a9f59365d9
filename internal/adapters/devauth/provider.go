package devauth

// Package devauth provides a simple, config-driven AuthProvider for local
// development. It short-circuits the OAuth flow by redirecting back to our
// own callback with locally generated state and nonce; Exchange ignores
// the code and returns the configured identity.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/confide/confide/internal/domain/auth"
	"github.com/confide/confide/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	Email           string
	Name            string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development.
type Provider struct {
	email           string
	name            string
	sessionDuration time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		email:           cfg.Email,
		name:            cfg.Name,
		sessionDuration: dur,
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// Our standard handler expects GET /auth/google/secrets?code=...&state=...
	authURL := "/auth/google/secrets?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by the
// handler) and returns the configured dev identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	return domainauth.Identity{
		Email:     p.email,
		Name:      p.name,
		ExpiresAt: time.Now().Add(p.sessionDuration),
	}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
