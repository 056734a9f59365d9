package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"

	domainauth "github.com/confide/confide/internal/domain/auth"
	"github.com/confide/confide/internal/domain/model"
)

// BeginInput carries inputs for initiating a federated auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// UserStore provides account persistence. All lookups are keyed by email;
// uniqueness is enforced by the store itself.
type UserStore interface {
	// FindByEmail returns the user row for email, or data.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateLocal inserts a locally registered user with a password hash.
	// A duplicate email yields data.ErrEmailTaken.
	CreateLocal(ctx context.Context, email, passwordHash string) (*model.User, error)

	// FindOrCreateFederated returns the existing row for email or inserts a
	// new one with no local password. Concurrent calls for the same new
	// email must resolve to a single row.
	FindOrCreateFederated(ctx context.Context, email string) (*model.User, error)

	// UpdateSecret replaces the user's secret (last write wins) and returns
	// the updated row.
	UpdateSecret(ctx context.Context, email, secret string) (*model.User, error)
}

// PasswordHasher produces and verifies salted one-way password digests.
type PasswordHasher interface {
	// Hash returns a salted digest; two calls with the same input differ.
	Hash(ctx context.Context, plaintext string) (string, error)

	// Verify reports whether plaintext matches digest. A mismatch is
	// (false, nil); only a malformed digest produces an error.
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}
