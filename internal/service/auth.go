package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/confide/confide/internal/data"
	domainauth "github.com/confide/confide/internal/domain/auth"
	"github.com/confide/confide/internal/domain/model"
	"github.com/confide/confide/internal/ports"
)

// DefaultSessionTTL bounds session lifetime when no TTL is configured.
const DefaultSessionTTL = 8 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Users    ports.UserStore
	Sessions ports.SessionStore
	Hasher   ports.PasswordHasher
	Logger   *slog.Logger

	// SessionTTL is the lifetime of sessions issued on login; zero means
	// DefaultSessionTTL.
	SessionTTL time.Duration

	// RejectFederatedLocalConflict makes a federated login fail when the
	// email already has local credentials instead of silently logging in
	// as that account.
	RejectFederatedLocalConflict bool
}

// AuthService orchestrates local and federated authentication flows by
// coordinating the identity provider, password hasher, user store, and
// session persistence.
type AuthService struct {
	provider       ports.AuthProvider
	users          ports.UserStore
	sessions       ports.SessionStore
	hasher         ports.PasswordHasher
	logger         *slog.Logger
	sessionTTL     time.Duration
	rejectConflict bool
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:       opts.Provider,
		users:          opts.Users,
		sessions:       opts.Sessions,
		hasher:         opts.Hasher,
		logger:         logger,
		sessionTTL:     ttl,
		rejectConflict: opts.RejectFederatedLocalConflict,
	}
}

// LoginResult contains the session established by a successful login.
type LoginResult struct {
	Session domainauth.Session
}

// Register creates a local account and starts a session for it.
// A duplicate email yields ErrEmailTaken and leaves the existing row
// untouched.
func (s *AuthService) Register(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateLocal(ctx, email, hash)
	if err != nil {
		if errors.Is(err, data.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.startSession(ctx, *user)
}

// LoginLocal verifies an email/password pair and starts a session.
//
// Unknown email, a federated-only account, and a wrong password all
// yield ErrInvalidCredentials so callers cannot tell them apart. Hasher
// failures on a corrupt stored digest are logged and wrapped; the caller
// sees only a generic error.
func (s *AuthService) LoginLocal(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.HasLocalPassword() {
		// Account exists but was created through federated login; there is
		// no password that could match, not even the empty string.
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, password, *user.PasswordHash)
	if err != nil {
		s.logger.ErrorContext(ctx, "password verification failed", "error", err)
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, *user)
}

// BeginLoginResult contains the result of beginning a federated login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginFederatedLogin initiates the federated flow and returns the
// provider auth URL with state and nonce. No local state is created.
func (s *AuthService) BeginFederatedLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteFederatedLoginInput groups parameters for completing a federated flow.
type CompleteFederatedLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteFederatedLogin exchanges the authorization code for an identity,
// resolves the account by email (creating a password-less row for a
// previously unseen address), and starts a session.
func (s *AuthService) CompleteFederatedLogin(ctx context.Context, input CompleteFederatedLoginInput) (*LoginResult, error) {
	if input.Code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", ErrFederatedAuth)
	}
	if input.State == "" {
		return nil, fmt.Errorf("%w: state parameter is required", ErrFederatedAuth)
	}
	if input.Nonce == "" {
		return nil, fmt.Errorf("%w: nonce parameter is required", ErrFederatedAuth)
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "federated exchange failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFederatedAuth, err)
	}

	if s.rejectConflict {
		existing, findErr := s.users.FindByEmail(ctx, identity.Email)
		if findErr != nil && !errors.Is(findErr, data.ErrUserNotFound) {
			return nil, fmt.Errorf("lookup user: %w", findErr)
		}
		if findErr == nil && existing.HasLocalPassword() {
			return nil, ErrFederatedLocalConflict
		}
	}

	user, err := s.users.FindOrCreateFederated(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("resolve federated user: %w", err)
	}

	return s.startSession(ctx, *user)
}

// GetSession retrieves a session by ID. The returned session holds the
// user snapshot taken at login time.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session. Unknown or already-expired session IDs are a
// no-op so repeated logouts never fail.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// startSession persists a new session carrying the full user row as it
// looks right now. Later secret updates through other sessions do not
// propagate into this snapshot.
func (s *AuthService) startSession(ctx context.Context, user model.User) (*LoginResult, error) {
	session := domainauth.Session{
		ID:        generateSessionID(),
		User:      user,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &LoginResult{Session: session}, nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// UUIDs are URL-safe and carry enough entropy for an opaque token.
	return uuid.New().String()
}
