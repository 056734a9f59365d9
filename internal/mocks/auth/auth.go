package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/confide/confide/internal/data"
	domainauth "github.com/confide/confide/internal/domain/auth"
	"github.com/confide/confide/internal/domain/model"
	"github.com/confide/confide/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider   = (*MockAuthProvider)(nil)
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.UserStore      = (*MemoryUserStore)(nil)
	_ ports.PasswordHasher = (*FakeHasher)(nil)
)

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL         string
	StatePrefix     string
	NoncePrefix     string
	DefaultIdentity domainauth.Identity

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultIdentity: domainauth.Identity{
			Email:     "mock.user@example.com",
			Name:      "Mock User",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	state := fmt.Sprintf("%s-%d", m.StatePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", m.NoncePrefix, m.callCount)
	return m.AuthURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	return m.DefaultIdentity, nil
}

// MemorySessionStore is an in-memory SessionStore for tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// MemoryUserStore is an in-memory UserStore keyed by email. It mirrors the
// unique-constraint semantics of the real repo, including the
// find-or-create race resolution.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*model.User
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*model.User)}
}

func (m *MemoryUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryUserStore) CreateLocal(_ context.Context, email, passwordHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return nil, data.ErrEmailTaken
	}
	m.nextID++
	hash := passwordHash
	u := &model.User{ID: m.nextID, Email: email, PasswordHash: &hash}
	m.users[email] = u
	cp := *u
	return &cp, nil
}

func (m *MemoryUserStore) FindOrCreateFederated(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[email]; ok {
		cp := *existing
		return &cp, nil
	}
	m.nextID++
	u := &model.User{ID: m.nextID, Email: email}
	m.users[email] = u
	cp := *u
	return &cp, nil
}

func (m *MemoryUserStore) UpdateSecret(_ context.Context, email, secret string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	s := secret
	u.Secret = &s
	cp := *u
	return &cp, nil
}

// Count returns the number of stored users.
func (m *MemoryUserStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// FakeHasher is a trivially reversible PasswordHasher for tests. Digests
// are "fake:" + plaintext, which keeps assertions readable and avoids the
// bcrypt cost in fast unit tests.
type FakeHasher struct {
	HashErr   error
	VerifyErr error
}

func (f *FakeHasher) Hash(_ context.Context, plaintext string) (string, error) {
	if f.HashErr != nil {
		return "", f.HashErr
	}
	return "fake:" + plaintext, nil
}

func (f *FakeHasher) Verify(_ context.Context, plaintext, digest string) (bool, error) {
	if f.VerifyErr != nil {
		return false, f.VerifyErr
	}
	return digest == "fake:"+plaintext, nil
}
