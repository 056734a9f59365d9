// Package mocks provides mock implementations for testing the confide auth system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// ports interfaces. The mocks are generated using go:generate directives and provide
// a fluent API for setting up test expectations. Hand-written lightweight doubles
// for the same ports live in internal/mocks/auth and cover most unit tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for UserStore interface from internal/ports.
// This creates MockUserStore with methods for all UserStore interface methods:
// FindByEmail, CreateLocal, FindOrCreateFederated, UpdateSecret
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_store_mock.go github.com/confide/confide/internal/ports UserStore

// Generate mock for AuthProvider interface from internal/ports.
// This creates MockAuthProvider with methods for Begin and Exchange.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_provider_mock.go github.com/confide/confide/internal/ports AuthProvider

// Generate mock for SessionStore interface from internal/ports.
// This creates MockSessionStore with methods for Save, Get, Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/confide/confide/internal/ports SessionStore

// Generate mock for PasswordHasher interface from internal/ports.
// This creates MockPasswordHasher with methods for Hash and Verify.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=password_hasher_mock.go github.com/confide/confide/internal/ports PasswordHasher
