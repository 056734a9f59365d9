package service

import "errors"

// Sentinel errors surfaced by the auth and secret services. Handlers map
// these to redirects; the messages are never shown to end users.
var (
	// ErrInvalidCredentials covers every local-login failure: unknown
	// email, federated-only account, and wrong password. Collapsing them
	// keeps the login endpoint unusable for account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrFederatedAuth is returned when the identity provider exchange or
	// profile fetch fails. No user row is created in that case.
	ErrFederatedAuth = errors.New("federated authentication failed")

	// ErrFederatedLocalConflict is returned, only when the conflict policy
	// is enabled, for a federated login whose email already has local
	// credentials.
	ErrFederatedLocalConflict = errors.New("account already has local credentials")
)

var errSessionExpired = errors.New("session expired")
