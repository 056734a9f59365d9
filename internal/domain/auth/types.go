package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"time"

	"github.com/confide/confide/internal/domain/model"
)

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	Email     string
	Name      string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (random UUID); the cookie value is
// the ID plus an HMAC signature produced by the HTTP layer.
//
// The session stores the full user row as it looked at login time. A
// secret updated through another session is not reflected here until the
// user re-authenticates; readers that need freshness must go back to the
// user store.
type Session struct {
	ID        string     `json:"id"`
	User      model.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
