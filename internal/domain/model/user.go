package model

// Package model contains pure domain types for the confide system.

// DefaultSecret is shown on the secrets page for accounts that have not
// submitted a secret yet.
const DefaultSecret = "Jack Bauer is my hero!"

// User is an account row. Email is globally unique and is the key used
// for every per-user operation once a session is established.
//
// PasswordHash is nil for accounts created through federated login only;
// such accounts cannot log in with a local password. Secret is nil until
// the first submission, after which the latest value wins (no history).
type User struct {
	ID           int64   `db:"id"           json:"id"`
	Email        string  `db:"email"        json:"email"`
	PasswordHash *string `db:"password"     json:"password_hash,omitempty"`
	Secret       *string `db:"secret"       json:"secret,omitempty"`
}

// HasLocalPassword reports whether the account was registered with local
// credentials. Federated-only accounts carry no hash.
func (u User) HasLocalPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// RevealSecret returns the stored secret, or DefaultSecret when the
// account has never submitted one. A submitted empty string is a real
// value and comes back as-is; only NULL means "never submitted".
func (u User) RevealSecret() string {
	if u.Secret == nil {
		return DefaultSecret
	}
	return *u.Secret
}
