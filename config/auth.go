package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses Google OAuth/OIDC for federated login.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses a mock identity provider (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains the Google OAuth/OIDC client configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE"  envDefault:"openid profile email"`
	// Issuer overrides the Google issuer URL, mainly for tests against a
	// local discovery server.
	Issuer string `env:"ISSUER"`
}

// DevAuthConfig controls the mock identity used when AUTH_MODE=mock.
type DevAuthConfig struct {
	Email string `env:"EMAIL" envDefault:"dev@example.com"`
	Name  string `env:"NAME"  envDefault:"Dev User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider backs federated login.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"GOOGLE_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionSecret keys the HMAC that signs session cookies. There is no
	// default; an unset value must fail startup, not silently sign with "".
	SessionSecret string `env:"AUTH_SESSION_SECRET,required"`

	// SessionTTL is the lifetime of sessions issued at login.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"8h"`

	// BcryptCost is the bcrypt work factor for local password hashing.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`

	// RejectFederatedLocal makes a Google login fail when the email
	// already has local credentials instead of signing into that account.
	RejectFederatedLocal bool `env:"AUTH_REJECT_FEDERATED_LOCAL" envDefault:"false"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 8 * time.Hour
	}
}
