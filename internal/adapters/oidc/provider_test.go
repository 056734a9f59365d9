package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confide/confide/internal/ports"
)

// newDiscoveryServer serves a minimal OIDC discovery document whose issuer
// matches the server's own URL, which is what go-oidc requires.
func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		doc := map[string]string{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/auth",
			"token_endpoint":         srv.URL + "/token",
			"userinfo_endpoint":      srv.URL + "/userinfo",
			"jwks_uri":               srv.URL + "/jwks",
		}
		_ = json.NewEncoder(w).Encode(doc)
	})
	srv = httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	srv := newDiscoveryServer(t)
	provider, err := NewProvider(ProviderConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/google/secrets",
		Scope:        "openid profile email",
		Issuer:       srv.URL,
	})
	require.NoError(t, err)
	return provider
}

func TestNewProvider_Success(t *testing.T) {
	srv := newDiscoveryServer(t)

	provider, err := NewProvider(ProviderConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/google/secrets",
		Scope:        "openid profile email",
		Issuer:       srv.URL,
	})
	require.NoError(t, err)
	assert.NotNil(t, provider)
	assert.Equal(t, srv.URL+"/auth", provider.config.Endpoint.AuthURL)
	assert.Equal(t, srv.URL+"/token", provider.config.Endpoint.TokenURL)
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{
			name: "missing client ID",
			config: ProviderConfig{
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
			},
			errMsg: "client ID is required",
		},
		{
			name: "missing client secret",
			config: ProviderConfig{
				ClientID:    "client",
				RedirectURL: "http://localhost/callback",
			},
			errMsg: "client secret is required",
		},
		{
			name:   "missing redirect URL",
			config: ProviderConfig{ClientID: "client", ClientSecret: "secret"},
			errMsg: "redirect URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	provider := newTestProvider(t)

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{
		RedirectURL: "/secrets",
	})
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)
	assert.Contains(t, authURL, "state="+state)
	assert.Contains(t, authURL, "nonce="+nonce)
	assert.Contains(t, authURL, "scope=openid+profile+email")
	assert.Contains(t, authURL, "prompt=select_account")
}

func TestProvider_Begin_EmptyRedirectURL(t *testing.T) {
	provider := newTestProvider(t)

	_, _, _, err := provider.Begin(context.Background(), ports.BeginInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestProvider_Begin_FreshStatePerCall(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	in := ports.BeginInput{RedirectURL: "/secrets"}

	_, state1, nonce1, err := provider.Begin(ctx, in)
	require.NoError(t, err)
	_, state2, nonce2, err := provider.Begin(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, state1, state2)
	assert.NotEqual(t, nonce1, nonce2)
}

func TestProvider_Exchange_ValidationErrors(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		in     ports.ExchangeInput
		errMsg string
	}{
		{name: "missing code", in: ports.ExchangeInput{State: "s", Nonce: "n"}, errMsg: "authorization code is required"},
		{name: "missing state", in: ports.ExchangeInput{Code: "c", Nonce: "n"}, errMsg: "state is required"},
		{name: "missing nonce", in: ports.ExchangeInput{Code: "c", State: "s"}, errMsg: "nonce is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.Exchange(ctx, tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGenerateRandomString(t *testing.T) {
	for _, n := range []int{0, 1, 24, 32} {
		s, err := generateRandomString(n)
		require.NoError(t, err)
		assert.Len(t, s, n)
		assert.False(t, strings.ContainsAny(s, "+/="), "must be URL-safe")
	}
}

func TestProvider_ImplementsInterface(t *testing.T) {
	var _ ports.AuthProvider = (*Provider)(nil)
}

func TestGetIDTokenFromToken(t *testing.T) {
	_, err := getIDTokenFromToken(nil)
	assert.Error(t, err)
}

func Test_mapIDTokenClaims(t *testing.T) {
	f := mapIDTokenClaims(idTokenClaims{
		Sub:   "g-123",
		Email: "user@gmail.com",
		Name:  "User Example",
	})
	assert.Equal(t, "user@gmail.com", f.email)
	assert.Equal(t, "User Example", f.name)

	// Falls back to given/family name when the composite name is absent.
	f = mapIDTokenClaims(idTokenClaims{
		Email:      "u@gmail.com",
		GivenName:  "First",
		FamilyName: "Last",
	})
	assert.Equal(t, "First Last", f.name)
}

func Test_fillFromUserInfoClaims(t *testing.T) {
	f := idFields{}
	fillFromUserInfoClaims(&f, UserInfo{
		Subject: "g-123",
		Email:   "info@gmail.com",
		Name:    "Info Name",
	})
	assert.Equal(t, "info@gmail.com", f.email)
	assert.Equal(t, "Info Name", f.name)

	// Existing fields are not overwritten.
	f = idFields{email: "keep@gmail.com", name: "Keep"}
	fillFromUserInfoClaims(&f, UserInfo{Email: "other@gmail.com", Name: "Other"})
	assert.Equal(t, "keep@gmail.com", f.email)
	assert.Equal(t, "Keep", f.name)
}
