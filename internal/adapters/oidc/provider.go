package oidc

// Package oidc provides the Google OIDC/OAuth2 authentication adapter for
// the confide system.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/confide/confide/internal/domain/auth"
	"github.com/confide/confide/internal/ports"
)

// GoogleIssuer is the default OIDC issuer used when no issuer is configured.
const GoogleIssuer = "https://accounts.google.com"

// Provider implements the AuthProvider interface using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	// go-oidc provider and verifier
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	Issuer       string       // defaults to GoogleIssuer
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OIDC provider. Discovery runs once at
// construction time against the issuer.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	issuer := strings.TrimSuffix(config.Issuer, "/")
	if issuer == "" {
		issuer = GoogleIssuer
	}

	p := &Provider{httpClient: httpClient}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	scope := config.Scope
	if scope == "" {
		scope = "openid profile email"
	}
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// Begin returns the provider authorization URL along with fresh state and
// nonce values. No local state is created here; the handler binds state
// and nonce to the user agent via short-lived cookies.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}

	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)

	return authURL, state, nonce, nil
}

// Exchange trades the authorization code for tokens, verifies the id_token
// nonce, and returns the identity. The token-endpoint call is retried once
// on transient transport failure; a rejection from the provider is not
// retried.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.exchangeCode(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	fields, err := p.extractFromIDToken(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}

	// Fill missing fields from UserInfo
	if fields.email == "" {
		if fillErr := p.fillFromUserInfo(ctx, token.AccessToken, &fields); fillErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}
	if fields.email == "" {
		return domainauth.Identity{}, errors.New("provider returned no email")
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Identity{
		Email:     fields.email,
		Name:      fields.name,
		ExpiresAt: expiresAt,
	}, nil
}

func (p *Provider) exchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err == nil {
		return token, nil
	}

	// An HTTP response from the token endpoint means the provider rejected
	// the code; only transport-level failures get the single retry.
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) || ctx.Err() != nil {
		return nil, err
	}
	return p.config.Exchange(ctx, code)
}

// UserInfo represents the user information from the OIDC userinfo endpoint.
type UserInfo struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

func (p *Provider) getUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	var userInfo UserInfo
	if claimsErr := ui.Claims(&userInfo); claimsErr != nil {
		return nil, fmt.Errorf("decode user info: %w", claimsErr)
	}
	return &userInfo, nil
}

// internal helper types and functions to keep Exchange small

type idFields struct {
	email string
	name  string
}

func (p *Provider) extractFromIDToken(ctx context.Context, tok *oauth2.Token, expectedNonce string) (idFields, error) {
	var f idFields
	if !p.hasOpenIDScope() {
		return f, nil
	}
	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return f, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return f, fmt.Errorf("verify id_token: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return f, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return f, errors.New("invalid nonce")
	}
	return mapIDTokenClaims(claims), nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, accessToken string, f *idFields) error {
	ui, err := p.getUserInfo(ctx, accessToken)
	if err != nil {
		return err
	}
	fillFromUserInfoClaims(f, *ui)
	return nil
}

// idTokenClaims covers the standard OIDC profile/email claim shapes Google
// returns in the id_token.
type idTokenClaims struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Nonce      string `json:"nonce"`
}

// mapIDTokenClaims maps raw id token claims into idFields.
func mapIDTokenClaims(c idTokenClaims) idFields {
	return idFields{
		email: c.Email,
		name:  firstNonEmpty(c.Name, strings.TrimSpace(c.GivenName+" "+c.FamilyName)),
	}
}

// fillFromUserInfoClaims fills missing fields from a UserInfo payload.
func fillFromUserInfoClaims(f *idFields, ui UserInfo) {
	if f.email == "" {
		f.email = ui.Email
	}
	if f.name == "" {
		f.name = firstNonEmpty(ui.Name, strings.TrimSpace(ui.GivenName+" "+ui.FamilyName))
	}
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}

// hasOpenIDScope reports whether the configured scopes include "openid".
func (p *Provider) hasOpenIDScope() bool {
	for _, sc := range p.config.Scopes {
		if sc == "openid" {
			return true
		}
	}
	return false
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
