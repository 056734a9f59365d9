package httpx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/confide/confide/internal/domain/auth"
)

const (
	sessionCookieName    = "session_id"
	oauthStateCookieName = "oauth_state"
	oauthNonceCookieName = "oauth_nonce"

	// oauthCookieMaxAge bounds how long an in-flight provider round trip
	// may take before the state/nonce cookies expire.
	oauthCookieMaxAge = 600
)

// SessionCookies signs and verifies the session cookie. The cookie value
// is the session ID plus an HMAC-SHA256 tag over it, so a client cannot
// mint or alter a session reference without the server key. A cookie that
// fails verification is treated the same as no cookie at all.
type SessionCookies struct {
	secret []byte
	domain string
}

// NewSessionCookies creates a cookie manager keyed with the given secret.
func NewSessionCookies(secret, domain string) *SessionCookies {
	return &SessionCookies{secret: []byte(secret), domain: domain}
}

// token produces the signed cookie value for a session ID.
func (c *SessionCookies) token(sessionID string) string {
	return sessionID + "." + c.sign(sessionID)
}

// parseToken splits and verifies a cookie value, returning the embedded
// session ID. A malformed value or a bad signature yields ok=false.
func (c *SessionCookies) parseToken(token string) (string, bool) {
	sessionID, tag, found := strings.Cut(token, ".")
	if !found || sessionID == "" {
		return "", false
	}
	if !hmac.Equal([]byte(tag), []byte(c.sign(sessionID))) {
		return "", false
	}
	return sessionID, true
}

func (c *SessionCookies) sign(sessionID string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Set writes the signed session cookie scoped to the session's expiry.
func (c *SessionCookies) Set(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    c.token(s.ID),
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// Read extracts and verifies the session ID from the request cookie.
func (c *SessionCookies) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	return c.parseToken(cookie.Value)
}

// Clear expires the session cookie on the client.
func (c *SessionCookies) Clear(w http.ResponseWriter, r *http.Request) {
	c.clearCookie(w, r, sessionCookieName)
}

// SetOAuthCookies stores the state and nonce for an in-flight provider
// round trip. They are short-lived and cleared on callback.
func (c *SessionCookies) SetOAuthCookies(w http.ResponseWriter, r *http.Request, state, nonce string) {
	isSecure := isSecureRequest(r)
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   oauthCookieMaxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     oauthNonceCookieName,
		Value:    nonce,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   oauthCookieMaxAge,
	})
}

// ClearOAuthCookies removes the state and nonce cookies after the
// callback has consumed them.
func (c *SessionCookies) ClearOAuthCookies(w http.ResponseWriter, r *http.Request) {
	c.clearCookie(w, r, oauthStateCookieName)
	c.clearCookie(w, r, oauthNonceCookieName)
}

// clearCookie mirrors the attributes used when setting cookies so the
// deletion is honored across browsers.
func (c *SessionCookies) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
