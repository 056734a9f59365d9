package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/confide/confide/internal/domain/auth"
)

func TestSessionCookies_TokenRoundTrip(t *testing.T) {
	c := NewSessionCookies("test-secret", "")

	token := c.token("abc-123")
	id, ok := c.parseToken(token)
	require.True(t, ok)
	assert.Equal(t, "abc-123", id)
}

func TestSessionCookies_TamperedToken(t *testing.T) {
	c := NewSessionCookies("test-secret", "")
	token := c.token("abc-123")

	tests := []struct {
		name  string
		token string
	}{
		{name: "altered session id", token: "xyz-999" + token[strings.Index(token, "."):]},
		{name: "altered signature", token: token[:len(token)-1] + "x"},
		{name: "missing signature", token: "abc-123"},
		{name: "empty session id", token: token[strings.Index(token, "."):]},
		{name: "empty value", token: ""},
		{name: "garbage", token: "not.a.real.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := c.parseToken(tt.token)
			assert.False(t, ok)
		})
	}
}

func TestSessionCookies_DifferentKeysDoNotVerify(t *testing.T) {
	a := NewSessionCookies("key-a", "")
	b := NewSessionCookies("key-b", "")

	_, ok := b.parseToken(a.token("abc-123"))
	assert.False(t, ok)
}

func TestSessionCookies_SetAndRead(t *testing.T) {
	c := NewSessionCookies("test-secret", "")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(w, r, domainauth.Session{ID: "sess-1", ExpiresAt: time.Now().Add(time.Hour)})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, sessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Positive(t, cookie.MaxAge)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookie)
	id, ok := c.Read(r2)
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)
}

func TestSessionCookies_ReadMissingCookie(t *testing.T) {
	c := NewSessionCookies("test-secret", "")
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := c.Read(r)
	assert.False(t, ok)
}

func TestSessionCookies_Clear(t *testing.T) {
	c := NewSessionCookies("test-secret", "")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	c.Clear(w, r)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestSessionCookies_OAuthCookies(t *testing.T) {
	c := NewSessionCookies("test-secret", "")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	c.SetOAuthCookies(w, r, "state-val", "nonce-val")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	byName := map[string]*http.Cookie{}
	for _, ck := range cookies {
		byName[ck.Name] = ck
	}
	require.Contains(t, byName, oauthStateCookieName)
	require.Contains(t, byName, oauthNonceCookieName)
	assert.Equal(t, "state-val", byName[oauthStateCookieName].Value)
	assert.Equal(t, "nonce-val", byName[oauthNonceCookieName].Value)
	assert.Equal(t, oauthCookieMaxAge, byName[oauthStateCookieName].MaxAge)

	w2 := httptest.NewRecorder()
	c.ClearOAuthCookies(w2, r)
	for _, ck := range w2.Result().Cookies() {
		assert.Equal(t, -1, ck.MaxAge)
	}
}

func TestSessionCookies_SecureOnForwardedHTTPS(t *testing.T) {
	c := NewSessionCookies("test-secret", "")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	c.Set(w, r, domainauth.Session{ID: "sess-1", ExpiresAt: time.Now().Add(time.Hour)})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}
