package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	mockauth "github.com/confide/confide/internal/mocks/auth"
	"github.com/confide/confide/internal/service"
)

// testEnv bundles a fully wired router with the in-memory doubles behind
// it so tests can both drive HTTP requests and inspect state.
type testEnv struct {
	Router   http.Handler
	Users    *mockauth.MemoryUserStore
	Sessions *mockauth.MemorySessionStore
	Provider *mockauth.MockAuthProvider
	Cookies  *SessionCookies
	Auth     *service.AuthService
}

// newTestEnv wires the router against in-memory stores and a fake
// identity provider.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := mockauth.NewMemoryUserStore()
	sessions := mockauth.NewMemorySessionStore()
	provider := mockauth.NewMockAuthProvider()
	cookies := NewSessionCookies("test-session-secret", "")

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Users:    users,
		Sessions: sessions,
		Hasher:   &mockauth.FakeHasher{},
	})
	secretSvc := service.NewSecretService(users)

	router, err := NewRouter(RouterServices{
		Auth:    authSvc,
		Secrets: secretSvc,
		Cookies: cookies,
		BaseURL: "http://localhost:8080",
	})
	require.NoError(t, err)

	return &testEnv{
		Router:   router,
		Users:    users,
		Sessions: sessions,
		Provider: provider,
		Cookies:  cookies,
		Auth:     authSvc,
	}
}

// do runs a request through the router and returns the recorder.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// postForm builds a form POST request.
func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// register creates an account through the HTTP surface and returns the
// issued session cookie.
func (e *testEnv) register(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	w := e.do(postForm("/register", url.Values{
		"username": {email},
		"password": {password},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/secrets", w.Header().Get("Location"))
	cookie := findCookie(w.Result().Cookies(), sessionCookieName)
	require.NotNil(t, cookie, "registration should set a session cookie")
	return cookie
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name && c.MaxAge >= 0 {
			return c
		}
	}
	return nil
}

func readBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	return string(b)
}

// flagHandler is a slog handler that only records whether anything was
// logged, keeping middleware tests quiet.
type flagHandler struct{ hit *bool }

func (h flagHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h flagHandler) Handle(context.Context, slog.Record) error { *h.hit = true; return nil }
func (h flagHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h flagHandler) WithGroup(string) slog.Handler             { return h }

func newDiscardLogger(hit *bool) *slog.Logger {
	return slog.New(flagHandler{hit: hit})
}
