package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/confide/confide/internal/domain/auth"
	mockauth "github.com/confide/confide/internal/mocks/auth"
	"github.com/confide/confide/internal/ports"
	"github.com/confide/confide/internal/service"
)

func TestRegister_CreatesAccountAndSignsIn(t *testing.T) {
	env := newTestEnv(t)

	cookie := env.register(t, "alice@example.com", "hunter2")
	assert.Equal(t, 1, env.Users.Count())

	// The issued cookie grants access to the guarded pages.
	req := httptest.NewRequest(http.MethodGet, "/secrets", nil)
	req.AddCookie(cookie)
	w := env.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegister_DuplicateEmailRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "dup@example.com", "first")

	w := env.do(postForm("/register", url.Values{
		"username": {"dup@example.com"},
		"password": {"second"},
	}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Empty(t, readBody(t, w), "redirect must carry no hint that the address is taken")
	assert.Nil(t, findCookie(w.Result().Cookies(), sessionCookieName))
	assert.Equal(t, 1, env.Users.Count())
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(postForm("/register", url.Values{"username": {"a@example.com"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_SuccessRedirectsToRequestedPage(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "hunter2")

	w := env.do(postForm("/login", url.Values{
		"username":     {"alice@example.com"},
		"password":     {"hunter2"},
		"redirect_uri": {"/submit"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/submit", w.Header().Get("Location"))
	assert.NotNil(t, findCookie(w.Result().Cookies(), sessionCookieName))
}

func TestLogin_DefaultSuccessTargetIsSecrets(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "hunter2")

	w := env.do(postForm("/login", url.Values{
		"username": {"alice@example.com"},
		"password": {"hunter2"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/secrets", w.Header().Get("Location"))
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "hunter2")
	_, err := env.Users.FindOrCreateFederated(context.Background(), "fed@example.com")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "unknown email", username: "ghost@example.com", password: "x"},
		{name: "wrong password", username: "alice@example.com", password: "nope"},
		{name: "federated-only account", username: "fed@example.com", password: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(postForm("/login", url.Values{
				"username": {tt.username},
				"password": {tt.password},
			}))
			// Every failure mode produces the same redirect with no
			// distinguishing detail.
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))
			assert.Nil(t, findCookie(w.Result().Cookies(), sessionCookieName))
		})
	}
}

func TestLogin_UnsafeRedirectFallsBackToSecrets(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "hunter2")

	w := env.do(postForm("/login", url.Values{
		"username":     {"alice@example.com"},
		"password":     {"hunter2"},
		"redirect_uri": {"https://evil.example.com/"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/secrets", w.Header().Get("Location"))
}

func TestLogout_DestroysSessionAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "alice@example.com", "hunter2")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	w := env.do(req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// The session cookie no longer grants access.
	guarded := httptest.NewRequest(http.MethodGet, "/secrets", nil)
	guarded.AddCookie(cookie)
	w2 := env.do(guarded)
	assert.Equal(t, http.StatusSeeOther, w2.Code)

	// A second logout with the same stale cookie still succeeds.
	again := httptest.NewRequest(http.MethodGet, "/logout", nil)
	again.AddCookie(cookie)
	w3 := env.do(again)
	assert.Equal(t, http.StatusFound, w3.Code)

	// So does logging out without any session at all.
	w4 := env.do(httptest.NewRequest(http.MethodGet, "/logout", nil))
	assert.Equal(t, http.StatusFound, w4.Code)
}

func TestGoogleLogin_RedirectsToProvider(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://mock-idp/auth", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	assert.NotNil(t, findCookie(cookies, oauthStateCookieName))
	assert.NotNil(t, findCookie(cookies, oauthNonceCookieName))
}

func TestGoogleCallback_Success(t *testing.T) {
	env := newTestEnv(t)
	env.Provider.DefaultIdentity.Email = "fed@example.com"

	// Start the flow to obtain the state/nonce cookies.
	start := env.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	state := findCookie(start.Result().Cookies(), oauthStateCookieName)
	nonce := findCookie(start.Result().Cookies(), oauthNonceCookieName)
	require.NotNil(t, state)
	require.NotNil(t, nonce)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/secrets?code=abc&state="+state.Value, nil)
	req.AddCookie(state)
	req.AddCookie(nonce)
	w := env.do(req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/secrets", w.Header().Get("Location"))
	assert.NotNil(t, findCookie(w.Result().Cookies(), sessionCookieName))
	assert.Equal(t, 1, env.Users.Count())
}

func TestGoogleCallback_StateMismatch(t *testing.T) {
	env := newTestEnv(t)

	start := env.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	state := findCookie(start.Result().Cookies(), oauthStateCookieName)
	nonce := findCookie(start.Result().Cookies(), oauthNonceCookieName)
	require.NotNil(t, state)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/secrets?code=abc&state=forged", nil)
	req.AddCookie(state)
	req.AddCookie(nonce)
	w := env.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, findCookie(w.Result().Cookies(), sessionCookieName))
	assert.Equal(t, 0, env.Users.Count())
}

func TestGoogleCallback_MissingParams(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{
		"/auth/google/secrets",
		"/auth/google/secrets?code=abc",
		"/auth/google/secrets?state=xyz",
	} {
		w := env.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusSeeOther, w.Code, target)
		assert.Equal(t, "/login", w.Header().Get("Location"), target)
	}
}

func TestGoogleCallback_ProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.Provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("token endpoint unreachable")
	}

	start := env.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	state := findCookie(start.Result().Cookies(), oauthStateCookieName)
	nonce := findCookie(start.Result().Cookies(), oauthNonceCookieName)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/secrets?code=abc&state="+state.Value, nil)
	req.AddCookie(state)
	req.AddCookie(nonce)
	w := env.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, 0, env.Users.Count())
}

func TestGoogleCallback_LocalConflictPolicy(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "both@example.com", "localpw")
	env.Provider.DefaultIdentity.Email = "both@example.com"

	// Default policy logs the user into the existing account.
	start := env.do(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	state := findCookie(start.Result().Cookies(), oauthStateCookieName)
	nonce := findCookie(start.Result().Cookies(), oauthNonceCookieName)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/secrets?code=abc&state="+state.Value, nil)
	req.AddCookie(state)
	req.AddCookie(nonce)
	w := env.do(req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 1, env.Users.Count())
}

func TestGoogleCallback_LocalConflictRejected(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "both@example.com", "localpw")
	env.Provider.DefaultIdentity.Email = "both@example.com"

	// Rebuild the router with the stricter conflict policy.
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider:                     env.Provider,
		Users:                        env.Users,
		Sessions:                     env.Sessions,
		Hasher:                       &mockauth.FakeHasher{},
		RejectFederatedLocalConflict: true,
	})
	router, err := NewRouter(RouterServices{
		Auth:    authSvc,
		Secrets: service.NewSecretService(env.Users),
		Cookies: env.Cookies,
		BaseURL: "http://localhost:8080",
	})
	require.NoError(t, err)

	start := httptest.NewRecorder()
	router.ServeHTTP(start, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	state := findCookie(start.Result().Cookies(), oauthStateCookieName)
	nonce := findCookie(start.Result().Cookies(), oauthNonceCookieName)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/secrets?code=abc&state="+state.Value, nil)
	req.AddCookie(state)
	req.AddCookie(nonce)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, findCookie(w.Result().Cookies(), sessionCookieName))
}
