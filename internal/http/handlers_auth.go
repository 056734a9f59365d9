// Package httpx provides the HTTP handlers, middleware, and templates for
// the confide web application.
package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/confide/confide/internal/domain/auth"
	"github.com/confide/confide/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Register(ctx context.Context, email, password string) (*service.LoginResult, error)
	LoginLocal(ctx context.Context, email, password string) (*service.LoginResult, error)
	BeginFederatedLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteFederatedLogin(ctx context.Context, input service.CompleteFederatedLoginInput) (*service.LoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for registration, login, logout,
// and the federated Google flow.
type AuthHandlers struct {
	Svc      AuthServiceInterface
	Cookies  *SessionCookies
	Renderer *TemplateRenderer
	// CallbackURL is the absolute URL the identity provider redirects
	// back to after consent.
	CallbackURL string
	Logger      *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the login form.
// GET /login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, "login", PageData{
		Title:       "Log In",
		RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	})
}

// Login handles a local credential submission. Every failure, including
// backing-store errors, redirects back to /login with no distinguishing
// detail so the endpoint reveals nothing about which accounts exist.
// POST /login with form fields username and password.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))

	result, err := h.Svc.LoginLocal(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger().ErrorContext(r.Context(), "local login failed", "error", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.Cookies.Set(w, r, result.Session)
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

// RegisterPage renders the registration form.
// GET /register.
func (h *AuthHandlers) RegisterPage(w http.ResponseWriter, _ *http.Request) {
	h.Renderer.Render(w, "register", PageData{Title: "Register"})
}

// Register creates a local account and signs the new user in.
// POST /register with form fields username and password.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	result, err := h.Svc.Register(r.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			// An existing account goes to the login form, with no hint
			// that the address is taken.
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.Renderer.RenderStatus(w, http.StatusBadRequest, "register", PageData{
				Title: "Register",
				Error: "Email and password are required.",
			})
		default:
			h.logger().ErrorContext(r.Context(), "registration failed", "error", err)
			h.Renderer.RenderStatus(w, http.StatusInternalServerError, "register", PageData{
				Title: "Register",
				Error: "Something went wrong. Please try again.",
			})
		}
		return
	}

	h.Cookies.Set(w, r, result.Session)
	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}

// Logout destroys the server-side session, clears the cookie, and sends
// the user home. Repeated or anonymous logouts behave the same way.
// GET /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := h.Cookies.Read(r); ok {
		if err := h.Svc.Logout(r.Context(), sessionID); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}

	h.Cookies.Clear(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// GoogleLogin starts the federated flow by redirecting to the identity
// provider. The state and nonce for the round trip live in short-lived
// cookies until the callback consumes them.
// GET /auth/google.
func (h *AuthHandlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginFederatedLogin(r.Context(), h.CallbackURL)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin federated login failed", "error", err)
		h.Renderer.RenderStatus(w, http.StatusInternalServerError, "login", PageData{
			Title: "Log In",
			Error: "Google sign-in is unavailable right now. Please try again.",
		})
		return
	}

	h.Cookies.SetOAuthCookies(w, r, result.State, result.Nonce)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// GoogleCallback completes the federated flow. The state echoed by the
// provider must match the cookie set at the start of the round trip.
// GET /auth/google/secrets?code=<code>&state=<state>.
func (h *AuthHandlers) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || stateCookie.Value != state {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookieName)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	result, err := h.Svc.CompleteFederatedLogin(r.Context(), service.CompleteFederatedLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.Cookies.ClearOAuthCookies(w, r)
		if !errors.Is(err, service.ErrFederatedLocalConflict) {
			h.logger().ErrorContext(r.Context(), "federated login failed", "error", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.Cookies.Set(w, r, result.Session)
	h.Cookies.ClearOAuthCookies(w, r)
	http.Redirect(w, r, "/secrets", http.StatusFound)
}
