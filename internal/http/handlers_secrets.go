package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/confide/confide/internal/domain/model"
)

// SecretServiceInterface defines the interface for secret operations.
type SecretServiceInterface interface {
	Reveal(ctx context.Context, email string) (string, error)
	Submit(ctx context.Context, email, secret string) (*model.User, error)
}

// SecretHandlers provides HTTP handlers for the home page and the secret
// reveal/submit pages. The guarded handlers assume RequireAuth has placed
// a session in the request context.
type SecretHandlers struct {
	Svc      SecretServiceInterface
	Renderer *TemplateRenderer
	Logger   *slog.Logger
}

func (h *SecretHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Home renders the landing page for both anonymous and signed-in users.
// GET /.
func (h *SecretHandlers) Home(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Home"}
	if session, ok := GetUserSessionFromContext(r.Context()); ok {
		data.Authenticated = true
		data.Email = session.User.Email
	}
	h.Renderer.Render(w, "home", data)
}

// Secrets renders the user's stored secret. The read goes through the
// service so it reflects the latest submitted value, not the snapshot
// frozen into the session at login.
// GET /secrets.
func (h *SecretHandlers) Secrets(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		redirectToLogin(w, r)
		return
	}

	secret, err := h.Svc.Reveal(r.Context(), session.User.Email)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "reveal secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.Renderer.Render(w, "secrets", PageData{
		Title:         "Your Secret",
		Authenticated: true,
		Email:         session.User.Email,
		Secret:        secret,
	})
}

// SubmitPage renders the secret submission form.
// GET /submit.
func (h *SecretHandlers) SubmitPage(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		redirectToLogin(w, r)
		return
	}

	h.Renderer.Render(w, "submit", PageData{
		Title:         "Submit a Secret",
		Authenticated: true,
		Email:         session.User.Email,
	})
}

// Submit stores the posted secret and shows it on the reveal page.
// POST /submit with form field secret.
func (h *SecretHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		redirectToLogin(w, r)
		return
	}

	if _, err := h.Svc.Submit(r.Context(), session.User.Email, r.PostFormValue("secret")); err != nil {
		h.logger().ErrorContext(r.Context(), "submit secret failed", "error", err)
		h.Renderer.RenderStatus(w, http.StatusInternalServerError, "submit", PageData{
			Title:         "Submit a Secret",
			Authenticated: true,
			Email:         session.User.Email,
			Error:         "Saving your secret failed. Please try again.",
		})
		return
	}

	http.Redirect(w, r, "/secrets", http.StatusFound)
}
