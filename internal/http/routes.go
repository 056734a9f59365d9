package httpx

import (
	"log/slog"
	"net/http"
	"strings"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    AuthServiceInterface
	Secrets SecretServiceInterface
	Cookies *SessionCookies
	// BaseURL is the externally visible origin, used to build the
	// federated callback URL.
	BaseURL string
	Logger  *slog.Logger
}

// NewRouter creates and configures the application's HTTP handler,
// including logging and panic recovery middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := NewTemplateRenderer(logger)
	if err != nil {
		return nil, err
	}

	authHandlers := &AuthHandlers{
		Svc:         services.Auth,
		Cookies:     services.Cookies,
		Renderer:    renderer,
		CallbackURL: strings.TrimSuffix(services.BaseURL, "/") + "/auth/google/secrets",
		Logger:      logger,
	}
	secretHandlers := &SecretHandlers{
		Svc:      services.Secrets,
		Renderer: renderer,
		Logger:   logger,
	}

	mux := http.NewServeMux()

	withSession := OptionalAuth(services.Auth, services.Cookies)
	guarded := RequireAuth(services.Auth, services.Cookies)

	mux.Handle("GET /{$}", withSession(http.HandlerFunc(secretHandlers.Home)))

	mux.Handle("GET /login", http.HandlerFunc(authHandlers.LoginPage))
	mux.Handle("POST /login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("GET /register", http.HandlerFunc(authHandlers.RegisterPage))
	mux.Handle("POST /register", http.HandlerFunc(authHandlers.Register))
	mux.Handle("GET /logout", http.HandlerFunc(authHandlers.Logout))

	mux.Handle("GET /auth/google", http.HandlerFunc(authHandlers.GoogleLogin))
	mux.Handle("GET /auth/google/secrets", http.HandlerFunc(authHandlers.GoogleCallback))

	mux.Handle("GET /secrets", guarded(http.HandlerFunc(secretHandlers.Secrets)))
	mux.Handle("GET /submit", guarded(http.HandlerFunc(secretHandlers.SubmitPage)))
	mux.Handle("POST /submit", guarded(http.HandlerFunc(secretHandlers.Submit)))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return Logging(logger)(Recover(logger)(mux)), nil
}
