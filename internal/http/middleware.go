package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	domainauth "github.com/confide/confide/internal/domain/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that only admits authenticated
// requests. Anonymous requests are redirected to the login page with the
// original destination preserved in redirect_uri.
func RequireAuth(authSvc AuthServiceInterface, cookies *SessionCookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := resolveSession(r, authSvc, cookies)
			if session == nil {
				redirectToLogin(w, r)
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns a middleware that attaches the session to the
// request context when present but lets anonymous requests through.
func OptionalAuth(authSvc AuthServiceInterface, cookies *SessionCookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := resolveSession(r, authSvc, cookies); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveSession turns the request cookie into a live session. Any
// failure along the way, from a bad signature to an expired or unknown
// session, resolves to nil so the request proceeds as anonymous.
func resolveSession(r *http.Request, authSvc AuthServiceInterface, cookies *SessionCookies) *domainauth.Session {
	sessionID, ok := cookies.Read(r)
	if !ok {
		return nil
	}

	session, err := authSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		return nil
	}
	return session
}

// redirectToLogin sends an anonymous browser to the login page with the
// current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	http.Redirect(w, r, "/login?redirect_uri="+url.QueryEscape(redirectPath), http.StatusSeeOther)
}
