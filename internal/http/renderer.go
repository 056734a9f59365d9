package httpx

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PageData carries the values the page templates render. Authenticated
// drives the shared navigation; the remaining fields are page specific
// and zero when unused.
type PageData struct {
	Title         string
	Authenticated bool
	Email         string
	Error         string
	Secret        string
	RedirectURI   string
}

// TemplateRenderer renders HTML pages from the embedded template set.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// NewTemplateRenderer parses the embedded templates. It fails only when
// the template set itself is broken, which a test catches at build time.
func NewTemplateRenderer(logger *slog.Logger) (*TemplateRenderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		if logger != nil {
			logger.Error("template parsing failed", slog.Any("error", err))
		}
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// Render executes the named page template into a buffer first so a
// template failure produces a clean 500 instead of a half-written page.
func (r *TemplateRenderer) Render(w http.ResponseWriter, name string, data PageData) {
	r.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit response status.
func (r *TemplateRenderer) RenderStatus(w http.ResponseWriter, status int, name string, data PageData) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		if r.logger != nil {
			r.logger.Error("template execution failed",
				slog.String("template", name),
				slog.Any("error", err),
			)
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
