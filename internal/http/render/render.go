package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are templates rendered inside the base layout.
var pages = []string{
	"index",
	"product_new",
	"product_detail",
	"product_edit",
	"preparations_index",
	"preparation_new",
	"preparation_detail",
	"preparation_edit",
	"search_results",
	"login",
	"register",
	"401",
	"404",
	"500",
}

// Renderer executes embedded HTML templates. Pages are parsed once at startup
// against the shared base layout.
type Renderer struct {
	templates map[string]*template.Template
	logger    zerolog.Logger
}

// New parses all page templates. A parse failure is a startup error.
func New(logger zerolog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return &Renderer{templates: templates, logger: logger}, nil
}

// HTML renders a page into the base layout and writes it with the given
// status. The template executes into a buffer first so a mid-render failure
// never produces a half-written page.
func (r *Renderer) HTML(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.templates[page]
	if !ok {
		r.logger.Error().Str("page", page).Msg("unknown template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		r.logger.Error().Err(err).Str("page", page).Msg("render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Unauthorized writes the 401 page, falling back to plain text when the
// template cannot be rendered.
func (r *Renderer) Unauthorized(w http.ResponseWriter) {
	t, ok := r.templates["401"]
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", Page{}); err != nil {
		r.logger.Error().Err(err).Msg("render 401 page")
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write(buf.Bytes())
}

// NotFound writes the 404 page.
func (r *Renderer) NotFound(w http.ResponseWriter, page Page) {
	r.HTML(w, http.StatusNotFound, "404", struct{ Page }{page})
}

// ServerError writes the generic 500 page. Internal detail stays in the logs.
func (r *Renderer) ServerError(w http.ResponseWriter, page Page) {
	r.HTML(w, http.StatusInternalServerError, "500", struct{ Page }{page})
}

// Page carries the fields every template needs for the shared navigation bar.
type Page struct {
	IsAuthenticated bool
	Username        string
}
