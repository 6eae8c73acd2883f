package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/kchava/arcana/internal/calendar"
	"github.com/kchava/arcana/internal/deck"
	"github.com/kchava/arcana/internal/draw"
	"github.com/kchava/arcana/internal/errors"
	"github.com/kchava/arcana/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "today", "history", "deck"
}

// RenderedCard pairs a drawn card with its markdown-rendered meaning.
type RenderedCard struct {
	Card        draw.DrawnCard
	MeaningHTML template.HTML
}

// TodayPageData is the template data for the today page.
type TodayPageData struct {
	PageData
	Identity  string
	Timezone  string
	Window    *calendar.Window
	Source    string
	Day       string
	Cards     []RenderedCard
	Draw      *draw.DailyDraw
	HasResult bool
}

// DetailPageData is the template data for the draw detail page.
type DetailPageData struct {
	PageData
	Identity  string
	Day       string
	RecordID  string
	Source    string
	CreatedAt int64
	Cards     []RenderedCard
	Draw      *draw.DailyDraw
}

// HistoryPageData is the template data for the history page.
type HistoryPageData struct {
	PageData
	Identity   string
	Entries    []ops.HistoryEntry
	Pagination ops.Pagination
	HasQuery   bool
}

// DeckCardView pairs a catalog card with rendered meanings for both sides.
type DeckCardView struct {
	Card         deck.Card
	UprightHTML  template.HTML
	ReversedHTML template.HTML
}

// DeckPageData is the template data for the deck page.
type DeckPageData struct {
	PageData
	DeckName string
	Size     int
	Cards    []DeckCardView
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"formatMillis": formatMillis,
		"join":         func(parts []string) string { return strings.Join(parts, ", ") },
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"today":   "today.html",
		"detail":  "detail.html",
		"history": "history.html",
		"deck":    "deck.html",
		"error":   "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var aErr *errors.ArcanaError
	if !stderrors.As(err, &aErr) {
		aErr = errors.NewInternal(err)
	}

	status := aErr.Status
	message := aErr.Message

	// HTMX request: return HTML fragment
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	// JSON request
	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    string(aErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	// Full error page
	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Message:    message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// renderCards converts drawn cards into their template views.
func renderCards(cards []draw.DrawnCard) []RenderedCard {
	out := make([]RenderedCard, len(cards))
	for i, c := range cards {
		out[i] = RenderedCard{
			Card:        c,
			MeaningHTML: renderMarkdown(c.Meaning),
		}
	}
	return out
}

// formatMillis formats an epoch-milliseconds timestamp as "2006-01-02 15:04" UTC.
func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}
