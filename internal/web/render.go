package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/jot/internal/db"
	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "files", "sessions", "recent"
}

// CatalogPageData is the template data for the file list page.
type CatalogPageData struct {
	PageData
	Dir   string
	Items []ops.FileSummary
}

// PreviewPageData is the template data for the read-only file view.
type PreviewPageData struct {
	PageData
	File         *ops.ReadOutput
	Markdown     bool
	RenderedHTML template.HTML
}

// EditorPageData is the template data for an open session.
type EditorPageData struct {
	PageData
	Doc *ops.GetOutput
}

// SessionsPageData is the template data for the open sessions page.
type SessionsPageData struct {
	PageData
	Items []ops.SessionSummary
}

// RecentPageData is the template data for the recent files page.
type RecentPageData struct {
	PageData
	Items []db.RecentFile
}

// HistoryPageData is the template data for a file's journal.
type HistoryPageData struct {
	PageData
	Name  string
	Items []db.Event
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Code       string
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       *slog.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	funcMap := template.FuncMap{
		"formatTime":  formatTime,
		"formatBytes": formatBytes,
		"styled":      styledHTML,
		"pathEscape":  url.PathEscape,
		"styleNames":  func(s document.Style) string { return strings.Join(s.Names(), ", ") },
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"catalog":  "catalog.html",
		"preview":  "preview.html",
		"editor":   "editor.html",
		"sessions": "sessions.html",
		"recent":   "recent.html",
		"history":  "history.html",
		"error":    "error.html",
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
		log:       logger,
	}
}

func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
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
		r.log.Error("template not found", "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if isHTMX(req) {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	jErr := errors.As(err)
	status := jErr.Status
	message := jErr.Message
	if status >= http.StatusInternalServerError {
		r.log.Error("request failed", "path", req.URL.Path, "error", err)
	}

	if isHTMX(req) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	if wantsJSON(req) {
		body := map[string]any{
			"code":    string(jErr.Code),
			"message": message,
			"status":  status,
		}
		if len(jErr.Details) > 0 && jErr.Code != errors.ErrInternal {
			body["details"] = jErr.Details
		}
		renderJSON(w, status, map[string]any{"error": body})
		return
	}

	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", status), ""),
		StatusCode: status,
		Code:       string(jErr.Code),
		Message:    message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func isHTMX(req *http.Request) bool {
	return req != nil && req.Header.Get("HX-Request") == "true"
}

func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderMarkdown converts markdown text to HTML using goldmark.
// Raw HTML in the source is omitted by goldmark's default renderer.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	return template.HTML(buf.String())
}

// styledHTML renders segments as escaped text wrapped in <strong>, <em>
// and <u> for their style flags.
func styledHTML(segs []document.Segment) template.HTML {
	var b strings.Builder
	for _, seg := range segs {
		if seg.Style.Has(document.StyleBold) {
			b.WriteString("<strong>")
		}
		if seg.Style.Has(document.StyleItalic) {
			b.WriteString("<em>")
		}
		if seg.Style.Has(document.StyleUnderline) {
			b.WriteString("<u>")
		}
		b.WriteString(template.HTMLEscapeString(seg.Text))
		if seg.Style.Has(document.StyleUnderline) {
			b.WriteString("</u>")
		}
		if seg.Style.Has(document.StyleItalic) {
			b.WriteString("</em>")
		}
		if seg.Style.Has(document.StyleBold) {
			b.WriteString("</strong>")
		}
	}
	return template.HTML(b.String())
}

// formatTime formats a Unix timestamp as "2006-01-02 15:04" UTC. Zero renders as "-".
func formatTime(unix int64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}

// formatBytes formats a byte count with comma thousands separators.
func formatBytes(n int64) string {
	if n < 0 {
		return "-" + formatBytes(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
