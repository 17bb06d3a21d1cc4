package web

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hpungsan/jot/internal/document"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	np       *ops.Notepad
	renderer *Renderer
	maxBody  int64
}

// HandleList handles GET /files: list the catalog.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(r.Context(), h.np, ops.ListInput{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "catalog", CatalogPageData{
		PageData: h.renderer.page("Files", "files"),
		Dir:      result.Dir,
		Items:    result.Items,
	})
}

// HandleCreate handles POST /files: add a name to the catalog.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.Create(r.Context(), h.np, ops.CreateInput{Name: r.FormValue("name")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusCreated, result)
		return
	}
	redirect(w, r, "/files")
}

// HandleDelete handles DELETE /files/{name} and POST /files/{name}/delete.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.Delete(r.Context(), h.np, ops.DeleteInput{Name: name})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	redirect(w, r, "/files")
}

// HandlePreview handles GET /files/{name}: show the file as stored on disk.
// Markdown files are rendered; everything else is shown as plain text.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	file, err := ops.Read(r.Context(), h.np, ops.ReadInput{Name: name})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, file)
		return
	}

	data := PreviewPageData{
		PageData: h.renderer.page(file.Name, "files"),
		File:     file,
		Markdown: isMarkdown(file.Name),
	}
	if data.Markdown {
		data.RenderedHTML = renderMarkdown(file.Text)
	}
	h.renderer.renderPage(w, r, "preview", data)
}

// HandleHistory handles GET /files/{name}/history: the file's journal.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.History(r.Context(), h.np, ops.HistoryInput{
		Name:  name,
		Limit: parseIntParam(r, "limit", ops.DefaultHistoryLimit),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "history", HistoryPageData{
		PageData: h.renderer.page("History: "+result.Name, "files"),
		Name:     result.Name,
		Items:    result.Items,
	})
}

// HandleRecent handles GET /recent: recently touched files from the journal.
func (h *Handlers) HandleRecent(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Recent(r.Context(), h.np, ops.RecentInput{
		Limit: parseIntParam(r, "limit", ops.DefaultRecentLimit),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "recent", RecentPageData{
		PageData: h.renderer.page("Recent", "recent"),
		Items:    result.Items,
	})
}

// HandleOpen handles POST /files/{name}/open: start an editing session.
func (h *Handlers) HandleOpen(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	view, err := ops.Open(r.Context(), h.np, ops.OpenInput{Name: name})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusCreated, view)
		return
	}
	redirect(w, r, sessionURL(view.SessionID))
}

// HandleSessions handles GET /sessions: the documents currently open.
func (h *Handlers) HandleSessions(w http.ResponseWriter, r *http.Request) {
	result := ops.Sessions(r.Context(), h.np)

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "sessions", SessionsPageData{
		PageData: h.renderer.page("Open documents", "sessions"),
		Items:    result.Items,
	})
}

// HandleEditor handles GET /sessions/{id}: the editor for one session.
func (h *Handlers) HandleEditor(w http.ResponseWriter, r *http.Request) {
	doc, err := ops.Get(r.Context(), h.np, ops.GetInput{
		SessionID: chi.URLParam(r, "id"),
		Segments:  true,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, doc)
		return
	}

	h.renderer.renderPage(w, r, "editor", EditorPageData{
		PageData: h.renderer.page(doc.Name, "sessions"),
		Doc:      doc,
	})
}

// HandleEdit handles POST /sessions/{id}/edit.
//
// Form fields: action (insert, delete, replace, set; default set), start,
// end, text.
func (h *Handlers) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	action := ops.EditAction(r.FormValue("action"))
	if action == "" {
		action = ops.EditSet
	}
	start, err := parseIntForm(r, "start")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	end, err := parseIntForm(r, "end")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	view, err := ops.Edit(r.Context(), h.np, ops.EditInput{
		SessionID: id,
		Action:    action,
		Start:     start,
		End:       end,
		Text:      normalizeNewlines(r.FormValue("text")),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.sessionChanged(w, r, id, view)
}

// HandleStyle handles POST /sessions/{id}/style.
//
// Form fields: start, end, style (repeatable or comma-separated), remove.
func (h *Handlers) HandleStyle(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	style, err := document.ParseStyle(strings.Join(r.Form["style"], ","))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	start, err := parseIntForm(r, "start")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	end, err := parseIntForm(r, "end")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	view, err := ops.Style(r.Context(), h.np, ops.StyleInput{
		SessionID: id,
		Start:     start,
		End:       end,
		Style:     style,
		Remove:    parseBool(r.FormValue("remove")),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.sessionChanged(w, r, id, view)
}

// HandleUndo handles POST /sessions/{id}/undo.
func (h *Handlers) HandleUndo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := ops.Undo(r.Context(), h.np, ops.UndoInput{SessionID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.sessionChanged(w, r, id, result)
}

// HandleRedo handles POST /sessions/{id}/redo.
func (h *Handlers) HandleRedo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := ops.Redo(r.Context(), h.np, ops.UndoInput{SessionID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.sessionChanged(w, r, id, result)
}

// HandleSave handles POST /sessions/{id}/save: write the text to disk.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := ops.Save(r.Context(), h.np, ops.SaveInput{SessionID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.sessionChanged(w, r, id, result)
}

// HandleClose handles POST /sessions/{id}/close. Unsaved changes are dropped.
func (h *Handlers) HandleClose(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Close(r.Context(), h.np, ops.CloseInput{SessionID: chi.URLParam(r, "id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	redirect(w, r, "/sessions")
}

// sessionChanged answers a successful session mutation: the result as JSON,
// or back to the editor page.
func (h *Handlers) sessionChanged(w http.ResponseWriter, r *http.Request, id string, result any) {
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	redirect(w, r, sessionURL(id))
}

// parseForm parses the request body, bounded by the document size cap.
func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) error {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.NewFileTooLarge("request body", tooLarge.Limit, r.ContentLength)
		}
		return errors.NewInvalidRequest("invalid form data")
	}
	return nil
}

// redirect sends the client to a page after a form post.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func sessionURL(id string) string {
	return "/sessions/" + url.PathEscape(id)
}

// nameParam returns the decoded {name} path segment.
func nameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	// chi routes on the raw path when the client used a non-canonical escape.
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(name)
		if err != nil {
			return "", errors.NewInvalidRequest("malformed file name in URL")
		}
		name = decoded
	}
	if name == "" {
		return "", errors.NewInvalidRequest("file name is required")
	}
	return name, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseIntForm parses an integer form field; empty means 0.
func parseIntForm(r *http.Request, name string) (int, error) {
	s := strings.TrimSpace(r.FormValue(name))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewInvalidRequest(name + " must be an integer")
	}
	return v, nil
}

func parseBool(s string) bool {
	return s == "true" || s == "1" || s == "on"
}

// normalizeNewlines converts the CRLF line endings browsers submit from a
// textarea to LF.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
