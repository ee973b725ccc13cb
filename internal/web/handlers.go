package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/ankilive/ankilive/internal/card"
	"github.com/ankilive/ankilive/internal/config"
	"github.com/ankilive/ankilive/internal/errors"
	"github.com/ankilive/ankilive/internal/repo"
)

// Handlers contains HTTP route handlers for the card browser.
type Handlers struct {
	repo     *repo.Repository
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /cards.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	cards, err := h.repo.List()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Cards",
			Version: h.renderer.version,
			Nav:     "cards",
		},
		Cards:    cards,
		DeckName: h.cfg.DeckName,
		Message:  r.URL.Query().Get("msg"),
	})
}

// HandleDetail handles GET /cards/{id}.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidInput("card ID is required"))
		return
	}

	c, err := h.repo.Get(id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   c.Question,
			Version: h.renderer.version,
			Nav:     "cards",
		},
		Card:          c,
		RenderedNotes: template.HTML(card.RenderNotes(c.Notes)),
	})
}

// HandleDelete handles DELETE /cards/{id} and POST /cards/{id}/delete.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidInput("card ID is required"))
		return
	}

	if err := h.repo.Remove(id); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/cards")
		w.WriteHeader(http.StatusOK)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{"deleted": id})
		return
	}

	http.Redirect(w, r, "/cards", http.StatusFound)
}

// HandleExport handles POST /export.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	deck := r.FormValue("deck")
	if deck == "" {
		deck = h.cfg.DeckName
	}

	path, err := h.repo.ExportDeck(deck)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deck": deck,
			"path": path,
		})
		return
	}

	http.Redirect(w, r, "/cards?msg="+template.URLQueryEscaper("Exported to "+path), http.StatusFound)
}

// HandlePurge handles POST /purge. Requires confirm=true.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidInput("invalid form data"))
		return
	}
	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidInput("confirm parameter must be \"true\""))
		return
	}

	n, err := h.repo.Purge()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{"purged": n})
		return
	}

	http.Redirect(w, r, "/cards", http.StatusFound)
}

// HandleMedia handles GET /media/{file}, serving screenshot images from
// the repository's media directory. MediaPath strips any path
// components, so traversal outside the media dir is not possible.
func (h *Handlers) HandleMedia(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if file == "" {
		h.renderer.renderError(w, r, errors.NewInvalidInput("file name is required"))
		return
	}

	http.ServeFile(w, r, h.repo.MediaPath(file))
}
