package ui

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"laketrace/internal/domain"
	"laketrace/internal/lineage"
)

// LineageService resolves one hop of lineage for a fully qualified table.
type LineageService interface {
	TableLineage(ctx context.Context, catalog, schema, table string) (*domain.Result, error)
}

// Handler serves the HTML explorer. Requests use the relay's configured
// workspace token; the explorer has no per-user credential handling.
type Handler struct {
	lineage LineageService
}

// NewHandler creates the UI handler.
func NewHandler(lineage LineageService) *Handler {
	return &Handler{lineage: lineage}
}

// Routes returns the UI routes, mounted by the relay router under /ui.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/lineage", h.serveLineage)
	return r
}

func (h *Handler) serveLineage(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimSpace(r.URL.Query().Get("table"))
	page := LineagePageData{Table: table}

	if table != "" {
		catalog, schema, name, err := lineage.ParseTableName(table)
		if err == nil {
			var res *domain.Result
			res, err = h.lineage.TableLineage(r.Context(), catalog, schema, name)
			if err == nil {
				page.Result = res
			}
		}
		if err != nil {
			page.Error = err.Error()
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := LineagePage(page).Render(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
