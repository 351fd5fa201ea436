// Package api provides the HTTP surface of the lineage relay.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"laketrace/internal/databricks"
	"laketrace/internal/domain"
	"laketrace/internal/lineage"
	"laketrace/internal/middleware"
)

// LineageService resolves one hop of lineage for a fully qualified table.
type LineageService interface {
	TableLineage(ctx context.Context, catalog, schema, table string) (*domain.Result, error)
}

// Handler serves the relay's JSON endpoints.
type Handler struct {
	lineage LineageService
	logger  *slog.Logger
}

// NewHandler creates a Handler backed by the given lineage service.
func NewHandler(lineage LineageService, logger *slog.Logger) *Handler {
	return &Handler{lineage: lineage, logger: logger}
}

// lineageResponse is the success payload of the lineage endpoint.
type lineageResponse struct {
	Table    string       `json:"table"`
	RowCount int          `json:"row_count"`
	Rows     []domain.Row `json:"rows"`
}

// TableLineage handles GET /api/v1/lineage/{catalog}/{schema}/{table}.
// A caller-supplied Authorization bearer token is forwarded to the workspace
// in place of the relay's configured token. The optional filter query
// parameter is a predicate over the output columns.
func (h *Handler) TableLineage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if token := bearerToken(r); token != "" {
		ctx = databricks.WithRequestToken(ctx, token)
	}

	var filter *lineage.RowFilter
	if expr := r.URL.Query().Get("filter"); expr != "" {
		var err error
		filter, err = lineage.CompileRowFilter(expr)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	res, err := h.lineage.TableLineage(ctx,
		chi.URLParam(r, "catalog"),
		chi.URLParam(r, "schema"),
		chi.URLParam(r, "table"),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if filter != nil {
		res.Rows, err = filter.Apply(res.Rows)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, lineageResponse{
		Table:    res.FQN(),
		RowCount: len(res.Rows),
		Rows:     res.Rows,
	})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	requestID := middleware.RequestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "status", status, "error", err, "request_id", requestID)
	}
	writeJSON(w, status, map[string]interface{}{
		"error":      err.Error(),
		"code":       status,
		"request_id": requestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
