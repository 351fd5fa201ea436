package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"laketrace/internal/middleware"
	"laketrace/internal/ui"
)

// RouterConfig carries the wiring options for the relay router.
type RouterConfig struct {
	Logger             *slog.Logger
	Metrics            *middleware.Metrics
	CORSAllowedOrigins []string
	RateLimit          middleware.RateLimitConfig
}

// NewRouter assembles the relay's routes and middleware chain. The rate
// limiter guards only the API routes; health and metrics stay unthrottled so
// probes keep working while a client is being shed.
func NewRouter(h *Handler, uiHandler *ui.Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Collect)
	}
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Healthz)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimiter(cfg.RateLimit))
		r.Get("/lineage/{catalog}/{schema}/{table}", h.TableLineage)
	})

	if uiHandler != nil {
		r.Mount("/ui", uiHandler.Routes())
	}

	return r
}
