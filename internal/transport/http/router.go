package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"surveycli/internal/config"
	"surveycli/internal/marketshare"
	"surveycli/internal/middleware"
	"surveycli/pkg/contracts"
	apiv1 "surveycli/pkg/contracts/api/v1"
)

// NewRouter assembles the service's route tree and middleware chain.
// metrics may be nil to disable instrumentation and the /metrics endpoint.
func NewRouter(engine *marketshare.Analyzer, cfg *config.Config, metrics *middleware.HTTPMetrics, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if cfg.Server.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	}
	if metrics != nil {
		r.Use(metrics.Handler)
	}

	analysis := NewAnalysisHandler(engine, cfg, metrics, logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", analysis.Analyze)
		r.Get("/health", healthCheck)
		r.Get("/version", version)
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	return r
}

// healthCheck handles GET /api/health.
func healthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, apiv1.HealthResponse{
		Status:  "ok",
		Version: contracts.Version,
	})
}

// version handles GET /api/version.
func version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
