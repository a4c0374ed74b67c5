package http

import (
	"compress/flate"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"loaneda/internal/config"
	apperrors "loaneda/internal/errors"
	"loaneda/internal/infrastructure"
	"loaneda/internal/middleware"
)

// RouterConfig carries the router's dependencies
type RouterConfig struct {
	Service   ReportService
	Server    config.ServerConfig
	Analysis  config.AnalysisConfig
	Logger    *slog.Logger
	OTel      *infrastructure.OTelProviders
	Metrics   *infrastructure.PipelineMetrics
	BuildInfo map[string]string
}

// NewRouter wires middleware and routes.
// Ordering: RequestID → RealIP → OTel → Logger → Recoverer → RateLimit.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apperrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.NewOTelMiddleware(cfg.OTel, cfg.Metrics).Handler)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(errorHandler))
	r.Use(middleware.SecurityHeaders)
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, logger).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	timeout := cfg.Server.WriteTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(flate.DefaultCompression))
		r.Use(middleware.Timeout(timeout, errorHandler, logger))

		r.Get("/", ServeReport(cfg.Service, errorHandler, logger))
		r.Mount(config.APIBasePath+"/report", NewReportHandler(cfg.Service, cfg.Analysis.DisplayRows, logger, errorHandler).Routes())

		health := NewHealthHandler(cfg.Service, cfg.BuildInfo, logger)
		r.Get(config.HealthEndpoint, health.HealthCheck)
		r.Get(config.HealthEndpoint+"/ready", health.ReadinessCheck)
		r.Get("/api/version", health.Version)
	})

	if cfg.OTel != nil && cfg.OTel.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, cfg.OTel.PrometheusHTTP)
	}

	return r
}
