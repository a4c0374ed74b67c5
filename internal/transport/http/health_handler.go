package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"loaneda/internal/config"
	apperrors "loaneda/internal/errors"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service   ReportService
	logger    *slog.Logger
	startTime time.Time
	buildInfo map[string]string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service ReportService, buildInfo map[string]string, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		service:   service,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
		buildInfo: buildInfo,
	}
}

// reportState is "ready", "generating" or "failed"
func (h *HealthHandler) reportState(r *http.Request) (string, error) {
	_, err := h.service.Current(r.Context())
	switch {
	case err == nil:
		return "ready", nil
	case errors.Is(err, apperrors.ErrReportNotReady):
		return "generating", err
	default:
		return "failed", err
	}
}

// HealthCheck handles GET /api/health. The process is healthy while it
// serves requests, whatever the report state.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	state, _ := h.reportState(r)
	render.JSON(w, r, map[string]interface{}{
		"status":    "ok",
		"service":   config.AppName,
		"version":   config.AppVersion,
		"report":    state,
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /api/health/ready
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	state, err := h.reportState(r)
	if err != nil {
		h.logger.DebugContext(r.Context(), "not ready", slog.String("report", state))
		render.Status(r, http.StatusServiceUnavailable)
		resp := map[string]interface{}{"status": "not_ready", "report": state}
		if state == "failed" {
			resp["error"] = err.Error()
		}
		render.JSON(w, r, resp)
		return
	}
	render.JSON(w, r, map[string]interface{}{"status": "ready", "report": state})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	info := map[string]string{
		"name":    config.AppName,
		"version": config.AppVersion,
	}
	for k, v := range h.buildInfo {
		info[k] = v
	}
	render.JSON(w, r, info)
}
