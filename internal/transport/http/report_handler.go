package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "loaneda/internal/errors"
	"loaneda/internal/middleware"
	"loaneda/pkg/contracts/domain"
)

type ctxKey int

const reportKey ctxKey = iota

// maxSummaryLimit bounds ?limit= on the summary endpoint
const maxSummaryLimit = 10000

// ReportHandler serves the report as JSON with RFC 7807 errors
type ReportHandler struct {
	service      ReportService
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
	query        *middleware.QueryParamValidator
	displayRows  int
}

// NewReportHandler creates a report handler. displayRows is the default
// page size of the summary endpoint.
func NewReportHandler(service ReportService, displayRows int, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		displayRows:  displayRows,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(h.ReportCtx)

	r.Get("/", h.GetReport)
	r.Get("/summary", h.GetSummary)
	r.Get("/columns/{column}", h.GetColumn)
	r.Get("/missing", h.GetMissing)
	r.Get("/target", h.GetTarget)
	r.Get("/correlations", h.GetCorrelations)
	r.Get("/quality", h.GetQuality)

	return r
}

// ReportCtx loads the current report into the request context
func (h *ReportHandler) ReportCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.service.Current(r.Context())
		if err != nil {
			h.logger.WarnContext(r.Context(), "report unavailable",
				slog.String("error", err.Error()),
				slog.String("path", r.URL.Path))
			h.errorHandler.HandleError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), reportKey, snap.Report)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func reportFrom(r *http.Request) *domain.Report {
	rep, _ := r.Context().Value(reportKey).(*domain.Report)
	return rep
}

// GetReport handles GET /api/v1/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, reportFrom(r))
}

// GetSummary handles GET /api/v1/report/summary. Results keep dataset
// column order; ?kind filters by column kind before ?limit applies.
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.query.ValidateInt(w, r, "limit", 1, maxSummaryLimit, h.displayRows)
	if !ok {
		return
	}
	kind, ok := h.query.ValidateEnum(w, r, "kind", []string{
		string(domain.ColumnKindNumeric),
		string(domain.ColumnKindCategorical),
		string(domain.ColumnKindBoolean),
	}, "")
	if !ok {
		return
	}

	rep := reportFrom(r)
	cols := make([]domain.ColumnSummary, 0, len(rep.Columns))
	for _, c := range rep.Columns {
		if kind == "" || string(c.Kind) == kind {
			cols = append(cols, c)
		}
	}
	total := len(cols)
	if len(cols) > limit {
		cols = cols[:limit]
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   cols,
		"count":  len(cols),
		"total":  total,
	})
}

// GetColumn handles GET /api/v1/report/columns/{column}
func (h *ReportHandler) GetColumn(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "column")
	rep := reportFrom(r)

	for _, c := range rep.Columns {
		if c.Name != name {
			continue
		}
		resp := map[string]interface{}{
			"status": "success",
			"data":   c,
		}
		for _, m := range rep.Missing {
			if m.Name == name {
				resp["missing_fraction"] = m.Fraction
			}
		}
		render.JSON(w, r, resp)
		return
	}

	h.errorHandler.HandleError(w, r, apperrors.ColumnNotFoundError(name))
}

// GetMissing handles GET /api/v1/report/missing
func (h *ReportHandler) GetMissing(w http.ResponseWriter, r *http.Request) {
	rep := reportFrom(r)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rep.Missing,
		"count":  len(rep.Missing),
	})
}

// GetTarget handles GET /api/v1/report/target
func (h *ReportHandler) GetTarget(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   reportFrom(r).Target,
	})
}

// GetCorrelations handles GET /api/v1/report/correlations
func (h *ReportHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	cs := reportFrom(r).Bivariate.Correlations
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   cs,
		"count":  len(cs),
	})
}

// GetQuality handles GET /api/v1/report/quality
func (h *ReportHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	rep := reportFrom(r)
	flagged := 0
	for _, f := range rep.Quality {
		flagged += f.Flagged
	}
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"data":    rep.Quality,
		"count":   len(rep.Quality),
		"flagged": flagged,
	})
}
