package http

import (
	"log/slog"
	"net/http"
	"strconv"

	apperrors "loaneda/internal/errors"
)

// ServeReport serves the rendered HTML report
func ServeReport(service ReportService, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := service.Current(r.Context())
		if err != nil {
			errorHandler.HandleError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Content-Length", strconv.Itoa(len(snap.HTML)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(snap.HTML); err != nil {
			logger.WarnContext(r.Context(), "failed to write report page", slog.String("error", err.Error()))
		}
	}
}
