package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apperrors "loaneda/internal/errors"
)

// QueryParamValidator validates query parameters and answers invalid ones
// with a validation problem
type QueryParamValidator struct {
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *QueryParamValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryParamValidator{
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// ValidateInt validates an integer query parameter. The second result is
// false when a problem response has already been written.
func (v *QueryParamValidator) ValidateInt(w http.ResponseWriter, r *http.Request, param string, min, max int, defaultValue int) (int, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		v.reject(w, r, param, fmt.Sprintf("%s must be a valid integer", param))
		return 0, false
	}
	if intValue < min || intValue > max {
		v.reject(w, r, param, fmt.Sprintf("%s must be between %d and %d", param, min, max))
		return 0, false
	}

	return intValue, true
}

// ValidateEnum validates an enum query parameter
func (v *QueryParamValidator) ValidateEnum(w http.ResponseWriter, r *http.Request, param string, allowed []string, defaultValue string) (string, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	for _, a := range allowed {
		if value == a {
			return value, true
		}
	}

	v.reject(w, r, param, fmt.Sprintf("%s must be one of: %s", param, strings.Join(allowed, ", ")))
	return "", false
}

func (v *QueryParamValidator) reject(w http.ResponseWriter, r *http.Request, param, msg string) {
	v.logger.DebugContext(r.Context(), "invalid query parameter",
		slog.String("param", param),
		slog.String("value", r.URL.Query().Get(param)))
	v.errorHandler.HandleError(w, r, apperrors.ErrValidation(param, msg))
}
