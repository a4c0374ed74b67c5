package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"wrapped cancel", fmt.Errorf("run: %w", context.Canceled), http.StatusGatewayTimeout, TypeTimeout},
		{"report not ready", ErrReportNotReady, http.StatusServiceUnavailable, TypeReportNotReady},
		{"column not found", ColumnNotFoundError("AMT_X"), http.StatusNotFound, TypeNotFound},
		{"validation app error", NewAppValidationError("bad target"), http.StatusBadRequest, TypeValidation},
		{"parsing app error", NewParsingError("bad csv", nil), http.StatusUnprocessableEntity, TypeDataUnreadable},
		{"storage app error", NewStorageError("bucket", nil), http.StatusBadGateway, TypeDataUnavailable},
		{"analysis app error", NewAnalysisError("boom", nil), http.StatusInternalServerError, TypeAnalysisFailed},
		{"plain error", errors.New("something"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/v1/report", problem.Instance)
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/quality", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, NewNotFoundError("report"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, "report not found", body["detail"])
	assert.Equal(t, "NOT_FOUND", body["error_type"])
	assert.Contains(t, body, "trace_id")
}

func TestErrorHandler_NotFoundAndMethod(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/report", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELETE")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad", "", "/x").
		WithExtension("field", "formats")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "formats", out["field"])
	assert.Equal(t, float64(400), out["status"])
	assert.NotContains(t, out, "detail")
}
