package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loaneda/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTel_Defaults(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	// Tracing is off by default, metrics are on
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.PrometheusHTTP)
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	var spans bytes.Buffer
	cfg := OTelConfigFrom(config.TelemetryConfig{
		EnableTracing:  true,
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    1.0,
	})
	cfg.TraceWriter = &spans

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "summary")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("boom"))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, spans.String(), "summary")
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{EnableTracing: true, TraceExporter: "jaeger"})
	_, err := InitializeOTel(cfg, discardLogger())
	assert.Error(t, err)

	cfg = OTelConfigFrom(config.TelemetryConfig{EnableMetrics: true, MetricExporter: "statsd"})
	_, err = InitializeOTel(cfg, discardLogger())
	assert.Error(t, err)
}

func TestPipelineMetrics_ExposedOnPrometheus(t *testing.T) {
	providers, err := InitializeOTel(OTelConfigFrom(config.TelemetryConfig{
		EnableMetrics:  true,
		MetricExporter: "prometheus",
	}), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordRun(ctx, 1000, nil)
	metrics.RecordStage(ctx, "quality", 20*time.Millisecond, nil)
	metrics.RecordFlagged(ctx, "income_above_percentile", 10)
	metrics.RecordArtifact(ctx, "html")
	metrics.RecordHTTPRequest(ctx, http.MethodGet, "/api/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "eda_rows_loaded_total")
	assert.Contains(t, body, "eda_stage_duration_seconds")
	assert.Contains(t, body, "eda_quality_flagged_rows_total")
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.RecordRun(context.Background(), 1, nil)
		m.RecordStage(context.Background(), "x", time.Second, nil)
		m.RecordFlagged(context.Background(), "x", 1)
		m.RecordArtifact(context.Background(), "csv")
		m.RecordHTTPRequest(context.Background(), "GET", "/", 200, time.Second)
	})
}
