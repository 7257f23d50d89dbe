package infrastructure

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailreports/internal/config"
	apperrors "retailreports/internal/errors"
	"retailreports/internal/shared/testutil"
)

func scrape(t *testing.T, handler http.Handler) string {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestInitializeOTel_Disabled(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(config.TelemetryConfig{Enabled: false}, logger)
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.True(t, logs.ContainsMessage("telemetry disabled"))

	metrics, err := NewExportMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordExport(context.Background(), "pdf", 10, time.Millisecond, nil)

	assert.NotContains(t, scrape(t, providers.PrometheusHTTP), "report_exports_total")
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_ExportMetrics(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	var traces bytes.Buffer

	providers, err := initializeOTel(config.TelemetryConfig{
		Enabled:        true,
		ServiceName:    "retail-reports",
		ServiceVersion: "test",
		TraceStdout:    true,
	}, logger, &traces)
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	require.NotNil(t, providers.MeterProvider)

	metrics, err := NewExportMetrics(providers.Meter)
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "export")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	assert.Equal(t, TraceIDFromContext(ctx), GetTraceID(ctx))

	metrics.RecordExport(ctx, "excel", 2048, 20*time.Millisecond, nil)
	metrics.RecordExport(ctx, "pdf", 0, time.Millisecond, apperrors.NewPreconditionError("kpis must not be empty"))
	metrics.RecordHTTPRequest(ctx, http.MethodPost, "/api/reports/exports/{format}", http.StatusCreated, 5*time.Millisecond)
	RecordError(ctx, assert.AnError)
	span.End()

	body := scrape(t, providers.PrometheusHTTP)
	assert.Contains(t, body, "report_exports_total")
	assert.Contains(t, body, `error_type="PRECONDITION"`)
	assert.Contains(t, body, "report_artifact_size_bytes")
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "go_goroutines")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(shutdownCtx))
	assert.Contains(t, traces.String(), `"Name":"export"`)
}

func TestExportMetrics_NilReceiver(t *testing.T) {
	var metrics *ExportMetrics
	assert.NotPanics(t, func() {
		metrics.RecordExport(context.Background(), "csv", 1, time.Second, nil)
		metrics.RecordHTTPRequest(context.Background(), http.MethodGet, "/api/health", http.StatusOK, time.Second)
	})
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
