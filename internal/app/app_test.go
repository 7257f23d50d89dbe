package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailreports/internal/config"
	"retailreports/internal/shared/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Telemetry.Enabled = true
	cfg.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	a, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func postSnapshot(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(testutil.SampleSnapshot())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNew_WiresComponents(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg)

	assert.NotNil(t, a.Router)
	assert.NotNil(t, a.Server)
	assert.NotNil(t, a.Ledger)
	assert.Equal(t, ":8080", a.Server.Addr)
	assert.Equal(t, filepath.Join(cfg.Paths.BaseDir, config.DefaultReportsDir), a.Paths.ReportsDir)
	assert.FileExists(t, a.Paths.HistoryFile)
}

func TestNewComponents_WithoutHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Enabled = false
	logger, _ := testutil.NewTestLogger(t)

	c, err := NewComponents(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer c.Close(context.Background())

	assert.Nil(t, c.Ledger)
	assert.NotNil(t, c.ExportService)
}

func TestApplication_ExportFlow(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	rec := postSnapshot(t, a.Router, "/api/reports/exports/csv")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var created struct {
		Data struct {
			FileName string `json:"file_name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	download := get(a.Router, "/api/reports/files/"+created.Data.FileName)
	require.Equal(t, http.StatusOK, download.Code)
	assert.Equal(t, "text/csv; charset=utf-8", download.Header().Get("Content-Type"))

	history := get(a.Router, "/api/reports/history")
	require.Equal(t, http.StatusOK, history.Code)
	var listed struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(history.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Count)
}

func TestApplication_HealthAndMetrics(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	health := get(a.Router, "/api/health")
	require.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"status":"ok"`)

	require.Equal(t, http.StatusCreated, postSnapshot(t, a.Router, "/api/reports/exports/pdf").Code)

	metrics := get(a.Router, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	body, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "report_exports_total")
	assert.Contains(t, string(body), "http_requests_total")
}

func TestApplication_ProblemResponses(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	notFound := get(a.Router, "/does-not-exist")
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Contains(t, notFound.Body.String(), "/errors/not-found")

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	a := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, get(a.Router, "/api/reports/history").Code)
	limited := get(a.Router, "/api/reports/history")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	// Health is outside the limited group
	assert.Equal(t, http.StatusOK, get(a.Router, "/api/health").Code)
}

func TestApplication_Stop(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	a.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, a.Start(ctx, cancel))
	require.NoError(t, a.Stop(context.Background()))
}
