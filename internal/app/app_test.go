package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpulse/internal/config"
	"adpulse/internal/infrastructure"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Sheets.BaseURL = "http://localhost:9999"
	cfg.Sheets.SpreadsheetID = "sheet-test"
	cfg.Sheets.RefreshOnStart = false
	cfg.Logging.Output = "console"
	cfg.Logging.Level = "error"
	return cfg
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	infrastructure.ResetLoggerForTesting()

	app, err := NewApplicationWithConfig(testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, app.Router)
	return app
}

func TestNewApplication(t *testing.T) {
	app := newTestApplication(t)

	assert.NotNil(t, app.Cache)
	assert.NotNil(t, app.WebSocketHub)
	assert.NotNil(t, app.ReportService)
	assert.NotNil(t, app.HealthService)
	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Len(t, app.feedRanges, 6)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	// nothing has been loaded yet, so the app reports degraded
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestHealthEndpointCompressed(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteProblem(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestRangeOverridesApplied(t *testing.T) {
	infrastructure.ResetLoggerForTesting()

	cfg := testConfig(t)
	cfg.Feeds.Ranges = map[string]string{"pinterest": "Pinterest_custom"}

	app, err := NewApplicationWithConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, app.feedRanges, "Pinterest_custom")
	assert.NotContains(t, app.feedRanges, "Pinterest_tratado")
}
