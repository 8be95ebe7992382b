package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesanalyzer/internal/config"
	"salesanalyzer/internal/infrastructure"
	"salesanalyzer/internal/shared/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.InputDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.LogsDir = t.TempDir()
	cfg.Report.LogSummary = false
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

func newTestApplication(t *testing.T, withTelemetry bool) *Application {
	t.Helper()
	cfg := testConfig(t)
	logger, _ := testutil.NewTestLogger(t)

	var providers *infrastructure.OTelProviders
	if withTelemetry {
		var err error
		providers, err = infrastructure.InitializeOTel(cfg.Telemetry, logger)
		require.NoError(t, err)
	}

	a, err := NewApplication(cfg, logger, providers)
	require.NoError(t, err)
	return a
}

func TestNewApplication(t *testing.T) {
	a := newTestApplication(t, false)

	assert.NotNil(t, a.ReportService)
	assert.NotNil(t, a.HealthService)
	assert.Nil(t, a.Metrics)
	assert.Equal(t, ":8080", a.Server.Addr)
	assert.Equal(t, a.Config.Server.ReadTimeout, a.Server.ReadTimeout)
}

func TestNewApplication_BadReportFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.Format = "pdf"
	_, err := NewApplication(cfg, nil, nil)
	require.Error(t, err)
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApplication(t, true)
	require.NotNil(t, a.Metrics)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/health/ready", http.StatusOK},
		{http.MethodGet, "/api/health/live", http.StatusOK},
		{http.MethodGet, "/api/version", http.StatusOK},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
		{http.MethodDelete, "/api/health", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.Router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request")
}

func TestApplication_Serve(t *testing.T) {
	a := newTestApplication(t, false)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/api/health/live"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
