package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jlagedo/capivara-mcp/internal/instrumentation"
	mcpserver "github.com/jlagedo/capivara-mcp/internal/mcp"
	"github.com/jlagedo/capivara-mcp/internal/provider"
	"github.com/jlagedo/capivara-mcp/internal/provider/olinda"
	"github.com/jlagedo/capivara-mcp/internal/provider/sgs"
	"github.com/jlagedo/capivara-mcp/internal/tools"
)

type emptySeries struct{}

func (emptySeries) GetFrame(context.Context, []sgs.Series, time.Time, time.Time) (*provider.Table, error) {
	return nil, nil
}

type emptyOData struct{}

func (emptyOData) Query(context.Context, olinda.Request) (*provider.Table, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, *instrumentation.Metrics) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	reg := prometheus.NewRegistry()
	metrics := instrumentation.NewMetrics(reg)
	svc := tools.NewService(emptySeries{}, emptyOData{}, tools.WithRecorder(metrics))
	srv, err := mcpserver.New(svc, logger, "test")
	require.NoError(t, err)
	return newRouter(logger, srv.HTTPHandler(), reg), metrics
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
	require.NotEmpty(t, rr.Header().Get(correlationHeader))
}

func TestRouter_CorrelationIDIsEchoed(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(correlationHeader, "req-42")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, "req-42", rr.Header().Get(correlationHeader))
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	// Arrange
	router, metrics := newTestRouter(t)
	metrics.ObserveTool(tools.ToolSelic, "empty", 20*time.Millisecond)
	rr := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.Contains(t, body, `capivara_tool_calls_total{outcome="empty",tool="get_selic"} 1`)
	require.Contains(t, body, "capivara_tool_latency_seconds_bucket")
}

func TestRouter_MCPInitialize(t *testing.T) {
	t.Parallel()

	// Arrange
	router, _ := newTestRouter(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rr := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rr, req)

	// Assert
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Contains(t, rr.Body.String(), `"name":"capivara-mcp"`)
}

func TestRouter_UnknownPath(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/quotes", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, logLevel("debug"))
	require.Equal(t, slog.LevelWarn, logLevel("warn"))
	require.Equal(t, slog.LevelError, logLevel("error"))
	require.Equal(t, slog.LevelInfo, logLevel("info"))
}
