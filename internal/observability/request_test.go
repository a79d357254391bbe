package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedApp(t *testing.T) (*fiber.App, *observer.ObservedLogs, *prometheus.Registry) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(RequestID())
	app.Use(RequestLogger(zap.New(core), NewMetrics(reg)))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFromContext(c))
	})
	app.Get("/metrics", MetricsHandler(reg))
	return app, logs, reg
}

func TestRequestID(t *testing.T) {
	app, _, _ := newObservedApp(t)

	t.Run("generated when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)

		id := resp.Header.Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, string(body))
	})

	t.Run("caller header reused", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
	})
}

func TestRequestLogger(t *testing.T) {
	app, logs, _ := newObservedApp(t)

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ping", fields["path"])
	assert.EqualValues(t, 200, fields["status"])
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestMetricsHandler(t *testing.T) {
	app, _, _ := newObservedApp(t)

	_, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `credential_http_requests_total{method="GET",path="/ping",status="200"} 1`))
}
