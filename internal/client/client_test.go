package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/credential-service/internal/api/http"
	"github.com/spec-kit/credential-service/internal/api/http/handlers"
	"github.com/spec-kit/credential-service/internal/auth"
	"github.com/spec-kit/credential-service/internal/config"
	"github.com/spec-kit/credential-service/internal/domain"
)

// startServer runs app on a loopback port and returns its base URL.
func startServer(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func startCredentialService(t *testing.T, loginPath string) string {
	t.Helper()
	appCfg := config.AppConfig{Name: "credential-service", Version: "test"}
	app := httptransport.NewApp(appCfg, zap.NewNop(), nil)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		LoginPath: loginPath,
		Health:    handlers.NewHealthHandler(appCfg.Name, appCfg.Version, nil),
		Login: handlers.NewLoginHandler(
			auth.NewCredentialVerifier(domain.ReferenceCredential{Username: "user", Password: "password"}),
			nil,
		),
	})
	return startServer(t, app)
}

func TestClient_Authenticate(t *testing.T) {
	baseURL := startCredentialService(t, "/login")
	c := New(baseURL + "/")
	ctx := context.Background()

	ok, err := c.Authenticate(ctx, "user", "password")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Authenticate(ctx, "user", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Authenticate(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_CustomLoginPath(t *testing.T) {
	baseURL := startCredentialService(t, "/v1/verify")

	ok, err := New(baseURL, WithLoginPath("/v1/verify")).Authenticate(context.Background(), "user", "password")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = New(baseURL).Authenticate(context.Background(), "user", "password")
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.False(t, ok)
}

func TestClient_UnexpectedResponse(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/login", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "maybe"})
	})
	baseURL := startServer(t, app)

	ok, err := New(baseURL).Authenticate(context.Background(), "user", "password")

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.False(t, ok)
}

func TestClient_TransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ok, err := New("http://"+addr, WithTimeout(time.Second)).Authenticate(context.Background(), "user", "password")

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := New("http://127.0.0.1:1").Authenticate(ctx, "user", "password")

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestClient_CancelInFlight(t *testing.T) {
	release := make(chan struct{})
	app := fiber.New()
	app.Post("/login", func(c *fiber.Ctx) error {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
	})
	baseURL := startServer(t, app)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	ok, err := New(baseURL, WithTimeout(0)).Authenticate(ctx, "user", "password")

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}
