package main

import (
	"bytes"
	"net"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startStub(t *testing.T) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/login", func(c *fiber.Ctx) error {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		if req.Username == "user" && req.Password == "password" {
			return c.JSON(fiber.Map{"status": "success"})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "fail"})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestRun(t *testing.T) {
	url := startStub(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{"authenticated", []string{"-url", url, "-username", "user", "-password", "password"}, exitAuthenticated, "success\n"},
		{"rejected", []string{"-url", url, "-username", "user", "-password", "nope"}, exitRejected, "fail\n"},
		{"bad flag", []string{"-bogus"}, exitError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, stdout.String())
		})
	}
}
