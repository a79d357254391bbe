// Package client calls a running credential-service to verify a username/password pair.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credential-service/internal/api/dto"
)

// ErrUnexpectedResponse is returned for any reply that is not a verdict.
var ErrUnexpectedResponse = errors.New("unexpected response")

// Client posts credential pairs to the login endpoint.
type Client struct {
	baseURL   string
	loginPath string
	timeout   time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithLoginPath overrides the default /login path.
func WithLoginPath(path string) Option {
	return func(c *Client) {
		c.loginPath = path
	}
}

// WithTimeout bounds each request. Zero disables the client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New builds a client for the service at baseURL, e.g. http://127.0.0.1:5003.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		loginPath: "/login",
		timeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate reports whether the service accepted the pair.
// A rejection is (false, nil); transport failures and non-verdict replies are (false, err).
// Cancelling ctx returns ctx.Err() immediately, even while the request is in flight.
func (c *Client) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	agent := fiber.Post(c.baseURL + c.loginPath).JSON(dto.LoginRequest{Username: &username, Password: &password})
	if timeout := c.requestTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}

	var resp dto.VerdictResponse
	done := make(chan agentResult, 1)
	go func() {
		code, body, errs := agent.Struct(&resp)
		done <- agentResult{code: code, body: body, errs: errs}
	}()

	var res agentResult
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res = <-done:
	}

	code, body, errs := res.code, res.body, res.errs
	if len(errs) > 0 {
		if code != 0 && code != fiber.StatusOK && code != fiber.StatusUnauthorized {
			return false, fmt.Errorf("%w: status %d: %s", ErrUnexpectedResponse, code, truncate(body))
		}
		return false, fmt.Errorf("login request: %w", errors.Join(errs...))
	}

	switch {
	case code == fiber.StatusOK && resp.Status == dto.StatusSuccess:
		return true, nil
	case code == fiber.StatusUnauthorized && resp.Status == dto.StatusFail:
		return false, nil
	default:
		return false, fmt.Errorf("%w: status %d: %s", ErrUnexpectedResponse, code, truncate(body))
	}
}

type agentResult struct {
	code int
	body []byte
	errs []error
}

func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func truncate(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
