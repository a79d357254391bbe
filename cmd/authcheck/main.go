// Command authcheck asks a running credential-service to verify a username/password pair.
//
// Exit codes: 0 authenticated, 1 rejected, 2 usage or transport error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spec-kit/credential-service/internal/client"
)

const (
	exitAuthenticated = 0
	exitRejected      = 1
	exitError         = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("authcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	baseURL := fs.String("url", envOr("AUTHCHECK_URL", "http://127.0.0.1:5003"), "service base URL")
	loginPath := fs.String("path", "/login", "login endpoint path")
	username := fs.String("username", "", "username to verify")
	password := fs.String("password", os.Getenv("AUTHCHECK_PASSWORD"), "password to verify (or AUTHCHECK_PASSWORD)")
	timeout := fs.Duration("timeout", 5*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*baseURL, client.WithLoginPath(*loginPath), client.WithTimeout(*timeout))
	ok, err := c.Authenticate(ctx, *username, *password)
	if err != nil {
		fmt.Fprintf(stderr, "authentication error: %v\n", err)
		return exitError
	}
	if !ok {
		fmt.Fprintln(stdout, "fail")
		return exitRejected
	}
	fmt.Fprintln(stdout, "success")
	return exitAuthenticated
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
