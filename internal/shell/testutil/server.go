package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/httpserver"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/httpserver/middleware"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/observability"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/panels"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/session"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithAuthenticator overrides the authenticator used by the shell server.
func WithAuthenticator(auth middleware.Authenticator) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Authenticator = auth
	}
}

// WithoutAuthenticator leaves the authenticator unset so the server picks its
// own default for the configured environment.
func WithoutAuthenticator() ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Authenticator = nil
	}
}

// WithoutAuthGuard renders protected views without a token.
func WithoutAuthGuard() ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.DisableAuthGuard = true
	}
}

// WithPanelService wires a custom panel service implementation.
func WithPanelService(service panels.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Panels = service
	}
}

// WithMetrics exposes the metrics the server records.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Metrics = m
	}
}

// WithEnvironment sets the environment label shown in the layout.
func WithEnvironment(env string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Environment = env
	}
}

// NewServer constructs an httptest server running the shell HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	sessions, err := session.NewManager(session.Config{
		HashKey: []byte("0123456789abcdef0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	cfg := httpserver.Config{
		Address:        ":0",
		Environment:    "Test",
		CSRFCookieName: "shell_csrf",
		CSRFHeaderName: "X-CSRF-Token",
		Authenticator:  middleware.DefaultAuthenticator(),
		Sessions:       sessions,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
