package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/config"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/httpserver"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/httpserver/middleware"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/observability"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/session"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	rootCtx := context.Background()

	registry, err := views.Default()
	if err != nil {
		logger.Fatal("load view registry", zap.Error(err))
	}

	sessions, err := buildSessions(cfg, logger)
	if err != nil {
		logger.Fatal("session manager", zap.Error(err))
	}

	authenticator, err := buildAuthenticator(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("authenticator", zap.Error(err))
	}

	srv := httpserver.New(httpserver.Config{
		Address:          cfg.Server.Address,
		Environment:      cfg.Server.Environment,
		Registry:         registry,
		DisableAuthGuard: !cfg.AuthGuard,
		Authenticator:    authenticator,
		Sessions:         sessions,
		CSRFCookieName:   cfg.Session.CSRFCookie,
		CSRFCookieSecure: cfg.Session.Secure,
		Logger:           logger,
		Metrics:          observability.NewMetrics(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("shell server listening",
		zap.String("addr", cfg.Server.Address),
		zap.String("environment", cfg.Server.Environment),
		zap.Bool("auth_guard", cfg.AuthGuard),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}

// buildSessions returns nil without a hash key so the server falls back to
// an ephemeral signing key.
func buildSessions(cfg config.Config, logger *zap.Logger) (middleware.SessionStore, error) {
	if cfg.Session.HashKey == "" {
		logger.Warn("SHELL_SESSION_HASH_KEY not set; sessions will not survive a restart")
		return nil, nil
	}

	var blockKey []byte
	if cfg.Session.BlockKey != "" {
		blockKey = []byte(cfg.Session.BlockKey)
	}
	mgr, err := session.NewManager(session.Config{
		CookieName:   cfg.Session.CookieName,
		HashKey:      []byte(cfg.Session.HashKey),
		BlockKey:     blockKey,
		CookieSecure: cfg.Session.Secure,
		IdleTimeout:  cfg.Session.IdleTimeout,
		Lifetime:     cfg.Session.Lifetime,
	})
	if err != nil {
		return nil, err
	}
	return mgr, nil
}

// buildAuthenticator returns nil outside production when no Firebase project
// is configured, which leaves the server on its passthrough authenticator.
func buildAuthenticator(ctx context.Context, cfg config.Config, logger *zap.Logger) (middleware.Authenticator, error) {
	projectID := cfg.Firebase.ProjectID
	if projectID == "" {
		if cfg.Production() {
			return nil, errors.New("FIREBASE_PROJECT_ID is required in production")
		}
		logger.Warn("FIREBASE_PROJECT_ID not set; using passthrough authenticator")
		return nil, nil
	}

	verifier, err := middleware.NewFirebaseVerifier(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("initialise Firebase auth client: %w", err)
	}

	logger.Info("Firebase authenticator enabled", zap.String("project", projectID))
	return middleware.NewFirebaseAuthenticator(verifier), nil
}
