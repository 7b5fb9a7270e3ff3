package httpserver

import (
	"crypto/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/httpserver/middleware"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/observability"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/panels"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/router"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/session"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
	"github.com/Adribv/React-Python-Charts-App/public"
)

// Config holds runtime options for the shell HTTP server.
type Config struct {
	Address     string
	Environment string
	Registry    *views.Registry
	// DisableAuthGuard renders protected views without a token.
	DisableAuthGuard bool
	Authenticator    middleware.Authenticator
	Sessions         middleware.SessionStore
	Panels           panels.Service
	CSRFCookieName   string
	CSRFCookieSecure bool
	CSRFHeaderName   string
	Logger           *zap.Logger
	Metrics          *observability.Metrics
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := cfg.Registry
	if registry == nil {
		registry = views.MustDefault()
	}

	authenticator := cfg.Authenticator
	if authenticator == nil {
		if middleware.IsProduction(cfg.Environment) {
			logger.Error("no authenticator configured in production; rejecting every token")
			authenticator = middleware.RejectingAuthenticator()
		} else {
			authenticator = middleware.DefaultAuthenticator()
		}
	}

	sessions := cfg.Sessions
	if sessions == nil {
		logger.Warn("no session store configured; using an ephemeral signing key")
		sessions = ephemeralSessions()
	}

	panelService := cfg.Panels
	if panelService == nil {
		panelService = panels.NewStaticService(registry)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.InjectLoggerMiddleware(logger))
	r.Use(observability.RequestLoggerMiddleware(cfg.Metrics))
	r.Use(observability.RecoveryMiddleware(logger))
	r.Use(chimw.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	assets, err := public.Handler()
	if err != nil {
		logger.Fatal("embed static", zap.Error(err))
	}
	r.Handle(public.Prefix+"*", assets)

	shell := &shellHandlers{
		router:        router.New(registry, router.WithGuard(!cfg.DisableAuthGuard)),
		authenticator: authenticator,
		panels:        panelService,
		metrics:       cfg.Metrics,
	}
	auth := newAuthHandlers(authenticator, registry)

	mountShellRoutes(r, shell, auth, routeOptions{
		Environment: cfg.Environment,
		Sessions:    sessions,
		CSRF: middleware.CSRFConfig{
			CookieName: cfg.CSRFCookieName,
			HeaderName: cfg.CSRFHeaderName,
			Secure:     cfg.CSRFCookieSecure,
		},
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

type routeOptions struct {
	Environment string
	Sessions    middleware.SessionStore
	CSRF        middleware.CSRFConfig
}

func mountShellRoutes(r chi.Router, shell *shellHandlers, auth *authHandlers, opts routeOptions) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.HTMX())
		r.Use(middleware.NoStore())
		r.Use(middleware.Environment(opts.Environment))
		r.Use(middleware.Session(opts.Sessions))
		r.Use(middleware.CSRF(opts.CSRF))

		r.Get("/navigate", shell.Navigate)

		r.Get(string(views.PathSignIn), shell.View)
		r.Post(string(views.PathSignIn), auth.Submit(views.KindSignIn))
		r.Get(string(views.PathSignUp), shell.View)
		r.Post(string(views.PathSignUp), auth.Submit(views.KindSignUp))
		r.Get(string(views.PathLogout), shell.View)
		r.Post(string(views.PathLogout), shell.Logout)

		// Everything else resolves through the view registry.
		r.Get("/", shell.View)
		r.Get("/*", shell.View)
	})
}

// ephemeralSessions signs cookies with a per-process key, so sessions do not
// survive a restart.
func ephemeralSessions() *session.Manager {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("session: generate ephemeral key: " + err.Error())
	}
	mgr, err := session.NewManager(session.Config{HashKey: key})
	if err != nil {
		panic(err)
	}
	return mgr
}
