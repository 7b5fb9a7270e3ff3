// Package config loads shell settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile        = ".env"
	defaultHTTPAddr       = ":8080"
	defaultEnvironment    = "Development"
	defaultSessionCookie  = "shell_session"
	defaultCSRFCookie     = "shell_csrf"
	defaultIdleTimeout    = 30 * time.Minute
	defaultLifetime       = 12 * time.Hour
	defaultLogLevel       = "info"
	minSessionHashKeySize = 32
)

// Config is the resolved shell configuration.
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Firebase FirebaseConfig
	// AuthGuard enables the sign-in check on protected views.
	AuthGuard bool
	LogLevel  string
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address     string
	Environment string
}

// SessionConfig controls the session and CSRF cookies.
type SessionConfig struct {
	HashKey     string
	BlockKey    string
	CookieName  string
	Secure      bool
	IdleTimeout time.Duration
	Lifetime    time.Duration
	CSRFCookie  string
}

// FirebaseConfig enables Firebase ID token verification when ProjectID is set.
type FirebaseConfig struct {
	ProjectID string
}

// Production reports whether the configured environment is production.
func (c Config) Production() bool {
	switch strings.ToLower(strings.TrimSpace(c.Server.Environment)) {
	case "prod", "production":
		return true
	default:
		return false
	}
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns the offending field names.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves the configuration. Precedence is explicit map, then the
// process environment, then the .env file.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Address:     stringWithDefault(lookup, "SHELL_HTTP_ADDR", defaultHTTPAddr),
			Environment: stringWithDefault(lookup, "SHELL_ENVIRONMENT", defaultEnvironment),
		},
		Session: SessionConfig{
			HashKey:     stringWithDefault(lookup, "SHELL_SESSION_HASH_KEY", ""),
			BlockKey:    stringWithDefault(lookup, "SHELL_SESSION_BLOCK_KEY", ""),
			CookieName:  stringWithDefault(lookup, "SHELL_SESSION_COOKIE", defaultSessionCookie),
			Secure:      boolWithDefault(lookup, "SHELL_SESSION_SECURE", false),
			IdleTimeout: durationWithDefault(lookup, "SHELL_SESSION_IDLE_TIMEOUT", defaultIdleTimeout),
			Lifetime:    durationWithDefault(lookup, "SHELL_SESSION_LIFETIME", defaultLifetime),
			CSRFCookie:  stringWithDefault(lookup, "SHELL_CSRF_COOKIE", defaultCSRFCookie),
		},
		Firebase: FirebaseConfig{
			ProjectID: stringWithDefault(lookup, "FIREBASE_PROJECT_ID", ""),
		},
		AuthGuard: boolWithDefault(lookup, "SHELL_AUTH_GUARD", true),
		LogLevel:  strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Address) == "" {
		missing = append(missing, "Server.Address")
	}
	if strings.TrimSpace(cfg.Session.CookieName) == "" {
		missing = append(missing, "Session.CookieName")
	}
	if cfg.Session.CookieName == cfg.Session.CSRFCookie {
		missing = append(missing, "Session.CSRFCookie")
	}
	if cfg.Session.IdleTimeout <= 0 {
		missing = append(missing, "Session.IdleTimeout")
	}
	if cfg.Session.Lifetime <= 0 {
		missing = append(missing, "Session.Lifetime")
	}
	if cfg.Production() && len(cfg.Session.HashKey) < minSessionHashKeySize {
		missing = append(missing, "Session.HashKey")
	}
	if cfg.Production() && strings.TrimSpace(cfg.Firebase.ProjectID) == "" {
		missing = append(missing, "Firebase.ProjectID")
	}
	switch len(cfg.Session.BlockKey) {
	case 0, 16, 24, 32:
	default:
		missing = append(missing, "Session.BlockKey")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
