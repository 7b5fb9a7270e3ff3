package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Address)
	require.Equal(t, "Development", cfg.Server.Environment)
	require.True(t, cfg.AuthGuard)
	require.Equal(t, "shell_session", cfg.Session.CookieName)
	require.Equal(t, "shell_csrf", cfg.Session.CSRFCookie)
	require.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	require.Equal(t, 12*time.Hour, cfg.Session.Lifetime)
	require.False(t, cfg.Session.Secure)
	require.Empty(t, cfg.Firebase.ProjectID)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	env := map[string]string{
		"SHELL_HTTP_ADDR":            ":9090",
		"SHELL_AUTH_GUARD":           "false",
		"SHELL_SESSION_SECURE":       "yes",
		"SHELL_SESSION_IDLE_TIMEOUT": "5m",
		"FIREBASE_PROJECT_ID":        "charts-dev",
		"LOG_LEVEL":                  "DEBUG",
	}
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Address)
	require.False(t, cfg.AuthGuard)
	require.True(t, cfg.Session.Secure)
	require.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	require.Equal(t, "charts-dev", cfg.Firebase.ProjectID)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadReadsDotEnvBelowExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nSHELL_ENVIRONMENT=Staging\nexport SHELL_HTTP_ADDR=\":7070\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"SHELL_HTTP_ADDR": ":6060"}))
	require.NoError(t, err)
	require.Equal(t, "Staging", cfg.Server.Environment)
	require.Equal(t, ":6060", cfg.Server.Address)
}

func TestLoadIgnoresMissingDotEnv(t *testing.T) {
	_, err := Load(WithEnvFile(filepath.Join(t.TempDir(), "missing.env")), WithoutSystemEnv())
	require.NoError(t, err)
}

func TestLoadValidation(t *testing.T) {
	env := map[string]string{
		"SHELL_ENVIRONMENT":       "production",
		"SHELL_SESSION_HASH_KEY":  "too-short",
		"SHELL_SESSION_BLOCK_KEY": "odd-length-key",
		"SHELL_CSRF_COOKIE":       "shell_session",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.ElementsMatch(t, []string{"Session.HashKey", "Session.BlockKey", "Session.CSRFCookie", "Firebase.ProjectID"}, validationErr.Fields())
}

func TestLoadRequiresFirebaseProjectInProduction(t *testing.T) {
	env := map[string]string{
		"SHELL_ENVIRONMENT":      "production",
		"SHELL_SESSION_HASH_KEY": "0123456789abcdef0123456789abcdef",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, []string{"Firebase.ProjectID"}, validationErr.Fields())

	env["FIREBASE_PROJECT_ID"] = "analytics-dashboard"
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)
	require.Equal(t, "analytics-dashboard", cfg.Firebase.ProjectID)

	env["SHELL_ENVIRONMENT"] = "Development"
	delete(env, "FIREBASE_PROJECT_ID")
	_, err = Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err, "development keeps the passthrough authenticator")
}

func TestLoadAcceptsProductionKeys(t *testing.T) {
	env := map[string]string{
		"SHELL_ENVIRONMENT":       "Production",
		"SHELL_SESSION_HASH_KEY":  "0123456789abcdef0123456789abcdef",
		"SHELL_SESSION_BLOCK_KEY": "abcdefghijklmnop",
		"FIREBASE_PROJECT_ID":     "analytics-dashboard",
	}
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)
	require.True(t, cfg.Production())
}
