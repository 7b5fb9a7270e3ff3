package middleware

import (
	"context"
	"net/http"
	"strings"
)

// DefaultEnvironment labels requests when no environment is configured.
const DefaultEnvironment = "Development"

type environmentContextKey struct{}

// Environment attaches the deployment environment label to the request context
// so the layout can render the environment badge.
func Environment(value string) func(http.Handler) http.Handler {
	label := strings.TrimSpace(value)
	if label == "" {
		label = DefaultEnvironment
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), environmentContextKey{}, label)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EnvironmentFromContext returns the environment label registered for the
// current request.
func EnvironmentFromContext(ctx context.Context) string {
	if ctx == nil {
		return DefaultEnvironment
	}
	if value, ok := ctx.Value(environmentContextKey{}).(string); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return DefaultEnvironment
}

// IsProduction reports whether label names a production deployment.
func IsProduction(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "prod", "production":
		return true
	default:
		return false
	}
}
