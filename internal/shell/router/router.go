// Package router resolves a request path and session state into exactly one
// outcome: render a registered view, redirect, or the not-found view.
//
// Resolution is a pure lookup over the view registry. The auth guard lives
// here so individual views never check the session themselves.
package router

import (
	"github.com/Adribv/React-Python-Charts-App/internal/shell/session"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

// Outcome classifies a Resolution.
type Outcome string

const (
	OutcomeRender   Outcome = "render"
	OutcomeRedirect Outcome = "redirect"
	OutcomeNotFound Outcome = "not_found"
)

// Redirect reasons. ReasonMissingToken matches middleware.ReasonMissingToken
// so the sign-in view can explain the redirect.
const (
	ReasonRoot         = "root"
	ReasonMissingToken = "missing_token"
)

// Resolution is the result of routing one path.
type Resolution struct {
	Outcome Outcome
	// Path is the normalised requested path.
	Path views.Path
	// Target is set for redirects.
	Target views.Path
	// View is set when Outcome is OutcomeRender.
	View   views.Descriptor
	Reason string
}

// Router resolves paths against a registry.
type Router struct {
	registry *views.Registry
	guard    bool
}

// Option customises a Router.
type Option func(*Router)

// WithGuard toggles the auth guard. It is enabled by default; disabling it
// renders protected views without a token.
func WithGuard(enabled bool) Option {
	return func(r *Router) {
		r.guard = enabled
	}
}

// New constructs a Router over the registry.
func New(registry *views.Registry, opts ...Option) *Router {
	if registry == nil {
		panic("router: registry is required")
	}
	r := &Router{registry: registry, guard: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry the router resolves against.
func (r *Router) Registry() *views.Registry {
	return r.registry
}

// GuardEnabled reports whether protected views require a token.
func (r *Router) GuardEnabled() bool {
	return r.guard
}

// Resolve maps raw onto a Resolution. tokens may be nil, which counts as an
// empty session.
func (r *Router) Resolve(raw string, tokens session.TokenReader) Resolution {
	path := views.Normalize(raw)

	if path == views.PathRoot {
		return Resolution{
			Outcome: OutcomeRedirect,
			Path:    path,
			Target:  r.registry.Fallback(),
			Reason:  ReasonRoot,
		}
	}

	desc, ok := r.registry.Lookup(path)
	if !ok {
		return Resolution{Outcome: OutcomeNotFound, Path: path}
	}

	if r.guard && desc.RequiresAuth && !hasToken(tokens) {
		return Resolution{
			Outcome: OutcomeRedirect,
			Path:    path,
			Target:  views.PathSignIn,
			Reason:  ReasonMissingToken,
		}
	}

	return Resolution{Outcome: OutcomeRender, Path: path, View: desc}
}

func hasToken(tokens session.TokenReader) bool {
	if tokens == nil {
		return false
	}
	_, ok := tokens.Token()
	return ok
}
