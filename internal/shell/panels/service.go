package panels

import (
	"context"
	"errors"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

// ErrNotFound indicates no panel is registered for the requested path.
var ErrNotFound = errors.New("panel not found")

// Service exposes the embedded analytics panels.
type Service interface {
	// Panel returns the panel rendered at path.
	Panel(ctx context.Context, path views.Path) (Panel, error)
}

// Panel is a passive frame pointing at an external analytics endpoint.
type Panel struct {
	Path      views.Path
	Title     string
	SourceURL string
}
