package panels

import (
	"context"
	"fmt"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

// StaticService serves the build-time panel table from the view registry.
type StaticService struct {
	Panels []Panel
}

// NewStaticService returns a StaticService populated from registry.
func NewStaticService(registry *views.Registry) *StaticService {
	if registry == nil {
		registry = views.MustDefault()
	}
	descs := registry.Panels()
	panels := make([]Panel, 0, len(descs))
	for _, desc := range descs {
		panels = append(panels, Panel{
			Path:      desc.Path,
			Title:     desc.Title,
			SourceURL: desc.PanelURL,
		})
	}
	return &StaticService{Panels: panels}
}

// Panel returns the configured panel for path.
func (s *StaticService) Panel(_ context.Context, path views.Path) (Panel, error) {
	for _, p := range s.Panels {
		if p.Path == path {
			return p, nil
		}
	}
	return Panel{}, fmt.Errorf("%w: %s", ErrNotFound, path)
}
