package panels_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/panels"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

func TestStaticServiceFromRegistry(t *testing.T) {
	t.Parallel()

	svc := panels.NewStaticService(views.MustDefault())

	require.Len(t, svc.Panels, 4)
	require.Equal(t, views.PathDash, svc.Panels[0].Path)

	panel, err := svc.Panel(context.Background(), views.PathDash4)
	require.NoError(t, err)
	require.Equal(t, "Feedback", panel.Title)
	require.Equal(t, "http://localhost:8063", panel.SourceURL)
}

func TestStaticServiceUnknownPanel(t *testing.T) {
	t.Parallel()

	svc := panels.NewStaticService(nil)
	_, err := svc.Panel(context.Background(), views.PathHome)
	require.True(t, errors.Is(err, panels.ErrNotFound))
}
