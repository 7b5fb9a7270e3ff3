package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates/helpers"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates/partials"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

// Landing renders the public page selector.
func Landing(data LandingData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTMLWriter(w)
		h.Component(ctx, partials.LogoutControl(true))
		h.Raw(`<section class="landing"><h1>`)
		h.Text(data.Title)
		h.Raw(`</h1>`)
		h.Component(ctx, partials.Summary(data.Summary))
		h.Component(ctx, partials.NavSelector(data.Selector))
		h.Raw(`</section>`)
		return h.Err()
	})
}

// Panel renders an embedded analytics panel. The frame is passive: nothing
// flows back from the panel to the shell.
func Panel(data PanelData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTMLWriter(w)
		h.Component(ctx, partials.LogoutControl(false))
		h.Raw(`<section class="panel"`)
		h.Attr("data-panel", string(data.Path))
		h.Raw(`><h1>`)
		h.Text(data.Title)
		h.Raw(`</h1>`)
		if data.UserEmail != "" {
			h.Raw(`<p class="signed-in-as">`)
			h.Text(data.UserEmail)
			h.Raw(`</p>`)
		}
		h.Component(ctx, partials.Summary(data.Summary))
		h.Component(ctx, partials.NavSelector(data.Selector))
		h.Raw(`<div class="panel-frame"><iframe`)
		h.Attr("title", data.Title)
		h.URL("src", data.SourceURL)
		h.Raw(`></iframe></div></section>`)
		return h.Err()
	})
}

// NotFound renders the terminal view for unregistered paths.
func NotFound(data NotFoundData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := helpers.NewHTMLWriter(w)
		h.Raw(`<section class="not-found"><h1>Page not found</h1><p>No view is registered for <code>`)
		h.Text(data.Path)
		h.Raw(`</code>.</p><p><a`)
		h.URL("href", string(views.PathSignIn))
		h.Raw(`>Go to sign in</a></p></section>`)
		return h.Err()
	})
}
