// Package partials renders the controls shared by the landing and panel views.
package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/navigation"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates/helpers"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

const navigatePath = "/navigate"

// SelectorData describes one navigation selector. Options never include From.
type SelectorData struct {
	From    views.Path
	Options []views.Option
	Hard    bool
}

// NavSelector renders the page selector. The disabled placeholder is always
// selected so picking any listed option fires a change.
func NavSelector(data SelectorData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		mode := navigation.ModeInApp
		if data.Hard {
			mode = navigation.ModeHard
		}

		h := helpers.NewHTMLWriter(w)
		h.Raw(`<form class="nav-selector" method="get"`)
		h.URL("action", navigatePath)
		h.URL("hx-get", navigatePath)
		h.Attr("hx-trigger", "change")
		h.Attr("hx-swap", "none")
		h.Attr("data-navigation", string(mode))
		h.Raw(`>`)
		h.Hidden("from", string(data.From))
		h.Raw(`<label class="visually-hidden" for="nav-select">`)
		h.Text(navigation.PlaceholderLabel)
		h.Raw(`</label><select id="nav-select" name="to"><option value="" disabled selected>`)
		h.Text(navigation.PlaceholderLabel)
		h.Raw(`</option>`)
		for _, opt := range data.Options {
			if opt.Target == data.From {
				continue
			}
			h.Raw(`<option`)
			h.Attr("value", string(opt.Target))
			h.Raw(`>`)
			h.Text(opt.Label)
			h.Raw(`</option>`)
		}
		h.Raw(`</select><noscript><button type="submit">Go</button></noscript></form>`)
		return h.Err()
	})
}

// LogoutControl renders the logout trigger. Hard controls reload the document;
// otherwise htmx swaps the shell region in place.
func LogoutControl(hard bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := helpers.NewHTMLWriter(w)
		h.Raw(`<a class="logout"`)
		h.URL("href", string(views.PathLogout))
		if !hard {
			h.URL("hx-get", string(views.PathLogout))
			h.Attr("hx-target", "#"+helpers.ShellID)
			h.Attr("hx-swap", "outerHTML")
		}
		h.Raw(`>Logout</a>`)
		return h.Err()
	})
}
