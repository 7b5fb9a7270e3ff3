package templates

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates/helpers"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
	"github.com/Adribv/React-Python-Charts-App/public"
)

// ShellID is the element id of the swappable shell region.
const ShellID = helpers.ShellID

const (
	htmxScriptURL = "https://unpkg.com/htmx.org@1.9.12"
	brandName     = "Analytics Dashboard"
)

// Page renders a full document around the shell region.
func Page(layout LayoutData, region templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTMLWriter(w)
		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if layout.CSRFToken != "" {
			h.Raw(`<meta name="csrf-token"`)
			h.Attr("content", layout.CSRFToken)
			h.Raw(`>`)
		}
		h.Raw(`<title>`)
		h.Text(documentTitle(layout.Title))
		h.Raw(`</title>`)
		h.Raw(`<link rel="stylesheet"`)
		h.URL("href", public.Stylesheet)
		h.Raw(`><script`)
		h.URL("src", htmxScriptURL)
		h.Raw(` defer></script></head><body`)
		if layout.CSRFToken != "" {
			headers, err := json.Marshal(map[string]string{"X-CSRF-Token": layout.CSRFToken})
			if err != nil {
				return err
			}
			h.Attr("hx-headers", string(headers))
		}
		h.Raw(`><header class="topbar"><span class="brand">`)
		h.Text(brandName)
		h.Raw(`</span>`)
		h.Component(ctx, EnvironmentBadge(layout.Environment))
		h.Raw(`</header>`)
		h.Component(ctx, region)
		h.Raw(`</body></html>`)
		return h.Err()
	})
}

// Fragment renders the shell region for an htmx swap. The title element lets
// htmx update the document title.
func Fragment(title string, region templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTMLWriter(w)
		h.Raw(`<title>`)
		h.Text(documentTitle(title))
		h.Raw(`</title>`)
		h.Component(ctx, region)
		return h.Err()
	})
}

// Shell wraps a view body in the swappable region.
func Shell(path views.Path, kind views.Kind, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := helpers.NewHTMLWriter(w)
		h.Raw(`<main`)
		h.Attr("id", ShellID)
		h.Attr("class", "shell shell--"+string(kind))
		h.Attr("data-view", string(path))
		h.Raw(`>`)
		h.Component(ctx, body)
		h.Raw(`</main>`)
		return h.Err()
	})
}

// EnvironmentBadge labels non-production deployments.
func EnvironmentBadge(env string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		env = strings.TrimSpace(env)
		switch strings.ToLower(env) {
		case "", "prod", "production":
			return nil
		}
		h := helpers.NewHTMLWriter(w)
		h.Raw(`<span class="env-badge"`)
		h.Attr("data-env", strings.ToLower(env))
		h.Raw(`>`)
		h.Text(env)
		h.Raw(`</span>`)
		return h.Err()
	})
}

func documentTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return brandName
	}
	return title + " | " + brandName
}
