package partials

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates/helpers"
)

var (
	markdown      = goldmark.New()
	summaryPolicy = newSummaryPolicy()
)

func newSummaryPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// RenderMarkdown converts a registry summary to sanitized HTML.
func RenderMarkdown(source string) (string, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(trimmed), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(summaryPolicy.Sanitize(buf.String())), nil
}

// Summary renders a Markdown blurb inside div.view-summary. Empty sources
// render nothing.
func Summary(source string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		html, err := RenderMarkdown(source)
		if err != nil || html == "" {
			return err
		}
		h := helpers.NewHTMLWriter(w)
		h.Raw(`<div class="view-summary">`)
		h.Raw(html)
		h.Raw(`</div>`)
		return h.Err()
	})
}
