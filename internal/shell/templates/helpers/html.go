// Package helpers holds the markup writer shared by the shell components.
package helpers

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ShellID is the element id of the swappable shell region.
const ShellID = "shell"

// HTMLWriter stops writing after the first error so components can emit
// markup without checking every call.
type HTMLWriter struct {
	w   io.Writer
	err error
}

// NewHTMLWriter wraps w.
func NewHTMLWriter(w io.Writer) *HTMLWriter {
	return &HTMLWriter{w: w}
}

// Err returns the first write or render error.
func (h *HTMLWriter) Err() error {
	return h.err
}

// Raw writes trusted markup unchanged.
func (h *HTMLWriter) Raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// Text writes escaped character data.
func (h *HTMLWriter) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Attr writes an escaped attribute with a leading space.
func (h *HTMLWriter) Attr(name, value string) {
	h.Raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

// URL writes a URL attribute; unsafe schemes are replaced by templ.
func (h *HTMLWriter) URL(name, value string) {
	h.Attr(name, string(templ.URL(value)))
}

// Flag writes a boolean attribute when on.
func (h *HTMLWriter) Flag(name string, on bool) {
	if on {
		h.Raw(" " + name)
	}
}

// Hidden writes a hidden form input.
func (h *HTMLWriter) Hidden(name, value string) {
	h.Raw(`<input type="hidden"`)
	h.Attr("name", name)
	h.Attr("value", value)
	h.Raw(`>`)
}

// Component renders c in place. Nil components render nothing.
func (h *HTMLWriter) Component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}
