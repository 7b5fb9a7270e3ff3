package testutil

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses a full page or a shell fragment into a goquery document.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// ShellView returns the path the rendered shell region claims to show, or ""
// when the document has no shell region.
func ShellView(t testing.TB, body []byte) string {
	t.Helper()

	return ParseHTML(t, body).Find("main#shell").AttrOr("data-view", "")
}
