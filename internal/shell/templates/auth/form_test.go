package auth

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestSignInFormCarriesStateAndEscapes(t *testing.T) {
	t.Parallel()

	doc := render(t, SignIn(PageData{
		Title:     "Sign In",
		Next:      "/dash3",
		Message:   "You have been signed out.",
		Error:     `<script>alert("x")</script>`,
		Remember:  true,
		CSRFToken: "csrf-123",
	}))

	form := doc.Find("form.auth-form")
	require.Equal(t, "/signin", form.AttrOr("action", ""))
	require.Equal(t, "signin", form.AttrOr("data-auth", ""))
	require.Equal(t, "csrf-123", form.Find("input[name=csrf_token]").AttrOr("value", ""))
	require.Equal(t, "/dash3", form.Find("input[name=next]").AttrOr("value", ""))
	_, checked := form.Find("input[name=remember]").Attr("checked")
	require.True(t, checked)

	require.Equal(t, "You have been signed out.", doc.Find(".notice").Text())
	require.Equal(t, 0, doc.Find(".error script").Length())
	require.Equal(t, `<script>alert("x")</script>`, doc.Find(".error").Text())
	require.Equal(t, "/signup", doc.Find(".auth-alt a").AttrOr("href", ""))
}

func TestSignUpPostsToSignUp(t *testing.T) {
	t.Parallel()

	doc := render(t, SignUp(PageData{Title: "Sign Up"}))
	require.Equal(t, "/signup", doc.Find("form.auth-form").AttrOr("action", ""))
	require.Equal(t, 0, doc.Find("input[name=next]").Length())
	require.Equal(t, "/signin", doc.Find(".auth-alt a").AttrOr("href", ""))
}
