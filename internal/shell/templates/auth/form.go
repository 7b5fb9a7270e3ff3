package auth

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates/helpers"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

// SignIn renders the sign-in view body.
func SignIn(data PageData) templ.Component {
	data.Kind = views.KindSignIn
	if data.Action == "" {
		data.Action = string(views.PathSignIn)
	}
	return form(data, "Sign In", string(views.PathSignUp), "Create an account")
}

// SignUp renders the sign-up view body.
func SignUp(data PageData) templ.Component {
	data.Kind = views.KindSignUp
	if data.Action == "" {
		data.Action = string(views.PathSignUp)
	}
	return form(data, "Sign Up", string(views.PathSignIn), "Already registered? Sign in")
}

func form(data PageData, submit, altHref, altLabel string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := helpers.NewHTMLWriter(w)
		h.Raw(`<section class="auth-card"><h1>`)
		h.Text(data.Title)
		h.Raw(`</h1>`)
		if data.Message != "" {
			h.Raw(`<p class="notice" role="status">`)
			h.Text(data.Message)
			h.Raw(`</p>`)
		}
		if data.Error != "" {
			h.Raw(`<p class="error" role="alert">`)
			h.Text(data.Error)
			h.Raw(`</p>`)
		}
		h.Raw(`<form method="post" class="auth-form"`)
		h.URL("action", data.Action)
		h.Attr("data-auth", string(data.Kind))
		h.Raw(`>`)
		h.Hidden(CSRFField, data.CSRFToken)
		if data.Next != "" {
			h.Hidden("next", data.Next)
		}
		h.Raw(`<label for="id_token">ID token</label>`)
		h.Raw(`<input id="id_token" name="id_token" type="password" autocomplete="off" required>`)
		h.Raw(`<label class="remember"><input type="checkbox" name="remember" value="1"`)
		h.Flag("checked", data.Remember)
		h.Raw(`> Keep me signed in</label>`)
		h.Raw(`<button type="submit">`)
		h.Text(submit)
		h.Raw(`</button></form><p class="auth-alt"><a`)
		h.URL("href", altHref)
		h.Raw(`>`)
		h.Text(altLabel)
		h.Raw(`</a></p></section>`)
		return h.Err()
	})
}
