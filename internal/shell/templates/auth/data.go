// Package auth renders the sign-in and sign-up views.
package auth

import "github.com/Adribv/React-Python-Charts-App/internal/shell/views"

// CSRFField is the hidden form field carrying the CSRF token.
const CSRFField = "csrf_token"

// PageData encapsulates rendering state for the sign-in and sign-up views.
type PageData struct {
	Kind      views.Kind
	Title     string
	Action    string
	Next      string
	Message   string
	Error     string
	Remember  bool
	CSRFToken string
}
