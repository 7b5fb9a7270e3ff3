package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/httpserver/middleware"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/observability"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/session"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates/auth"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

type authHandlers struct {
	authenticator middleware.Authenticator
	registry      *views.Registry
}

func newAuthHandlers(authenticator middleware.Authenticator, registry *views.Registry) *authHandlers {
	if authenticator == nil {
		panic("auth: authenticator is required")
	}
	if registry == nil {
		panic("auth: registry is required")
	}
	return &authHandlers{
		authenticator: authenticator,
		registry:      registry,
	}
}

// Submit accepts the ID token issued by the identity provider, verifies it and
// stores it in the session.
func (h *authHandlers) Submit(kind views.Kind) http.HandlerFunc {
	viewPath := views.PathSignIn
	if kind == views.KindSignUp {
		viewPath = views.PathSignUp
	}

	return func(w http.ResponseWriter, r *http.Request) {
		desc, ok := h.registry.Lookup(viewPath)
		if !ok {
			http.NotFound(w, r)
			return
		}
		logger := observability.FromContext(r.Context())

		if err := r.ParseForm(); err != nil {
			state := &authFormState{Error: "The form could not be submitted. Please try again."}
			h.renderForm(w, r, desc, state, http.StatusBadRequest)
			return
		}

		recordedNext := r.PostFormValue("next")
		remember := parseCheckbox(r.PostFormValue("remember"))
		token := strings.TrimSpace(r.PostFormValue("id_token"))

		state := &authFormState{
			Remember: remember,
			Next:     recordedNext,
		}

		if token == "" {
			state.Error = "Enter the ID token issued by your identity provider."
			h.renderForm(w, r, desc, state, http.StatusBadRequest)
			return
		}

		user, err := h.authenticator.Authenticate(r, token)
		if err != nil || user == nil {
			logger.Info("sign-in failed", zap.String("view", string(viewPath)), zap.String("reason", middleware.AuthReason(err)), zap.Error(err))
			state.Error = errorMessageFor(err)
			h.renderForm(w, r, desc, state, http.StatusUnauthorized)
			return
		}

		if sess, ok := middleware.SessionFromContext(r.Context()); ok {
			issuedToken := token
			if user.Token != "" {
				issuedToken = user.Token
			}
			sess.SetToken(issuedToken)
			sess.SetUser(&session.User{UID: user.UID, Email: user.Email})
			sess.SetRememberMe(remember)
		}
		logger.Info("signed in", zap.String("uid", user.UID), zap.String("view", string(viewPath)))

		target := h.redirectTarget(recordedNext)
		if middleware.IsHTMXRequest(r.Context()) {
			w.Header().Set("HX-Redirect", target)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

func (h *authHandlers) renderForm(w http.ResponseWriter, r *http.Request, desc views.Descriptor, state *authFormState, status int) {
	data := authPageData(r, desc, state)
	renderShell(w, r, renderState{
		Path:   desc.Path,
		Kind:   desc.Kind,
		Title:  desc.Title,
		Body:   authBody(desc.Kind, data),
		Status: status,
	})
}

// redirectTarget returns the sanitised next target or the landing view.
func (h *authHandlers) redirectTarget(raw string) string {
	if next := normalizeNext(h.registry, raw); next != "" {
		return next
	}
	return string(views.PathHome)
}

type authFormState struct {
	Remember bool
	Next     string
	Error    string
	Message  string
}

func authPageData(r *http.Request, desc views.Descriptor, state *authFormState) auth.PageData {
	q := url.Values{}
	if r.URL != nil {
		q = r.URL.Query()
	}

	next := q.Get("next")
	if state != nil && state.Next != "" {
		next = state.Next
	}
	next = sanitizeNextTarget(next)

	message := messageForQuery(q)
	if state != nil && strings.TrimSpace(state.Message) != "" {
		message = state.Message
	}

	errorText := ""
	if state != nil {
		errorText = state.Error
	}

	remember := false
	if state != nil {
		remember = state.Remember
	} else if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		remember = sess.RememberMe()
	}

	return auth.PageData{
		Kind:      desc.Kind,
		Title:     desc.Title,
		Action:    string(desc.Path),
		Next:      next,
		Message:   message,
		Error:     errorText,
		Remember:  remember,
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
	}
}

func authBody(kind views.Kind, data auth.PageData) templ.Component {
	if kind == views.KindSignUp {
		return auth.SignUp(data)
	}
	return auth.SignIn(data)
}

func errorMessageFor(err error) string {
	if err == nil {
		return "An unknown error occurred."
	}
	var authErr *middleware.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Reason {
		case middleware.ReasonTokenExpired:
			return "That token has expired. Sign in with your identity provider again."
		case middleware.ReasonMissingToken:
			return "Enter the ID token issued by your identity provider."
		default:
			return "That token could not be verified. Check it and try again."
		}
	}
	if errors.Is(err, middleware.ErrUnauthorized) {
		return "That token could not be verified. Check it and try again."
	}
	return "Sign-in failed. Please try again later."
}

func messageForQuery(q url.Values) string {
	if q == nil {
		return ""
	}
	if status := q.Get("status"); status == "logged_out" {
		return loggedOutMessage
	}
	switch q.Get("reason") {
	case middleware.ReasonTokenExpired, "expired":
		return "Your session has expired. Please sign in again."
	case middleware.ReasonTokenInvalid:
		return "Your sign-in could not be verified. Please sign in again."
	case middleware.ReasonMissingToken:
		return "Please sign in to continue."
	default:
		if q.Get("next") != "" {
			return "Please sign in to continue."
		}
		return ""
	}
}

func parseCheckbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "on", "yes":
		return true
	default:
		return false
	}
}

// normalizeNext keeps next targets that land on a selectable view.
func normalizeNext(registry *views.Registry, raw string) string {
	sanitized := sanitizeNextTarget(raw)
	if sanitized == "" {
		return ""
	}
	desc, ok := registry.Lookup(views.Normalize(pathOnly(sanitized)))
	if !ok || !desc.Selectable() {
		return ""
	}
	return sanitized
}

func sanitizeNextTarget(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" || parsed.Host != "" {
		return ""
	}

	pathValue := parsed.Path
	if pathValue == "" {
		pathValue = "/"
	}

	unescaped, err := url.PathUnescape(pathValue)
	if err != nil {
		return ""
	}
	if strings.Contains(unescaped, "\\") {
		return ""
	}

	cleaned := path.Clean(unescaped)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	if strings.HasPrefix(cleaned, "//") {
		return ""
	}

	target := cleaned
	if parsed.RawQuery != "" {
		target += "?" + parsed.RawQuery
	}
	return target
}

func pathOnly(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Path
}
