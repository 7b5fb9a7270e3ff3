package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/httpserver/middleware"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/navigation"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/observability"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/panels"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/router"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/session"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates/partials"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

const loggedOutMessage = "You have been signed out."

type shellHandlers struct {
	router        *router.Router
	authenticator middleware.Authenticator
	panels        panels.Service
	metrics       *observability.Metrics
}

// View resolves the request path and renders the matching view.
func (h *shellHandlers) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)
	sess, _ := middleware.SessionFromContext(ctx)

	res := h.router.Resolve(r.URL.Path, tokenReader(sess))
	h.metrics.ObserveResolution(string(res.Outcome))

	switch res.Outcome {
	case router.OutcomeRedirect:
		if res.Reason == router.ReasonMissingToken {
			logger.Info("auth guard redirect", zap.String("view", string(res.Path)), zap.String("reason", res.Reason))
			h.metrics.ObserveGuardRedirect(res.Reason)
			middleware.HandleUnauthorized(w, r, signInWithNext(res.Path), middleware.ReasonMissingToken)
			return
		}
		redirect(w, r, string(res.Target), http.StatusFound)
		return
	case router.OutcomeNotFound:
		renderShell(w, r, renderState{
			Path:   res.Path,
			Title:  "Page not found",
			Body:   templates.NotFound(templates.NotFoundData{Path: string(res.Path)}),
			Status: http.StatusNotFound,
		})
		return
	}

	desc := res.View
	if desc.RequiresAuth && h.router.GuardEnabled() {
		user, reason := middleware.VerifySession(r, h.authenticator, sess)
		if reason != "" {
			logger.Info("auth guard redirect", zap.String("view", string(desc.Path)), zap.String("reason", reason))
			h.metrics.ObserveGuardRedirect(reason)
			middleware.HandleUnauthorized(w, r, signInWithNext(desc.Path), reason)
			return
		}
		r = r.WithContext(middleware.ContextWithUser(ctx, user))
	}

	switch desc.Kind {
	case views.KindSignIn, views.KindSignUp:
		data := authPageData(r, desc, nil)
		renderShell(w, r, renderState{Path: desc.Path, Kind: desc.Kind, Title: desc.Title, Body: authBody(desc.Kind, data)})
	case views.KindLanding:
		body := templates.Landing(templates.LandingData{Title: desc.Title, Summary: desc.Summary, Selector: selectorData(desc)})
		renderShell(w, r, renderState{Path: desc.Path, Kind: desc.Kind, Title: desc.Title, Body: body})
	case views.KindPanel:
		h.renderPanel(w, r, desc)
	case views.KindLogout:
		h.Logout(w, r)
	default:
		logger.Error("unhandled view kind", zap.String("kind", string(desc.Kind)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *shellHandlers) renderPanel(w http.ResponseWriter, r *http.Request, desc views.Descriptor) {
	panel, err := h.panels.Panel(r.Context(), desc.Path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, panels.ErrNotFound) {
			status = http.StatusNotFound
		}
		observability.FromContext(r.Context()).Error("panel lookup failed", zap.String("view", string(desc.Path)), zap.Error(err))
		http.Error(w, http.StatusText(status), status)
		return
	}

	data := templates.PanelData{
		Path:      panel.Path,
		Title:     panel.Title,
		SourceURL: panel.SourceURL,
		Summary:   desc.Summary,
		Selector:  selectorData(desc),
	}
	data.UserEmail = signedInEmail(r)
	renderShell(w, r, renderState{Path: desc.Path, Kind: desc.Kind, Title: panel.Title, Body: templates.Panel(data)})
}

// Navigate dispatches a selector choice.
func (h *shellHandlers) Navigate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	from := views.Normalize(q.Get("from"))
	choice := q.Get("to")

	tr := navigation.Select(h.router.Registry(), from, choice)
	h.metrics.ObserveTransition(string(tr.Mode))
	htmx := middleware.IsHTMXRequest(ctx)

	if !tr.Changed() {
		if strings.TrimSpace(choice) != "" && views.Normalize(choice) != from {
			observability.FromContext(ctx).Info("navigation choice rejected",
				zap.String("from", string(from)),
				zap.String("choice", choice),
			)
		}
		if htmx {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		back := from
		if _, ok := h.router.Registry().Lookup(from); !ok {
			back = h.router.Registry().Fallback()
		}
		http.Redirect(w, r, string(back), http.StatusSeeOther)
		return
	}

	if tr.Mode == navigation.ModeHard {
		redirect(w, r, string(tr.To), http.StatusSeeOther)
		return
	}
	if !htmx {
		http.Redirect(w, r, string(tr.To), http.StatusSeeOther)
		return
	}
	if err := setHXLocation(w, tr.To); err != nil {
		observability.FromContext(ctx).Error("encode HX-Location", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Logout clears the session token, drops the session cookie and hands the
// visitor to sign-in, replacing the current history entry.
func (h *shellHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := middleware.SessionFromContext(ctx)

	var store session.TokenStore
	hadToken := false
	if ok {
		store = sess
		_, hadToken = sess.Token()
	}
	tr := navigation.Logout(store)
	if ok {
		sess.Destroy()
	}
	h.metrics.ObserveLogout(hadToken)
	observability.FromContext(ctx).Info("logout", zap.Bool("token_cleared", hadToken))

	if !middleware.IsHTMXRequest(ctx) {
		target := url.URL{Path: string(tr.To), RawQuery: url.Values{"status": {"logged_out"}}.Encode()}
		http.Redirect(w, r, target.String(), http.StatusSeeOther)
		return
	}

	header := w.Header()
	if tr.Replace {
		header.Set("HX-Replace-Url", string(tr.To))
	} else {
		header.Set("HX-Push-Url", string(tr.To))
	}
	header.Set("HX-Retarget", "#"+templates.ShellID)
	header.Set("HX-Reswap", "outerHTML")

	desc, _ := h.router.Registry().Lookup(tr.To)
	data := authPageData(r, desc, &authFormState{Message: loggedOutMessage})
	renderShell(w, r, renderState{Path: desc.Path, Kind: desc.Kind, Title: desc.Title, Body: authBody(desc.Kind, data)})
}

type renderState struct {
	Path   views.Path
	Kind   views.Kind
	Title  string
	Body   templ.Component
	Status int
}

// renderShell writes the shell region as an htmx fragment or as a full page.
func renderShell(w http.ResponseWriter, r *http.Request, state renderState) {
	ctx := r.Context()
	status := state.Status
	if status == 0 {
		status = http.StatusOK
	}
	kind := state.Kind
	if kind == "" {
		kind = "not-found"
	}
	region := templates.Shell(state.Path, kind, state.Body)

	info := middleware.HTMXInfoFromContext(ctx)
	var page templ.Component
	if info.IsHTMX && !info.HistoryRestore {
		page = templates.Fragment(state.Title, region)
	} else {
		page = templates.Page(templates.LayoutData{
			Title:       state.Title,
			Environment: middleware.EnvironmentFromContext(ctx),
			CSRFToken:   middleware.CSRFTokenFromContext(ctx),
		}, region)
	}
	templ.Handler(page, templ.WithStatus(status)).ServeHTTP(w, r)
}

// signedInEmail prefers the identity verified on this request and falls back
// to the profile stored at sign-in when the guard is disabled.
func signedInEmail(r *http.Request) string {
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		return user.Email
	}
	if sess, ok := middleware.SessionFromContext(r.Context()); ok && sess.User() != nil {
		return sess.User().Email
	}
	return ""
}

func selectorData(desc views.Descriptor) partials.SelectorData {
	return partials.SelectorData{
		From:    desc.Path,
		Options: desc.Options,
		Hard:    desc.HardNavigation,
	}
}

// tokenReader avoids handing the router a typed nil.
func tokenReader(sess *session.Session) session.TokenReader {
	if sess == nil {
		return nil
	}
	return sess
}

func signInWithNext(next views.Path) string {
	u := url.URL{Path: string(views.PathSignIn)}
	if next != "" && next != views.PathRoot {
		u.RawQuery = url.Values{"next": {string(next)}}.Encode()
	}
	return u.String()
}

// redirect sends a full document navigation: HX-Redirect for htmx, a plain
// redirect otherwise.
func redirect(w http.ResponseWriter, r *http.Request, target string, status int) {
	if middleware.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, status)
}

func setHXLocation(w http.ResponseWriter, to views.Path) error {
	payload, err := json.Marshal(middleware.HTMXLocation{
		Path:   string(to),
		Target: "#" + templates.ShellID,
		Swap:   "outerHTML",
	})
	if err != nil {
		return err
	}
	w.Header().Set("HX-Location", string(payload))
	return nil
}
