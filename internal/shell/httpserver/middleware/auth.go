package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/observability"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/session"
)

type authContextKey string

const userContextKey authContextKey = "auth.user"

// User represents the identity behind a verified token.
type User struct {
	UID   string
	Email string
	Token string
}

// Authenticator resolves an identity token into a User.
type Authenticator interface {
	Authenticate(r *http.Request, token string) (*User, error)
}

var (
	// ErrUnauthorized is returned when authentication fails.
	ErrUnauthorized = errors.New("unauthorized")
)

// AuthError contains reason codes for failed authentication attempts.
type AuthError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError constructs an AuthError with the provided reason.
func NewAuthError(reason string, err error) error {
	return &AuthError{Reason: reason, Err: err}
}

const (
	// ReasonMissingToken indicates an auth attempt without credentials.
	ReasonMissingToken = "missing_token"
	// ReasonTokenInvalid indicates a malformed or invalid token.
	ReasonTokenInvalid = "token_invalid"
	// ReasonTokenExpired indicates an expired token which may be recoverable.
	ReasonTokenExpired = "token_expired"
)

// DefaultAuthenticator accepts any non-empty token and is intended for local development.
func DefaultAuthenticator() Authenticator {
	return &passthroughAuthenticator{}
}

// RejectingAuthenticator refuses every token. Production servers without a
// configured identity provider fall back to it.
func RejectingAuthenticator() Authenticator {
	return rejectingAuthenticator{}
}

// AuthReason extracts the reason code from an authentication error.
func AuthReason(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Reason != "" {
		return authErr.Reason
	}
	return ReasonTokenInvalid
}

// VerifySession checks the token stored in the session. On failure the token
// is cleared and the reason code returned; on success the session profile is
// refreshed and the user returned.
func VerifySession(r *http.Request, authenticator Authenticator, sess *session.Session) (*User, string) {
	if authenticator == nil {
		authenticator = DefaultAuthenticator()
	}
	if sess == nil {
		return nil, ReasonMissingToken
	}
	logger := observability.FromContext(r.Context())

	token, ok := sess.Token()
	if !ok {
		return nil, ReasonMissingToken
	}

	user, err := authenticator.Authenticate(r, token)
	if err != nil || user == nil {
		if err == nil {
			err = ErrUnauthorized
		}
		reason := AuthReason(err)
		logger.Info("auth failure", zap.String("reason", reason), zap.Error(err))
		sess.ClearToken()
		return nil, reason
	}

	sess.SetUser(&session.User{UID: user.UID, Email: user.Email})
	return user, ""
}

// ContextWithUser attaches the authenticated user to ctx.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user if present.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok && user != nil
}

// LoginRedirectURL builds the sign-in URL carrying the reason a visitor was
// sent there. Missing tokens carry no reason.
func LoginRedirectURL(loginPath, reason string) string {
	var query string
	switch reason {
	case ReasonTokenExpired:
		query = "expired"
	case ReasonTokenInvalid:
		query = ReasonTokenInvalid
	default:
		return loginPath
	}
	u, err := url.Parse(loginPath)
	if err != nil {
		return loginPath
	}
	q := u.Query()
	q.Set("reason", query)
	u.RawQuery = q.Encode()
	return u.String()
}

// HandleUnauthorized sends the visitor to the sign-in view. htmx requests get
// HX-Redirect so the whole document is replaced.
func HandleUnauthorized(w http.ResponseWriter, r *http.Request, loginPath, reason string) {
	target := LoginRedirectURL(loginPath, reason)
	if IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type passthroughAuthenticator struct{}

func (p *passthroughAuthenticator) Authenticate(_ *http.Request, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, NewAuthError(ReasonMissingToken, ErrUnauthorized)
	}
	return &User{
		UID:   token,
		Token: token,
	}, nil
}

type rejectingAuthenticator struct{}

func (rejectingAuthenticator) Authenticate(_ *http.Request, token string) (*User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, NewAuthError(ReasonMissingToken, ErrUnauthorized)
	}
	return nil, NewAuthError(ReasonTokenInvalid, ErrUnauthorized)
}
