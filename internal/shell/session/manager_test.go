package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fixedClock struct {
	current time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.current
}

func newTestManager(t *testing.T) (*Manager, *fixedClock) {
	t.Helper()

	hashKey := []byte("12345678901234567890123456789012")
	blockKey := []byte("abcdefghijklmnopqrstuv0123456789")
	clock := &fixedClock{current: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	httpOnly := true
	mgr, err := NewManager(Config{
		CookieName:       "test_session",
		HashKey:          hashKey,
		BlockKey:         blockKey,
		CookiePath:       "/",
		CookieHTTPOnly:   &httpOnly,
		IdleTimeout:      10 * time.Minute,
		Lifetime:         2 * time.Hour,
		RememberLifetime: 48 * time.Hour,
		Now:              clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return mgr, clock
}

func TestNewManagerRequiresHashKey(t *testing.T) {
	if _, err := NewManager(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestManager_TokenRoundTrip(t *testing.T) {
	mgr, clock := newTestManager(t)

	req := httptest.NewRequest("GET", "/signin", nil)
	sess, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess.ID() == "" {
		t.Fatalf("expected session ID")
	}
	if !sess.CreatedAt().Equal(clock.current) {
		t.Fatalf("unexpected CreatedAt: %v", sess.CreatedAt())
	}
	if _, ok := sess.Token(); ok {
		t.Fatalf("fresh session must not carry a token")
	}

	anonymousID := sess.ID()
	sess.SetToken("abc123")
	sess.SetUser(&User{UID: "user-1", Email: "test@example.com"})
	if sess.ID() == anonymousID {
		t.Fatalf("expected session id rotation on sign-in")
	}

	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil {
		t.Fatalf("expected session cookie to be set")
	}
	if cookie.MaxAge != 0 || !cookie.Expires.IsZero() {
		t.Fatalf("expected browser-session cookie without remember-me, got max-age=%d expires=%v", cookie.MaxAge, cookie.Expires)
	}

	clock.current = clock.current.Add(5 * time.Minute)
	req2 := httptest.NewRequest("GET", "/dash", nil)
	req2.AddCookie(cookie)
	sess2, err := mgr.Load(req2)
	if err != nil {
		t.Fatalf("Load existing error: %v", err)
	}
	token, ok := sess2.Token()
	if !ok || token != "abc123" {
		t.Fatalf("expected token to persist, got %q", token)
	}
	if sess2.User().Email != "test@example.com" {
		t.Fatalf("expected user to persist")
	}
}

func TestSession_ClearTokenIsIdempotent(t *testing.T) {
	mgr, _ := newTestManager(t)
	sess := mgr.New()
	sess.SetToken("abc123")
	sess.SetUser(&User{UID: "u"})

	if !sess.ClearToken() {
		t.Fatalf("first clear should report removal")
	}
	if sess.ClearToken() {
		t.Fatalf("second clear should be a no-op")
	}
	if _, ok := sess.Token(); ok {
		t.Fatalf("token should be absent")
	}
	if sess.User() != nil {
		t.Fatalf("user should be cleared with the token")
	}
}

func TestSession_BlankTokenCountsAsAbsent(t *testing.T) {
	mgr, _ := newTestManager(t)
	sess := mgr.New()
	sess.SetToken("   ")
	if _, ok := sess.Token(); ok {
		t.Fatalf("blank token must not count as present")
	}
}

func TestManager_RememberMeSetsPersistentCookie(t *testing.T) {
	mgr, clock := newTestManager(t)
	sess := mgr.New()
	sess.SetRememberMe(true)

	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil {
		t.Fatalf("expected cookie")
	}
	want := clock.current.Add(48 * time.Hour)
	if !cookie.Expires.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, cookie.Expires)
	}
}

func TestManager_IdleTimeout(t *testing.T) {
	mgr, clock := newTestManager(t)
	req := httptest.NewRequest("GET", "/homepage", nil)
	sess, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")

	clock.current = clock.current.Add(20 * time.Minute)
	req2 := httptest.NewRequest("GET", "/homepage", nil)
	req2.AddCookie(cookie)
	if _, err := mgr.Load(req2); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestManager_TamperedCookieStartsFresh(t *testing.T) {
	mgr, _ := newTestManager(t)
	req := httptest.NewRequest("GET", "/dash", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "not-a-valid-cookie"})
	sess, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, ok := sess.Token(); ok {
		t.Fatalf("tampered cookie must not yield a token")
	}
}

func TestManager_Destroy(t *testing.T) {
	mgr, _ := newTestManager(t)
	req := httptest.NewRequest("GET", "/logout", nil)
	sess, _ := mgr.Load(req)
	rec := httptest.NewRecorder()
	sess.Destroy()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil || cookie.MaxAge != -1 {
		t.Fatalf("expected session cookie cleared")
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
