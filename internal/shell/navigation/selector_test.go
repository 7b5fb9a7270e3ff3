package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

type memoryStore struct {
	token  string
	clears int
}

func (m *memoryStore) Token() (string, bool) { return m.token, m.token != "" }
func (m *memoryStore) SetToken(token string) { m.token = token }
func (m *memoryStore) ClearToken() bool {
	m.clears++
	had := m.token != ""
	m.token = ""
	return had
}

func TestSelectPlaceholderIsNoop(t *testing.T) {
	t.Parallel()

	reg := views.MustDefault()
	for _, from := range []views.Path{views.PathHome, views.PathDash, views.PathDash4} {
		tr := Select(reg, from, "")
		require.Equal(t, ModeNone, tr.Mode)
		require.Equal(t, from, tr.To)
		require.False(t, tr.Changed())

		tr = Select(reg, from, "   ")
		require.Equal(t, ModeNone, tr.Mode)
	}
}

func TestSelectCurrentViewIsNoop(t *testing.T) {
	t.Parallel()

	reg := views.MustDefault()
	tr := Select(reg, views.PathDash2, "/dash2")
	require.Equal(t, ModeNone, tr.Mode)
	require.Equal(t, views.PathDash2, tr.To)

	tr = Select(reg, views.PathDash2, "/dash2/")
	require.Equal(t, ModeNone, tr.Mode)
}

func TestSelectFromDashboardIsInApp(t *testing.T) {
	t.Parallel()

	reg := views.MustDefault()
	tr := Select(reg, views.PathDash3, "/dash4")
	require.Equal(t, Transition{Mode: ModeInApp, From: views.PathDash3, To: views.PathDash4}, tr)

	next, ok := reg.Lookup(tr.To)
	require.True(t, ok)
	require.False(t, next.Offers(views.PathDash4), "the new view must not offer itself")
	require.True(t, next.Offers(views.PathDash3))
}

func TestSelectFromLandingIsHard(t *testing.T) {
	t.Parallel()

	reg := views.MustDefault()
	tr := Select(reg, views.PathHome, "/dash")
	require.Equal(t, ModeHard, tr.Mode)
	require.Equal(t, views.PathDash, tr.To)
}

func TestSelectRejectsChoicesOutsideTheList(t *testing.T) {
	t.Parallel()

	reg := views.MustDefault()
	for _, choice := range []string{"/logout", "/signin", "/homepage", "/dash9", "https://evil.example/dash"} {
		tr := Select(reg, views.PathDash, choice)
		require.Equal(t, ModeNone, tr.Mode, "choice %q", choice)
	}

	// Views without a selector never transition.
	require.Equal(t, ModeNone, Select(reg, views.PathSignIn, "/dash").Mode)
	require.Equal(t, ModeNone, Select(reg, views.Path("/nowhere"), "/dash").Mode)
	require.Equal(t, ModeNone, Select(nil, views.PathDash, "/dash2").Mode)
}

func TestLogoutClearsTokenAndReplacesHistory(t *testing.T) {
	t.Parallel()

	for _, prior := range []string{"abc123", "", "%%malformed%%"} {
		store := &memoryStore{token: prior}
		tr := Logout(store)
		_, ok := store.Token()
		require.False(t, ok, "prior %q", prior)
		require.Equal(t, Transition{Mode: ModeInApp, From: views.PathLogout, To: views.PathSignIn, Replace: true}, tr)
	}
}

func TestLogoutTwiceMatchesOnce(t *testing.T) {
	t.Parallel()

	once := &memoryStore{token: "abc123"}
	first := Logout(once)

	twice := &memoryStore{token: "abc123"}
	Logout(twice)
	second := Logout(twice)

	require.Equal(t, first, second)
	require.Equal(t, once.token, twice.token)
	require.Equal(t, 2, twice.clears)

	require.NotPanics(t, func() { Logout(nil) })
}
