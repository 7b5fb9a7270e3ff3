package views

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg, err := Default()
	require.NoError(t, err)
	require.Equal(t, PathSignIn, reg.Fallback())
	var panelPaths []Path
	for _, desc := range reg.Panels() {
		panelPaths = append(panelPaths, desc.Path)
	}
	require.Equal(t, []Path{PathDash, PathDash2, PathDash3, PathDash4}, panelPaths)

	for _, p := range []Path{PathDash, PathDash2, PathDash3, PathDash4} {
		desc, ok := reg.Lookup(p)
		require.True(t, ok, "%s registered", p)
		require.True(t, desc.RequiresAuth, "%s requires auth", p)
		require.False(t, desc.HardNavigation, "%s uses in-app navigation", p)
		require.NotEmpty(t, desc.PanelURL)
		require.NotEmpty(t, desc.Summary)
		require.False(t, desc.Offers(p), "%s must not offer itself", p)
		require.Len(t, desc.Options, 3)
	}

	for _, p := range []Path{PathSignIn, PathSignUp, PathHome, PathLogout} {
		desc, ok := reg.Lookup(p)
		require.True(t, ok)
		require.False(t, desc.RequiresAuth, "%s is public", p)
	}

	home, _ := reg.Lookup(PathHome)
	require.True(t, home.HardNavigation)
	require.Contains(t, home.Summary, "**analytics panel**")
	require.Equal(t, []Option{
		{Label: "Sentiment on Features", Target: PathDash},
		{Label: "Graph On Features", Target: PathDash2},
		{Label: "Sentiment Analysis", Target: PathDash3},
		{Label: "Feedback", Target: PathDash4},
	}, home.Options)

	signin, _ := reg.Lookup(PathSignIn)
	require.Empty(t, signin.Options, "forms render no selector")
}

func TestRegistryPanelURLs(t *testing.T) {
	t.Parallel()

	reg := MustDefault()
	got := map[Path]string{}
	for _, desc := range reg.Panels() {
		got[desc.Path] = desc.PanelURL
	}
	require.Equal(t, map[Path]string{
		PathDash:  "http://localhost:8057",
		PathDash2: "http://localhost:8058",
		PathDash3: "http://localhost:8061",
		PathDash4: "http://localhost:8063",
	}, got)
}

func TestLookupReturnsCopy(t *testing.T) {
	t.Parallel()

	reg := MustDefault()
	desc, _ := reg.Lookup(PathDash)
	desc.Options[0].Target = PathLogout

	again, _ := reg.Lookup(PathDash)
	require.Equal(t, PathDash2, again.Options[0].Target)
}

func TestLoadRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown path": `
default: /signin
views:
  - {path: /signin, kind: signin}
  - {path: /admin, kind: landing}
`,
		"root declared": `
default: /signin
views:
  - {path: /signin, kind: signin}
  - {path: /, kind: landing}
`,
		"duplicate": `
default: /signin
views:
  - {path: /signin, kind: signin}
  - {path: /signin, kind: signin}
`,
		"panel without url": `
default: /signin
views:
  - {path: /signin, kind: signin}
  - {path: /dash, kind: panel}
`,
		"missing default": `
default: /homepage
views:
  - {path: /signin, kind: signin}
`,
		"protected default": `
default: /dash
views:
  - {path: /dash, kind: panel, requires_auth: true, panel_url: "http://x"}
`,
		"dangling navigation": `
default: /signin
views:
  - {path: /signin, kind: signin}
navigation:
  - {label: Feedback, target: /dash4}
`,
		"bad kind": `
default: /signin
views:
  - {path: /signin, kind: modal}
`,
		"not yaml": `{{{`,
	}

	for name, doc := range cases {
		doc := doc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Load([]byte(doc))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidRegistry), "got %v", err)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	require.Equal(t, PathRoot, Normalize(""))
	require.Equal(t, PathRoot, Normalize("/"))
	require.Equal(t, PathDash, Normalize("/dash/"))
	require.Equal(t, PathDash, Normalize("dash"))
	require.Equal(t, Path("/Dash"), Normalize("/Dash"))
	require.False(t, Known(Normalize("/Dash")))
	require.True(t, Known(Normalize("/dash4//")))
}
