package navigation

import (
	"strings"

	"github.com/Adribv/React-Python-Charts-App/internal/shell/session"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

// PlaceholderLabel is shown for the disabled "no selection" entry.
const PlaceholderLabel = "Select Page"

// Mode describes how a path change reaches the browser.
type Mode string

const (
	// ModeNone leaves the active path untouched.
	ModeNone Mode = "none"
	// ModeInApp swaps the shell region without reloading the document.
	ModeInApp Mode = "in_app"
	// ModeHard replaces the whole document.
	ModeHard Mode = "hard"
)

// Transition is the result of a selector choice or of logout.
type Transition struct {
	Mode Mode
	From views.Path
	To   views.Path
	// Replace asks the browser to replace the current history entry.
	Replace bool
}

// Changed reports whether the transition moves to another path.
func (t Transition) Changed() bool {
	return t.Mode != ModeNone
}

// Select resolves a selector choice made on the view at from. Choices that are
// empty, equal to from, or not offered by from are no-ops.
func Select(registry *views.Registry, from views.Path, choice string) Transition {
	none := Transition{Mode: ModeNone, From: from, To: from}
	if registry == nil {
		return none
	}

	desc, ok := registry.Lookup(from)
	if !ok || !desc.Selectable() {
		return none
	}

	choice = strings.TrimSpace(choice)
	if choice == "" {
		return none
	}
	target := views.Normalize(choice)
	if target == from || !desc.Offers(target) {
		return none
	}

	mode := ModeInApp
	if desc.HardNavigation {
		mode = ModeHard
	}
	return Transition{Mode: mode, From: from, To: target}
}

// Logout clears the stored token and returns the in-app, history-replacing
// transition to sign-in. It is safe to call on an empty session.
func Logout(store session.TokenStore) Transition {
	if store != nil {
		store.ClearToken()
	}
	return Transition{
		Mode:    ModeInApp,
		From:    views.PathLogout,
		To:      views.PathSignIn,
		Replace: true,
	}
}
