// Package navigation implements the per-view selector and the logout flow.
//
// A selector choice on an authenticated dashboard yields an in-app transition
// that keeps client state; a choice on the public landing view yields a hard
// transition that reloads the document. Logout clears the session token and
// replaces the current history entry with sign-in.
package navigation
