// Package public embeds the shell's stylesheet and serves it under Prefix.
package public

import (
	"embed"
	"io/fs"
	"net/http"
)

const (
	// Prefix is the URL path the embedded assets are mounted on.
	Prefix = "/public/static/"
	// Stylesheet is the URL of the shell stylesheet.
	Stylesheet = Prefix + "shell.css"
)

//go:embed static/*
var assets embed.FS

// Handler serves the embedded assets. Mount it on Prefix + "*".
func Handler() (http.Handler, error) {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}
	return http.StripPrefix(Prefix, http.FileServer(http.FS(sub))), nil
}
