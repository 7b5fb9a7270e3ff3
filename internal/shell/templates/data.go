package templates

import (
	"github.com/Adribv/React-Python-Charts-App/internal/shell/templates/partials"
	"github.com/Adribv/React-Python-Charts-App/internal/shell/views"
)

// LayoutData carries the document chrome shared by every full page.
type LayoutData struct {
	Title       string
	Environment string
	CSRFToken   string
}

// LandingData feeds the public landing view, whose selector reloads the document.
type LandingData struct {
	Title    string
	Summary  string
	Selector partials.SelectorData
}

// PanelData feeds a dashboard view. UserEmail is left blank for anonymous visitors.
type PanelData struct {
	Path      views.Path
	Title     string
	SourceURL string
	UserEmail string
	Summary   string
	Selector  partials.SelectorData
}

// NotFoundData names the unregistered path.
type NotFoundData struct {
	Path string
}
