package views

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed views.yaml
var defaultRegistry []byte

// ErrInvalidRegistry indicates the registry document failed validation.
var ErrInvalidRegistry = errors.New("views: invalid registry")

// Path identifies a view. Only the values listed in knownPaths are routable.
type Path string

const (
	PathRoot   Path = "/"
	PathSignIn Path = "/signin"
	PathSignUp Path = "/signup"
	PathHome   Path = "/homepage"
	PathDash   Path = "/dash"
	PathDash2  Path = "/dash2"
	PathDash3  Path = "/dash3"
	PathDash4  Path = "/dash4"
	PathLogout Path = "/logout"
)

var knownPaths = map[Path]struct{}{
	PathRoot:   {},
	PathSignIn: {},
	PathSignUp: {},
	PathHome:   {},
	PathDash:   {},
	PathDash2:  {},
	PathDash3:  {},
	PathDash4:  {},
	PathLogout: {},
}

// Known reports whether p belongs to the closed path set.
func Known(p Path) bool {
	_, ok := knownPaths[p]
	return ok
}

// Kind selects how a view renders.
type Kind string

const (
	KindSignIn  Kind = "signin"
	KindSignUp  Kind = "signup"
	KindLanding Kind = "landing"
	KindPanel   Kind = "panel"
	KindLogout  Kind = "logout"
)

func (k Kind) valid() bool {
	switch k {
	case KindSignIn, KindSignUp, KindLanding, KindPanel, KindLogout:
		return true
	default:
		return false
	}
}

// Option is a single entry of the navigation selector.
type Option struct {
	Label  string `yaml:"label"`
	Target Path   `yaml:"target"`
}

// Descriptor describes how a path renders and whether it needs a session token.
type Descriptor struct {
	Path         Path
	Title        string
	Kind         Kind
	RequiresAuth bool
	// HardNavigation makes selector choices on this view reload the whole document.
	HardNavigation bool
	PanelURL       string
	// Summary is a short Markdown blurb shown above the selector.
	Summary string
	Options []Option
}

// Selectable reports whether the view renders a navigation selector.
func (d Descriptor) Selectable() bool {
	return d.Kind == KindLanding || d.Kind == KindPanel
}

// Offers reports whether target is one of the view's navigation options.
func (d Descriptor) Offers(target Path) bool {
	for _, opt := range d.Options {
		if opt.Target == target {
			return true
		}
	}
	return false
}

// Registry is the immutable path → descriptor table.
type Registry struct {
	fallback    Path
	order       []Path
	descriptors map[Path]Descriptor
	navigation  []Option
}

type document struct {
	Default    Path       `yaml:"default"`
	Views      []viewSpec `yaml:"views"`
	Navigation []Option   `yaml:"navigation"`
}

type viewSpec struct {
	Path           Path   `yaml:"path"`
	Title          string `yaml:"title"`
	Kind           Kind   `yaml:"kind"`
	RequiresAuth   bool   `yaml:"requires_auth"`
	HardNavigation bool   `yaml:"hard_navigation"`
	PanelURL       string `yaml:"panel_url"`
	Summary        string `yaml:"summary"`
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Load(defaultRegistry)
}

// MustDefault is Default for package initialisation; it panics on a broken build.
func MustDefault() *Registry {
	reg, err := Default()
	if err != nil {
		panic(err)
	}
	return reg
}

// Load parses and validates a registry document.
func Load(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidRegistry, err)
	}
	return build(doc)
}

func build(doc document) (*Registry, error) {
	reg := &Registry{
		fallback:    doc.Default,
		descriptors: make(map[Path]Descriptor, len(doc.Views)),
	}

	for _, v := range doc.Views {
		if v.Path == PathRoot || !Known(v.Path) {
			return nil, fmt.Errorf("%w: path %q is not routable", ErrInvalidRegistry, v.Path)
		}
		if _, dup := reg.descriptors[v.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate path %q", ErrInvalidRegistry, v.Path)
		}
		if !v.Kind.valid() {
			return nil, fmt.Errorf("%w: path %q has unknown kind %q", ErrInvalidRegistry, v.Path, v.Kind)
		}
		panelURL := strings.TrimSpace(v.PanelURL)
		if v.Kind == KindPanel && panelURL == "" {
			return nil, fmt.Errorf("%w: panel %q needs panel_url", ErrInvalidRegistry, v.Path)
		}
		reg.order = append(reg.order, v.Path)
		reg.descriptors[v.Path] = Descriptor{
			Path:           v.Path,
			Title:          strings.TrimSpace(v.Title),
			Kind:           v.Kind,
			RequiresAuth:   v.RequiresAuth,
			HardNavigation: v.HardNavigation,
			PanelURL:       panelURL,
			Summary:        strings.TrimSpace(v.Summary),
		}
	}

	if _, ok := reg.descriptors[reg.fallback]; !ok {
		return nil, fmt.Errorf("%w: default %q is not registered", ErrInvalidRegistry, reg.fallback)
	}
	if reg.descriptors[reg.fallback].RequiresAuth {
		return nil, fmt.Errorf("%w: default %q must not require auth", ErrInvalidRegistry, reg.fallback)
	}

	seen := make(map[Path]struct{}, len(doc.Navigation))
	for _, opt := range doc.Navigation {
		if _, ok := reg.descriptors[opt.Target]; !ok {
			return nil, fmt.Errorf("%w: navigation target %q is not registered", ErrInvalidRegistry, opt.Target)
		}
		if _, dup := seen[opt.Target]; dup {
			return nil, fmt.Errorf("%w: navigation target %q listed twice", ErrInvalidRegistry, opt.Target)
		}
		if strings.TrimSpace(opt.Label) == "" {
			return nil, fmt.Errorf("%w: navigation target %q has no label", ErrInvalidRegistry, opt.Target)
		}
		seen[opt.Target] = struct{}{}
		reg.navigation = append(reg.navigation, Option{Label: strings.TrimSpace(opt.Label), Target: opt.Target})
	}

	for path, desc := range reg.descriptors {
		if !desc.Selectable() {
			continue
		}
		desc.Options = optionsExcluding(reg.navigation, path)
		reg.descriptors[path] = desc
	}
	return reg, nil
}

func optionsExcluding(all []Option, self Path) []Option {
	out := make([]Option, 0, len(all))
	for _, opt := range all {
		if opt.Target == self {
			continue
		}
		out = append(out, opt)
	}
	return out
}

// Fallback is the path root redirects to.
func (r *Registry) Fallback() Path {
	return r.fallback
}

// Lookup returns the descriptor registered for p.
func (r *Registry) Lookup(p Path) (Descriptor, bool) {
	desc, ok := r.descriptors[p]
	if !ok {
		return Descriptor{}, false
	}
	desc.Options = append([]Option(nil), desc.Options...)
	return desc, true
}

// Panels lists the panel descriptors in declaration order.
func (r *Registry) Panels() []Descriptor {
	var out []Descriptor
	for _, p := range r.order {
		if desc := r.descriptors[p]; desc.Kind == KindPanel {
			out = append(out, desc)
		}
	}
	return out
}

// Normalize maps a raw request path onto a Path, trimming trailing slashes.
// Unknown values pass through unchanged so callers can treat them as unmatched.
func Normalize(raw string) Path {
	p := strings.TrimSpace(raw)
	if p == "" {
		return PathRoot
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return Path(p)
}
