package app

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/vdom"
)

// Shell renders the persistent chrome around views: document, sidebar menu
// and the fallback pages.
type Shell struct {
	// Brand is shown in the header and page titles.
	Brand string

	mu   sync.RWMutex
	menu []router.NavItem
}

// NewShell creates a shell with the given brand.
func NewShell(brand string) *Shell {
	return &Shell{Brand: brand}
}

// SetMenu sets the sidebar items. It is called after the registry is
// built and again whenever the route table is reloaded.
func (s *Shell) SetMenu(items []router.NavItem) {
	s.mu.Lock()
	s.menu = items
	s.mu.Unlock()
}

func (s *Shell) menuItems() []router.NavItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.menu
}

// Document wraps body in a full HTML page titled after the match.
func (s *Shell) Document(m *router.Match, body *vdom.VNode) *vdom.VNode {
	title := s.Brand
	if t := m.Title(); t != "" {
		title = t + " · " + s.Brand
	}
	return vdom.Html(
		vdom.Head(
			vdom.Meta(vdom.Charset("utf-8")),
			vdom.Title(title),
		),
		vdom.Body(vdom.Div(vdom.ID("app"), body), vdom.Script(vdom.Src("/_nav.js"))),
	)
}

// Layout is the section layout: header, sidebar and the active view.
func (s *Shell) Layout(ctx context.Context, m *router.Match, children router.Slot) *vdom.VNode {
	active := ""
	if m != nil && m.Route != nil {
		active = m.Route.Name
	}
	return vdom.Div(vdom.Class("shell"),
		vdom.Header(vdom.Class("shell-header"), vdom.A(vdom.Href("/"), s.Brand)),
		vdom.Aside(vdom.Class("shell-sidebar"),
			vdom.Nav(vdom.Ul(vdom.Range(s.menuItems(), func(_ int, item router.NavItem) *vdom.VNode {
				return navItem(item, active)
			}))),
		),
		vdom.Main(vdom.ID("view"), vdom.Class("shell-main"), children),
	)
}

func navItem(item router.NavItem, active string) *vdom.VNode {
	icon := vdom.If(item.Icon != "", vdom.I(vdom.Class("icon icon-"+item.Icon)))

	var label *vdom.VNode
	switch {
	case item.Group:
		label = vdom.Span(vdom.Class("nav-group"), icon, item.Title)
	case item.Href != "":
		label = vdom.A(vdom.Href(item.Href), icon, item.Title)
	default:
		label = vdom.Span(icon, item.Title)
	}

	var current vdom.Attr
	if item.Covers(active) {
		current = vdom.AriaCurrent("page")
	}

	var children *vdom.VNode
	if len(item.Children) > 0 {
		children = vdom.Ul(vdom.Range(item.Children, func(_ int, c router.NavItem) *vdom.VNode {
			return navItem(c, active)
		}))
	}
	return vdom.Li(vdom.Data("route", item.Name), current, label, children)
}

// NotFound renders the fallback view inside the shell.
func (s *Shell) NotFound(ctx context.Context, path string) *vdom.VNode {
	body := vdom.Section(vdom.Class("not-found"),
		vdom.H1("Page not found"),
		vdom.P("No page lives at ", vdom.Span(vdom.Class("path"), path), "."),
		vdom.A(vdom.Href(s.home()), "Back to start"),
	)
	return s.Layout(ctx, nil, body)
}

// LoadError renders the panel shown in place of a view whose loader failed.
// The caller composes it with the match's layouts so the chrome stays.
// path is the requested path, used for the retry link.
func (s *Shell) LoadError(m *router.Match, path string, err error) *vdom.VNode {
	msg := "The page could not be loaded."
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "The page took too long to load."
	}
	var route vdom.Attr
	if m != nil && m.Route != nil {
		route = vdom.Data("route", m.Route.Name)
	}
	return vdom.Section(vdom.Class("load-error"), vdom.Role("alert"), route,
		vdom.H2(http.StatusText(http.StatusInternalServerError)),
		vdom.P(msg),
		vdom.A(vdom.Class("retry"), vdom.Href(path), "Try again"),
	)
}

func (s *Shell) home() string {
	for _, item := range s.menu {
		if item.Href != "" {
			return item.Href
		}
	}
	return "/"
}
