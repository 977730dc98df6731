package router

import (
	"context"

	"github.com/vango-dev/routetable/pkg/vdom"
)

// Meta is the per-route metadata bag.
type Meta struct {
	// Title is the display label used by navigation and page titles.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Icon is an icon identifier for navigation.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`

	// HasGroup marks a section shown as a collapsible navigation group
	// rather than a single entry.
	HasGroup bool `json:"hasGroup,omitempty" yaml:"hasGroup,omitempty"`

	// Exact requires the requested path to match the full pattern with no
	// trailing segments.
	Exact bool `json:"exact,omitempty" yaml:"exact,omitempty"`
}

// Slot is the rendered output of the active child passed to a layout.
type Slot = *vdom.VNode

// View is the unit produced by a ViewLoader. It renders the active page
// from the route parameters.
type View interface {
	Render(params Params) *vdom.VNode
}

// ViewFunc adapts a function to View.
type ViewFunc func(params Params) *vdom.VNode

// Render implements View.
func (f ViewFunc) Render(params Params) *vdom.VNode {
	return f(params)
}

// ViewLoader is a deferred factory for a route's view. It owns no state and
// may be invoked any number of times.
type ViewLoader func(ctx context.Context) (View, error)

// Static returns a loader that resolves immediately to v.
func Static(v View) ViewLoader {
	return func(context.Context) (View, error) {
		return v, nil
	}
}

// LayoutHandler wraps the active child's output in persistent chrome
// (navigation, header). It is supplied by section nodes.
type LayoutHandler func(ctx context.Context, m *Match, children Slot) *vdom.VNode

// Middleware decorates the loader of a route. It is applied on every
// ResolveView call.
type Middleware func(route *RouteNode, next ViewLoader) ViewLoader

// Match is the outcome of a successful Resolve.
type Match struct {
	// Route is the matched leaf.
	Route *RouteNode

	// FullPath is the route's resolved pattern (e.g. "/general/tab/:activeTabIndex").
	FullPath string

	// Params maps parameter names to their decoded values. Never nil.
	Params Params

	// Chain lists the nodes from the root down to Route.
	Chain []*RouteNode

	// Layouts are the layouts of the sections in Chain, root first.
	Layouts []LayoutHandler
}

// Title returns the title of the nearest node in the chain that has one.
func (m *Match) Title() string {
	if m == nil {
		return ""
	}
	for i := len(m.Chain) - 1; i >= 0; i-- {
		if t := m.Chain[i].Meta.Title; t != "" {
			return t
		}
	}
	return ""
}

// Compose renders view output through the match's layouts, innermost first.
func (m *Match) Compose(ctx context.Context, content Slot) *vdom.VNode {
	for i := len(m.Layouts) - 1; i >= 0; i-- {
		content = m.Layouts[i](ctx, m, content)
	}
	return content
}

// Entry pairs a node with its fully resolved path.
type Entry struct {
	FullPath string
	Node     *RouteNode
	Depth    int
}
