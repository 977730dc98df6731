package router

import (
	"context"

	"github.com/vango-dev/routetable/pkg/vdom"
)

// tabView renders the active tab index, defaulting to 0 when absent.
var tabView = ViewFunc(func(p Params) *vdom.VNode {
	if p.Has("activeTabIndex") {
		return vdom.Text("tab " + p.Get("activeTabIndex"))
	}
	return vdom.Text("tab 0")
})

func shellLayout(ctx context.Context, m *Match, children Slot) *vdom.VNode {
	return vdom.Div(vdom.Class("shell"), children)
}

// generalRoutes mirrors the sample table: one section with a shared layout
// and two leaves pointing at the same view.
func generalRoutes() []*RouteNode {
	return []*RouteNode{
		{
			Path:   "",
			Name:   "General",
			Meta:   Meta{Title: "general", Icon: "chart", HasGroup: false, Exact: true},
			Layout: shellLayout,
			Children: []*RouteNode{
				{
					Path:   "/general",
					Name:   "GeneralServices",
					Meta:   Meta{Exact: true},
					Loader: Static(tabView),
				},
				{
					Path:   "/general/tab/:activeTabIndex",
					Name:   "GeneralServicesActiveTabIndex",
					Meta:   Meta{Exact: true},
					Loader: Static(tabView),
				},
			},
		},
	}
}

func leaf(path, name string, exact bool) *RouteNode {
	return &RouteNode{Path: path, Name: name, Meta: Meta{Exact: exact}, Loader: Static(tabView)}
}
