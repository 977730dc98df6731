// Package router implements a static, hierarchical route table.
//
// A Registry is built once at startup from an ordered list of root
// RouteNodes and is read-only afterwards. Each node carries a path pattern,
// a globally unique name, display metadata and either a lazy view loader
// (leaf) or a layout wrapping its children (section):
//
//	routes := []*router.RouteNode{{
//	    Path:   "",
//	    Name:   "General",
//	    Meta:   router.Meta{Title: "general", Icon: "chart", Exact: true},
//	    Layout: shell.Layout,
//	    Children: []*router.RouteNode{
//	        {Path: "/general", Name: "GeneralServices", Meta: router.Meta{Exact: true}, Loader: layers},
//	        {Path: "/general/tab/:activeTabIndex", Name: "GeneralServicesActiveTabIndex", Meta: router.Meta{Exact: true}, Loader: layers},
//	    },
//	}}
//
//	reg := router.MustNew(routes)
//
//	m, ok := reg.Resolve("/general/tab/3")
//	if !ok {
//	    // render the not-found page
//	}
//	// m.Params["activeTabIndex"] == "3"
//
//	view, err := reg.ResolveView(ctx, m.Route).Wait(ctx)
//
// # Path patterns
//
// Paths are split on "/". A segment starting with ":" binds a parameter that
// matches exactly one non-empty segment; a trailing "?" makes it optional, in
// which case it may match nothing and is then absent from Params. An absolute
// child path replaces its parent's prefix; a relative one is appended to it.
//
// # Matching
//
// Resolve tests leaf routes in depth-first declaration order and the first
// match wins. A route with Meta.Exact set must consume the whole requested
// path; otherwise trailing segments are allowed to fall through.
//
// # Loading views
//
// ResolveView is the only asynchronous operation. It starts the route's
// loader on its own goroutine and returns a Pending handle immediately. Each
// call is independent: there is no deduplication and no retry. Callers that
// navigate away simply drop the handle; the loader observes the context passed
// to ResolveView.
package router
