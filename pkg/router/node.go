package router

import (
	"strings"

	"github.com/vango-dev/routetable/pkg/routepath"
)

// RouteNode is one addressable location in the route table.
type RouteNode struct {
	// Path is the node's pattern, absolute or relative to its parent.
	Path string

	// Name identifies the node across the whole table.
	Name string

	// Meta holds display and matching metadata.
	Meta Meta

	// Loader produces the node's view. Only leaves bind one.
	Loader ViewLoader

	// Layout wraps the rendered output of the node's children.
	Layout LayoutHandler

	// Children are nested routes in declaration order.
	Children []*RouteNode
}

// IsLeaf reports whether the node has no children.
func (n *RouteNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsSection reports whether the node groups child routes.
func (n *RouteNode) IsSection() bool {
	return len(n.Children) > 0
}

// segment is one compiled component of a route pattern.
type segment struct {
	literal  string
	param    string
	optional bool
}

func (s segment) isParam() bool {
	return s.param != ""
}

// compilePattern splits a full route pattern into segments.
//
//	"/general/tab/:activeTabIndex" → [general] [tab] [:activeTabIndex]
//	"/files/:name?"                → [files] [:name?]
func compilePattern(pattern string) []segment {
	parts := routepath.Split(pattern)
	out := make([]segment, 0, len(parts))
	for _, p := range parts {
		if name, optional, ok := parseParamSegment(p); ok {
			out = append(out, segment{param: name, optional: optional})
			continue
		}
		out = append(out, segment{literal: p})
	}
	return out
}

// parseParamSegment returns the parameter name of a ":name" or ":name?"
// segment and whether seg is a parameter at all.
func parseParamSegment(seg string) (name string, optional, ok bool) {
	if !strings.HasPrefix(seg, ":") {
		return "", false, false
	}
	name = seg[1:]
	if strings.HasSuffix(name, "?") {
		return strings.TrimSuffix(name, "?"), true, true
	}
	return name, false, true
}
