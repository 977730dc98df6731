package router

import (
	"iter"

	"github.com/vango-dev/routetable/pkg/routepath"
)

// Registry holds an immutable route tree. It is safe for concurrent use.
type Registry struct {
	roots      []*RouteNode
	middleware []Middleware

	// leaves are the match candidates in flattened order.
	leaves []*compiledRoute

	// byName indexes every node; the first occurrence wins.
	byName map[string]*compiledRoute
}

// compiledRoute caches what Resolve and URL need for a node.
type compiledRoute struct {
	node     *RouteNode
	fullPath string
	pattern  []segment
	chain    []*RouteNode
	layouts  []LayoutHandler
}

// Option configures a Registry.
type Option func(*Registry)

// WithMiddleware wraps every loader invocation. The first middleware is the
// outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Registry) {
		r.middleware = append(r.middleware, mw...)
	}
}

// New builds a registry from root nodes. It performs no validation: a table
// with duplicate names or misplaced loaders is accepted, and lookups by name
// then return the first node in flattened order. Use NewValidated or MustNew
// to reject such tables.
//
// The nodes must not be modified after New returns.
func New(roots []*RouteNode, opts ...Option) *Registry {
	r := &Registry{
		roots:  append([]*RouteNode(nil), roots...),
		byName: make(map[string]*compiledRoute),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.compile()
	return r
}

// NewValidated is New preceded by Validate.
func NewValidated(roots []*RouteNode, opts ...Option) (*Registry, error) {
	if err := Validate(roots); err != nil {
		return nil, err
	}
	return New(roots, opts...), nil
}

// MustNew is like NewValidated but panics on a configuration error. It is
// meant for route tables declared at startup.
func MustNew(roots []*RouteNode, opts ...Option) *Registry {
	r, err := NewValidated(roots, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Merge concatenates the roots of several registries. Middleware of the
// first registry is kept. Name uniqueness across the inputs is the caller's
// responsibility.
func Merge(regs ...*Registry) *Registry {
	var roots []*RouteNode
	var mw []Middleware
	for i, r := range regs {
		if r == nil {
			continue
		}
		roots = append(roots, r.roots...)
		if i == 0 {
			mw = r.middleware
		}
	}
	return New(roots, WithMiddleware(mw...))
}

func (r *Registry) compile() {
	var walk func(nodes []*RouteNode, parent string, chain []*RouteNode, layouts []LayoutHandler)
	walk = func(nodes []*RouteNode, parent string, chain []*RouteNode, layouts []LayoutHandler) {
		for _, n := range nodes {
			if n == nil || onChain(chain, n) {
				continue
			}
			full := routepath.Join(parent, n.Path)
			nodeChain := append(append([]*RouteNode(nil), chain...), n)
			nodeLayouts := layouts
			if n.Layout != nil && n.IsSection() {
				nodeLayouts = append(append([]LayoutHandler(nil), layouts...), n.Layout)
			}
			cr := &compiledRoute{
				node:     n,
				fullPath: full,
				pattern:  compilePattern(full),
				chain:    nodeChain,
				layouts:  nodeLayouts,
			}
			if _, exists := r.byName[n.Name]; !exists {
				r.byName[n.Name] = cr
			}
			if n.IsLeaf() {
				r.leaves = append(r.leaves, cr)
			}
			walk(n.Children, full, nodeChain, nodeLayouts)
		}
	}
	walk(r.roots, "/", nil, nil)
}

// onChain reports whether n already appears among its own ancestors, which
// would make the tree cyclic. Such back edges are skipped so traversal stays
// finite; Validate reports them.
func onChain(chain []*RouteNode, n *RouteNode) bool {
	for _, c := range chain {
		if c == n {
			return true
		}
	}
	return false
}

// Roots returns a copy of the root nodes.
func (r *Registry) Roots() []*RouteNode {
	return append([]*RouteNode(nil), r.roots...)
}

// Flatten yields every node with its full path, depth first, children in
// declaration order. Each call walks the tree afresh.
func (r *Registry) Flatten() iter.Seq2[string, *RouteNode] {
	return func(yield func(string, *RouteNode) bool) {
		walkTree(r.roots, func(e Entry) bool {
			return yield(e.FullPath, e.Node)
		})
	}
}

// Entries returns the flattened table as a slice.
func (r *Registry) Entries() []Entry {
	var out []Entry
	walkTree(r.roots, func(e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Len returns the number of nodes in the tree.
func (r *Registry) Len() int {
	n := 0
	for range r.Flatten() {
		n++
	}
	return n
}

// walkTree visits nodes depth first until visit returns false.
func walkTree(roots []*RouteNode, visit func(Entry) bool) {
	var walk func(nodes []*RouteNode, parent string, chain []*RouteNode) bool
	walk = func(nodes []*RouteNode, parent string, chain []*RouteNode) bool {
		for _, n := range nodes {
			if n == nil || onChain(chain, n) {
				continue
			}
			full := routepath.Join(parent, n.Path)
			if !visit(Entry{FullPath: full, Node: n, Depth: len(chain)}) {
				return false
			}
			if !walk(n.Children, full, append(chain, n)) {
				return false
			}
		}
		return true
	}
	walk(roots, "/", nil)
}

// Lookup returns the node registered under name.
func (r *Registry) Lookup(name string) (*RouteNode, bool) {
	cr, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return cr.node, true
}

// FullPath returns the resolved pattern of the named node.
func (r *Registry) FullPath(name string) (string, bool) {
	cr, ok := r.byName[name]
	if !ok {
		return "", false
	}
	return cr.fullPath, true
}
