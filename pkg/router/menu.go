package router

// NavItem is an entry of the navigation menu derived from route metadata.
type NavItem struct {
	// Name is the route name the item was built from.
	Name string `json:"name"`

	// Title and Icon come from the route's Meta.
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`

	// Href is the link target. Groups and items whose routes all need
	// parameters have none.
	Href string `json:"href,omitempty"`

	// Group marks a collapsible group; its entries are in Children.
	Group    bool      `json:"group,omitempty"`
	Children []NavItem `json:"children,omitempty"`

	// Routes lists the names of all leaf routes the item covers, so a layout
	// can highlight the item for the active route.
	Routes []string `json:"routes,omitempty"`
}

// Covers reports whether the item stands for the named leaf route.
func (n NavItem) Covers(route string) bool {
	for _, r := range n.Routes {
		if r == route {
			return true
		}
	}
	return false
}

// Menu derives the navigation menu from the route table. Titled nodes become
// items. A titled section with Meta.HasGroup becomes a group of its titled
// descendants; without it, a single item linking to its first linkable leaf.
// Untitled nodes are skipped and their titled descendants move up a level.
func (r *Registry) Menu() []NavItem {
	return r.menu(r.roots, nil)
}

func (r *Registry) menu(nodes []*RouteNode, chain []*RouteNode) []NavItem {
	var items []NavItem
	for _, n := range nodes {
		if n == nil || onChain(chain, n) {
			continue
		}
		nodeChain := append(chain, n)
		children := r.menu(n.Children, nodeChain)

		if n.Meta.Title == "" {
			items = append(items, children...)
			continue
		}

		item := NavItem{
			Name:   n.Name,
			Title:  n.Meta.Title,
			Icon:   n.Meta.Icon,
			Routes: r.leafNames(n, nodeChain[:len(nodeChain)-1]),
		}
		switch {
		case n.IsSection() && n.Meta.HasGroup:
			item.Group = true
			item.Children = children
		default:
			item.Href = r.firstHref(item.Routes)
		}
		items = append(items, item)
	}
	return items
}

// leafNames lists the names of the leaves at or below n.
func (r *Registry) leafNames(n *RouteNode, chain []*RouteNode) []string {
	if onChain(chain, n) {
		return nil
	}
	if n.IsLeaf() {
		return []string{n.Name}
	}
	var out []string
	for _, c := range n.Children {
		if c != nil {
			out = append(out, r.leafNames(c, append(chain, n))...)
		}
	}
	return out
}

// firstHref returns the URL of the first route that needs no parameters.
func (r *Registry) firstHref(names []string) string {
	for _, name := range names {
		if u, err := r.URL(name, nil); err == nil {
			return u
		}
	}
	return ""
}
