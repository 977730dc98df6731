package router

import (
	"context"
	"fmt"
	"testing"

	"github.com/vango-dev/routetable/pkg/render"
)

func TestResolveGeneral(t *testing.T) {
	r := MustNew(generalRoutes())

	tests := []struct {
		path       string
		wantName   string
		wantParams Params
	}{
		{"/general", "GeneralServices", Params{}},
		{"/general/", "GeneralServices", Params{}},
		{"//general", "GeneralServices", Params{}},
		{"/general?x=1", "GeneralServices", Params{}},
		{"/general/tab/3", "GeneralServicesActiveTabIndex", Params{"activeTabIndex": "3"}},
		{"/general/tab/a%20b", "GeneralServicesActiveTabIndex", Params{"activeTabIndex": "a b"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := r.Resolve(tt.path)
			if !ok {
				t.Fatalf("Resolve(%q) not found", tt.path)
			}
			if m.Route.Name != tt.wantName {
				t.Errorf("Resolve(%q).Route.Name = %q, want %q", tt.path, m.Route.Name, tt.wantName)
			}
			if m.Params == nil {
				t.Fatal("Params should never be nil")
			}
			if fmt.Sprint(m.Params) != fmt.Sprint(tt.wantParams) {
				t.Errorf("Resolve(%q).Params = %v, want %v", tt.path, m.Params, tt.wantParams)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	r := MustNew(generalRoutes())

	for _, path := range []string{
		"/nonexistent",
		"/",
		"",
		"/general/tab",
		"/general/tab/3/extra",
		"/general/other",
		"/general/tab/a%2Fb",
		"/../etc/passwd",
		"/general\\tab",
	} {
		if m, ok := r.Resolve(path); ok {
			t.Errorf("Resolve(%q) = %q, want not found", path, m.Route.Name)
		}
	}
}

func TestResolveSectionsAreNotCandidates(t *testing.T) {
	roots := []*RouteNode{
		{Path: "/admin", Name: "Admin", Children: []*RouteNode{leaf("users", "AdminUsers", true)}},
	}
	r := New(roots)
	if _, ok := r.Resolve("/admin"); ok {
		t.Error("a section without a leaf at its own path should not match")
	}
	m, ok := r.Resolve("/admin/users")
	if !ok || m.Route.Name != "AdminUsers" {
		t.Fatalf("Resolve(/admin/users) = %v, %v", m, ok)
	}
}

func TestResolveNonExactFallthrough(t *testing.T) {
	roots := []*RouteNode{
		leaf("/docs", "Docs", false),
		leaf("/docs/:page", "DocsPage", true),
	}
	r := New(roots)

	tests := []struct {
		path string
		want string
	}{
		{"/docs", "Docs"},
		{"/docs/intro", "Docs"},
		{"/docs/intro/more", "Docs"},
	}
	for _, tt := range tests {
		m, ok := r.Resolve(tt.path)
		if !ok || m.Route.Name != tt.want {
			t.Errorf("Resolve(%q) = %v, %v; want %s", tt.path, m, ok, tt.want)
		}
	}
	if _, ok := r.Resolve("/doc"); ok {
		t.Error("prefix must end on a segment boundary")
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	roots := []*RouteNode{
		leaf("/items/:id", "ItemByID", true),
		leaf("/items/new", "NewItem", true),
	}
	r := New(roots)

	m, ok := r.Resolve("/items/new")
	if !ok || m.Route.Name != "ItemByID" {
		t.Fatalf("Resolve(/items/new) = %v, %v; want ItemByID (declared first)", m, ok)
	}
	if m.Params["id"] != "new" {
		t.Errorf("id = %q, want new", m.Params["id"])
	}
}

func TestResolveOptionalParam(t *testing.T) {
	roots := []*RouteNode{
		leaf("/reports/:year?/summary", "Summary", true),
	}
	r := New(roots)

	m, ok := r.Resolve("/reports/summary")
	if !ok {
		t.Fatal("Resolve(/reports/summary) not found")
	}
	if m.Params.Has("year") {
		t.Errorf("absent optional param should not be in Params: %v", m.Params)
	}

	m, ok = r.Resolve("/reports/2024/summary")
	if !ok {
		t.Fatal("Resolve(/reports/2024/summary) not found")
	}
	if m.Params["year"] != "2024" {
		t.Errorf("year = %q, want 2024", m.Params["year"])
	}

	if _, ok := r.Resolve("/reports/2024/2025/summary"); ok {
		t.Error("optional param matches at most one segment")
	}
}

func TestResolveMultipleParams(t *testing.T) {
	r := New([]*RouteNode{leaf("/orgs/:org/repos/:repo", "Repo", true)})

	m, ok := r.Resolve("/orgs/acme/repos/routetable")
	if !ok {
		t.Fatal("not found")
	}
	if m.Params["org"] != "acme" || m.Params["repo"] != "routetable" {
		t.Errorf("Params = %v", m.Params)
	}
}

func TestResolveSiblingLeavesDoNotOverlap(t *testing.T) {
	roots := []*RouteNode{
		leaf("/alpha/:id", "Alpha", true),
		leaf("/beta/:id", "Beta", true),
		leaf("/gamma", "Gamma", true),
	}
	r := New(roots)

	for pattern, node := range r.Flatten() {
		u, err := r.URL(node.Name, Params{"id": "7"})
		if err != nil {
			t.Fatalf("URL(%s): %v", node.Name, err)
		}
		m, ok := r.Resolve(u)
		if !ok {
			t.Fatalf("Resolve(%q) for pattern %s not found", u, pattern)
		}
		if m.Route != node {
			t.Errorf("Resolve(%q) = %s, want %s", u, m.Route.Name, node.Name)
		}
	}
}

func TestResolveRelativeChildren(t *testing.T) {
	roots := []*RouteNode{
		{Path: "/settings", Name: "Settings", Children: []*RouteNode{
			leaf("", "SettingsIndex", true),
			leaf("profile", "SettingsProfile", true),
		}},
	}
	r := New(roots)

	m, ok := r.Resolve("/settings")
	if !ok || m.Route.Name != "SettingsIndex" {
		t.Errorf("Resolve(/settings) = %v, %v", m, ok)
	}
	m, ok = r.Resolve("/settings/profile")
	if !ok || m.Route.Name != "SettingsProfile" {
		t.Errorf("Resolve(/settings/profile) = %v, %v", m, ok)
	}
	if m.FullPath != "/settings/profile" {
		t.Errorf("FullPath = %q", m.FullPath)
	}
}

func TestMatchChainLayoutsAndTitle(t *testing.T) {
	r := MustNew(generalRoutes())

	m, ok := r.Resolve("/general/tab/1")
	if !ok {
		t.Fatal("not found")
	}
	if len(m.Chain) != 2 || m.Chain[0].Name != "General" || m.Chain[1] != m.Route {
		t.Errorf("Chain = %v", m.Chain)
	}
	if len(m.Layouts) != 1 {
		t.Fatalf("len(Layouts) = %d, want 1", len(m.Layouts))
	}
	if got := m.Title(); got != "general" {
		t.Errorf("Title() = %q, want general", got)
	}

	view, err := r.ResolveView(context.Background(), m.Route).Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	page := m.Compose(context.Background(), view.Render(m.Params))
	var rr render.Renderer
	html, err := rr.RenderToString(page)
	if err != nil {
		t.Fatal(err)
	}
	if html != `<div class="shell">tab 1</div>` {
		t.Errorf("composed page = %q", html)
	}

	var nilMatch *Match
	if nilMatch.Title() != "" {
		t.Error("nil Match Title should be empty")
	}
}
