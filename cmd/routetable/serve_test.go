package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/routetable/internal/server"
	"github.com/vango-dev/routetable/internal/watch"
)

const docsManifest = `routes:
  - path: /docs
    name: Docs
    layout: shell
    children:
      - path: ""
        name: DocsIndex
        meta: {exact: true}
        view: layers
`

const docsAndFAQManifest = docsManifest + `      - path: faq
        name: DocsFAQ
        meta: {exact: true}
        view: layers
`

const brokenManifest = `routes:
  - path: /docs
    name: Docs
    view: nope
    children:
      - path: faq
        name: Docs
        view: layers
`

func status(t *testing.T, srv *server.Server, path string) int {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code
}

func TestReloadChanged(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "routes.yaml")
	if err := os.WriteFile(manifest, []byte(docsManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	rt, err := setup(&globalFlags{dir: dir, manifest: manifest})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	srv := server.New(rt.registry, rt.shell, nil)

	if got := status(t, srv, "/docs/faq"); got != http.StatusNotFound {
		t.Fatalf("/docs/faq before reload = %d, want 404", got)
	}

	if err := os.WriteFile(manifest, []byte(docsAndFAQManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	reloadChanged(rt, srv, []watch.Change{{Path: manifest, Type: watch.ChangeManifest}})

	if got := status(t, srv, "/docs/faq"); got != http.StatusOK {
		t.Fatalf("/docs/faq after reload = %d, want 200", got)
	}
	if srv.Registry().Len() != 3 {
		t.Errorf("registry has %d routes, want 3", srv.Registry().Len())
	}

	if err := os.WriteFile(manifest, []byte(brokenManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	before := srv.Registry()
	reloadChanged(rt, srv, []watch.Change{{Path: manifest, Type: watch.ChangeManifest}})
	if srv.Registry() != before {
		t.Error("a broken manifest replaced the route table")
	}
	if got := status(t, srv, "/docs/faq"); got != http.StatusOK {
		t.Errorf("/docs/faq after failed reload = %d, want 200", got)
	}
}

func TestWatchPaths(t *testing.T) {
	dir := t.TempDir()
	config := `{"routes": {"manifest": "routes.yaml"}, "chunks": {"dir": "chunks"}}`
	if err := os.WriteFile(filepath.Join(dir, "routetable.json"), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "routes.yaml"), []byte(docsManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "chunks"), 0o755); err != nil {
		t.Fatal(err)
	}

	rt, err := loadRoutes(&globalFlags{dir: dir})
	if err != nil {
		t.Fatalf("loadRoutes: %v", err)
	}
	paths := rt.watchPaths()
	want := []string{
		filepath.Join(dir, "routetable.json"),
		filepath.Join(dir, "routes.yaml"),
		filepath.Join(dir, "chunks"),
	}
	if len(paths) != len(want) {
		t.Fatalf("watchPaths() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("watchPaths()[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}
