package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/routetable/internal/app"
	"github.com/vango-dev/routetable/internal/config"
	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/internal/manifest"
	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/view"
)

func TestGet(t *testing.T) {
	if _, err := Get("minimal"); err != nil {
		t.Fatalf("Get(minimal): %v", err)
	}
	_, err := Get("nope")
	var e *errors.Error
	if !errors.As(err, &e) || e.Code != "E143" {
		t.Fatalf("Get(nope) error = %v, want E143", err)
	}
	if diff := cmp.Diff([]string{"general", "minimal"}, List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateProducesLoadableProject(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tmpl, _ := Get(name)
			written, err := tmpl.Create(dir, Config{Brand: "Acme Ops", Port: 9090})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if len(written) != len(tmpl.Files) {
				t.Errorf("wrote %d files, want %d", len(written), len(tmpl.Files))
			}

			cfg, err := config.Load(dir)
			if err != nil {
				t.Fatalf("config.Load: %v", err)
			}
			if cfg.Server.Port != 9090 {
				t.Errorf("port = %d, want 9090", cfg.Server.Port)
			}

			shell := app.NewShell("Acme Ops")
			src := view.NewFSSource(os.DirFS(cfg.ChunksPath())).WithExtension(cfg.Chunks.Extension)
			roots, err := manifest.Load(cfg.ManifestPath(), app.Binder(src, shell))
			if err != nil {
				t.Fatalf("manifest.Load: %v", err)
			}
			if err := router.Validate(roots); err != nil {
				t.Fatalf("Validate: %v", err)
			}

			// Every leaf must find its chunk.
			reg := router.New(roots)
			for _, e := range reg.Entries() {
				if !e.Node.IsLeaf() {
					continue
				}
				if _, err := reg.ResolveView(t.Context(), e.Node).Wait(t.Context()); err != nil {
					t.Errorf("loading %s: %v", e.Node.Name, err)
				}
			}
		})
	}
}

func TestGeneralTemplateCopiesBuiltins(t *testing.T) {
	dir := t.TempDir()
	tmpl, _ := Get("general")
	if _, err := tmpl.Create(dir, Config{Brand: "x"}); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "routes.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(app.DefaultManifest()) {
		t.Errorf("routes.yaml differs from the built-in manifest:\n%s", got)
	}
	chunk, err := os.ReadFile(filepath.Join(dir, "chunks", "layers.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(chunk), `{{ .Chunk }}`) {
		t.Errorf("view actions were not preserved:\n%s", chunk)
	}
}

func TestCreateRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "routes.yaml")
	if err := os.WriteFile(existing, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	tmpl, _ := Get("minimal")
	_, err := tmpl.Create(dir, Config{Brand: "x"})
	var e *errors.Error
	if !errors.As(err, &e) || e.Code != "E144" {
		t.Fatalf("Create error = %v, want E144", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "routetable.json")); !os.IsNotExist(err) {
		t.Error("Create wrote files despite the conflict")
	}
	if data, _ := os.ReadFile(existing); string(data) != "keep me" {
		t.Error("existing file was modified")
	}
}
