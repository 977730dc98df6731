package scaffold

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/template"

	"github.com/vango-dev/routetable/internal/app"
	"github.com/vango-dev/routetable/internal/errors"
)

// Config fills in template placeholders.
type Config struct {
	// Brand is the project name shown in page titles.
	Brand string

	// Port is the port routetable serve listens on.
	Port int
}

// Template is a named set of project files.
type Template struct {
	Name        string
	Description string

	// Files maps relative paths to template text.
	Files map[string]string
}

var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"general": generalTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E143").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: general, minimal")
	}
	return tmpl, nil
}

// List returns the template names in alphabetical order.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Paths returns the template's file paths in alphabetical order.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Create writes the template into dir. Nothing is written if any target
// file already exists.
func (t *Template) Create(dir string, cfg Config) ([]string, error) {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	paths := t.Paths()
	rendered := make(map[string][]byte, len(paths))
	for _, relPath := range paths {
		fullPath := filepath.Join(dir, relPath)
		if _, err := os.Stat(fullPath); err == nil {
			return nil, errors.New("E144").
				WithDetail(fullPath + " already exists").
				WithSuggestion("Choose an empty directory")
		}

		tmpl, err := template.New(relPath).Delims("[[", "]]").Parse(t.Files[relPath])
		if err != nil {
			return nil, errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return nil, errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}
		rendered[relPath] = buf.Bytes()
	}

	written := make([]string, 0, len(paths))
	for _, relPath := range paths {
		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(fullPath, rendered[relPath], 0o644); err != nil {
			return written, err
		}
		written = append(written, fullPath)
	}
	return written, nil
}

const configFile = `{
  "server": {
    "host": "localhost",
    "port": [[ .Port ]]
  },
  "routes": {
    "manifest": "routes.yaml"
  },
  "chunks": {
    "dir": "chunks",
    "extension": ".html",
    "cache": true
  },
  "log": {
    "level": "info"
  }
}
`

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "One section with a home page",
		Files: map[string]string{
			"routetable.json": configFile,
			"routes.yaml": `# Routes for [[ .Brand ]]
routes:
  - path: ""
    name: Site
    meta: {title: [[ printf "%q" .Brand ]]}
    layout: shell
    children:
      - path: /home
        name: Home
        meta: {title: home, exact: true}
        view: home
`,
			"chunks/home.html": `<section class="home" data-chunk="{{ .Chunk }}">
  <h1>[[ .Brand ]]</h1>
  <p>Edit chunks/home.html to change this page.</p>
</section>
`,
		},
	}
}

// generalTemplate writes out the built-in General table so it can be
// edited.
func generalTemplate() *Template {
	layers, err := fs.ReadFile(app.Chunks(), app.LayersChunk+".html")
	if err != nil {
		panic(err)
	}
	return &Template{
		Name:        "general",
		Description: "The built-in General table with its tabbed layers view",
		Files: map[string]string{
			"routetable.json":    configFile,
			"routes.yaml":        literal(string(app.DefaultManifest())),
			"chunks/layers.html": literal(string(layers)),
		},
	}
}

// literal quotes text so the template engine writes it unchanged.
func literal(s string) string {
	return "[[ " + strconv.Quote(s) + " ]]"
}
