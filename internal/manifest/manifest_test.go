package manifest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/vdom"
)

const generalYAML = `routes:
  - path: ""
    name: General
    meta: {title: general, icon: chart, hasGroup: false, exact: true}
    layout: shell
    children:
      - path: /general
        name: GeneralServices
        meta: {exact: true}
        view: layers
      - path: /general/tab/:activeTabIndex
        name: GeneralServicesActiveTabIndex
        meta: {exact: true}
        view: layers
`

type chunkView string

func (c chunkView) Render(router.Params) *vdom.VNode { return vdom.Text(string(c)) }

func testBinder(requested *[]string) Binder {
	return Binder{
		Loader: func(chunk string) router.ViewLoader {
			*requested = append(*requested, chunk)
			return router.Static(chunkView(chunk))
		},
		Layouts: map[string]router.LayoutHandler{
			"shell": func(ctx context.Context, m *router.Match, children router.Slot) *vdom.VNode {
				return vdom.Div(vdom.Class("shell"), children)
			},
		},
	}
}

func TestParseGeneral(t *testing.T) {
	var chunks []string
	roots, err := Parse([]byte(generalYAML), "routes.yaml", testBinder(&chunks))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	reg, err := router.NewValidated(roots)
	if err != nil {
		t.Fatalf("manifest should produce a valid table: %v", err)
	}

	type row struct {
		Path string
		Name string
		Meta router.Meta
	}
	var got []row
	for full, n := range reg.Flatten() {
		got = append(got, row{full, n.Name, n.Meta})
	}
	want := []row{
		{"/", "General", router.Meta{Title: "general", Icon: "chart", Exact: true}},
		{"/general", "GeneralServices", router.Meta{Exact: true}},
		{"/general/tab/:activeTabIndex", "GeneralServicesActiveTabIndex", router.Meta{Exact: true}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flattened manifest mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"layers", "layers"}, chunks); diff != "" {
		t.Errorf("loader requests (-want +got):\n%s", diff)
	}
	if roots[0].Layout == nil {
		t.Error("General should carry the shell layout")
	}
	if roots[0].Loader != nil {
		t.Error("section should not bind a loader")
	}
}

func TestDecodeViewsAndLines(t *testing.T) {
	f, err := Decode([]byte(generalYAML), "routes.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"layers"}, f.Views()); diff != "" {
		t.Errorf("Views() (-want +got):\n%s", diff)
	}
	if got := f.Routes[0].Line(); got != 2 {
		t.Errorf("General line = %d, want 2", got)
	}
	if got := f.Routes[0].Children[1].Line(); got != 11 {
		t.Errorf("GeneralServicesActiveTabIndex line = %d, want 11", got)
	}
}

func TestUnknownLayout(t *testing.T) {
	data := strings.Replace(generalYAML, "layout: shell", "layout: sidebar", 1)
	var chunks []string
	_, err := Parse([]byte(data), "routes.yaml", testBinder(&chunks))

	var e *errors.Error
	if !errors.As(err, &e) || e.Code != "E121" {
		t.Fatalf("error = %v, want E121", err)
	}
	if e.Location == nil || e.Location.Line != 2 {
		t.Errorf("Location = %v, want line 2", e.Location)
	}
	if !strings.Contains(e.Detail, `"sidebar"`) {
		t.Errorf("Detail = %q", e.Detail)
	}
}

func TestDecodeErrorsCarryLine(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{"unknown field", "routes:\n  - path: /a\n    name: A\nextra: 1\n", 4},
		{"type mismatch", "routes:\n  - path: /a\n    name: A\n    children: nope\n", 4},
		{"tab indent", "routes:\n\t- path: /a\n", 2},
		{"empty route entry", "routes:\n  - path: /a\n    name: A\n  -\n", 4},
		{"null child entry", "routes:\n  - path: /s\n    name: S\n    children:\n      - ~\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), "bad.yaml")
			var e *errors.Error
			if !errors.As(err, &e) || e.Code != "E120" {
				t.Fatalf("error = %v, want E120", err)
			}
			if e.Location == nil {
				t.Fatalf("no location on %v", err)
			}
			if e.Location.File != "bad.yaml" {
				t.Errorf("File = %q", e.Location.File)
			}
			if e.Location.Line < 2 || e.Location.Line > tt.line {
				t.Errorf("Line = %d, want between 2 and %d", e.Location.Line, tt.line)
			}
		})
	}
}

func TestViewWithoutLoader(t *testing.T) {
	_, err := Parse([]byte(generalYAML), "routes.yaml", Binder{
		Layouts: map[string]router.LayoutHandler{"shell": nil},
	})
	var e *errors.Error
	if !errors.As(err, &e) || e.Code != "E120" {
		t.Errorf("error = %v, want E120", err)
	}
}

func TestBindRejectsEmptyEntries(t *testing.T) {
	tests := []struct {
		name string
		file *File
	}{
		{"top level", &File{Routes: []*Route{{Path: "/a", Name: "A"}, nil}}},
		{"child", &File{Routes: []*Route{{Path: "/s", Name: "S", Children: []*Route{nil}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requested []string
			_, err := tt.file.Bind("routes.yaml", testBinder(&requested))
			var e *errors.Error
			if !errors.As(err, &e) || e.Code != "E120" {
				t.Fatalf("error = %v, want E120", err)
			}
			if e.Location == nil || e.Location.File != "routes.yaml" {
				t.Errorf("Location = %v", e.Location)
			}
		})
	}
}

func TestStructuralProblemsLeftToValidate(t *testing.T) {
	data := `routes:
  - path: /a
    name: Dup
    view: a
  - path: /b
    name: Dup
`
	var chunks []string
	roots, err := Parse([]byte(data), "routes.yaml", testBinder(&chunks))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	verr := router.Validate(roots)
	cerr, ok := verr.(*router.ConfigurationError)
	if !ok {
		t.Fatalf("Validate = %v, want *ConfigurationError", verr)
	}
	if !cerr.Has(router.ProblemDuplicateName) || !cerr.Has(router.ProblemLeafWithoutLoader) {
		t.Errorf("problems = %v", cerr.Problems)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	if err := os.WriteFile(path, []byte(generalYAML), 0644); err != nil {
		t.Fatal(err)
	}
	var chunks []string
	roots, err := Load(path, testBinder(&chunks))
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 || len(roots[0].Children) != 2 {
		t.Errorf("roots = %+v", roots)
	}

	_, err = Load(filepath.Join(dir, "missing.yaml"), testBinder(&chunks))
	var e *errors.Error
	if !errors.As(err, &e) || e.Code != "E123" {
		t.Errorf("Load(missing) error = %v, want E123", err)
	}
}
