// Package manifest reads route tables from YAML files.
//
//	routes:
//	  - path: ""
//	    name: General
//	    meta: {title: general, icon: chart, exact: true}
//	    layout: shell
//	    children:
//	      - path: /general
//	        name: GeneralServices
//	        meta: {exact: true}
//	        view: layers
//	      - path: /general/tab/:activeTabIndex
//	        name: GeneralServicesActiveTabIndex
//	        meta: {exact: true}
//	        view: layers
//
// A manifest is only parsed here; structural rules are checked by
// router.Validate when the registry is built.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routetable/internal/errors"
	"github.com/vango-dev/routetable/pkg/router"
)

// Binder turns manifest names into code.
type Binder struct {
	// Loader returns the loader for a view chunk name.
	Loader func(chunk string) router.ViewLoader

	// Layouts maps layout names to handlers.
	Layouts map[string]router.LayoutHandler
}

// File is a decoded manifest.
type File struct {
	Routes []*Route `yaml:"routes"`
}

// Route is one manifest entry.
type Route struct {
	Path     string      `yaml:"path"`
	Name     string      `yaml:"name"`
	Meta     router.Meta `yaml:"meta"`
	View     string      `yaml:"view,omitempty"`
	Layout   string      `yaml:"layout,omitempty"`
	Children []*Route    `yaml:"children,omitempty"`

	line   int
	column int
}

// UnmarshalYAML records where the entry starts so binding errors can point
// at it.
func (r *Route) UnmarshalYAML(node *yaml.Node) error {
	type plain Route
	if err := node.Decode((*plain)(r)); err != nil {
		return err
	}
	r.line, r.column = node.Line, node.Column
	return nil
}

// Line returns the 1-based line the entry starts on, or 0 if unknown.
func (r *Route) Line() int {
	return r.line
}

// Decode parses manifest data. filename is used in error locations only.
func Decode(data []byte, filename string) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		e := errors.New("E120").Wrap(err).
			WithSuggestion("Each route needs path and name, plus view (leaf) or children (section)")
		if line := errorLine(err); line > 0 {
			e.Location = &errors.Location{File: filename, Line: line}
			e.Context = contextLines(data, line, 5)
		}
		return nil, e
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err == nil {
		if item := emptyEntry(&root); item != nil {
			e := errors.New("E120").WithDetail("Route entry is empty.").
				WithSuggestion("Each route needs path and name, plus view (leaf) or children (section)")
			e.Location = &errors.Location{File: filename, Line: item.Line, Column: item.Column}
			e.Context = contextLines(data, item.Line, 5)
			return nil, e
		}
	}
	return &f, nil
}

// emptyEntry returns the first null item of a routes or children list.
func emptyEntry(n *yaml.Node) *yaml.Node {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if item := emptyEntry(c); item != nil {
				return item
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if val.Kind != yaml.SequenceNode || (key.Value != "routes" && key.Value != "children") {
				continue
			}
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode && item.Tag == "!!null" {
					return item
				}
				if found := emptyEntry(item); found != nil {
					return found
				}
			}
		}
	}
	return nil
}

// Bind converts decoded entries into route nodes.
func (f *File) Bind(filename string, b Binder) ([]*router.RouteNode, error) {
	return bindAll(f.Routes, filename, b)
}

func bindAll(routes []*Route, filename string, b Binder) ([]*router.RouteNode, error) {
	nodes := make([]*router.RouteNode, 0, len(routes))
	for i, r := range routes {
		if r == nil {
			e := errors.New("E120").WithDetail(fmt.Sprintf("Route entry %d is empty.", i+1))
			e.Location = &errors.Location{File: filename}
			return nil, e
		}
		n, err := bind(r, filename, b)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func bind(r *Route, filename string, b Binder) (*router.RouteNode, error) {
	n := &router.RouteNode{
		Path: r.Path,
		Name: r.Name,
		Meta: r.Meta,
	}

	if r.Layout != "" {
		layout, ok := b.Layouts[r.Layout]
		if !ok {
			return nil, locate(errors.New("E121"), filename, r).
				WithDetail(fmt.Sprintf("Route %q uses layout %q, which is not registered.", r.Name, r.Layout))
		}
		n.Layout = layout
	}

	if r.View != "" {
		if b.Loader == nil {
			return nil, locate(errors.New("E120"), filename, r).
				WithDetail(fmt.Sprintf("Route %q names view %q but no view loader is configured.", r.Name, r.View))
		}
		n.Loader = b.Loader(r.View)
	}

	children, err := bindAll(r.Children, filename, b)
	if err != nil {
		return nil, err
	}
	if len(children) > 0 {
		n.Children = children
	}
	return n, nil
}

func locate(e *errors.Error, filename string, r *Route) *errors.Error {
	if r.line > 0 {
		e.WithLocation(filename, r.line, r.column)
	}
	return e
}

// Parse decodes and binds manifest data in one step.
func Parse(data []byte, filename string, b Binder) ([]*router.RouteNode, error) {
	f, err := Decode(data, filename)
	if err != nil {
		return nil, err
	}
	return f.Bind(filename, b)
}

// Load reads and binds the manifest at path.
func Load(path string, b Binder) ([]*router.RouteNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E123").
				WithDetail("No route manifest at " + path).
				WithSuggestion("Set routes.manifest in routetable.json or ROUTETABLE_ROUTES_MANIFEST")
		}
		return nil, errors.New("E120").Wrap(err)
	}
	return Parse(data, path, b)
}

// Views lists the distinct view names referenced by the manifest in
// declaration order.
func (f *File) Views() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func([]*Route)
	walk = func(rs []*Route) {
		for _, r := range rs {
			if r == nil {
				continue
			}
			if r.View != "" && !seen[r.View] {
				seen[r.View] = true
				out = append(out, r.View)
			}
			walk(r.Children)
		}
	}
	walk(f.Routes)
	return out
}

var lineRE = regexp.MustCompile(`line (\d+)`)

// errorLine extracts the first line number from a yaml error message.
func errorLine(err error) int {
	m := lineRE.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func contextLines(data []byte, target, size int) []string {
	lines := bytes.Split(data, []byte("\n"))
	start := target - size/2
	if start < 1 {
		start = 1
	}
	end := target + size/2
	if end > len(lines) {
		end = len(lines)
	}
	out := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, string(lines[i-1]))
	}
	return out
}
