package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/routetable/pkg/routepath"
)

// ErrInvalidConfiguration is matched by every *ConfigurationError.
var ErrInvalidConfiguration = errors.New("invalid route configuration")

// ProblemKind categorizes a route table problem.
type ProblemKind string

const (
	// ProblemDuplicateName indicates two nodes share a name.
	ProblemDuplicateName ProblemKind = "DUPLICATE_NAME"

	// ProblemEmptyName indicates a node without a name.
	ProblemEmptyName ProblemKind = "EMPTY_NAME"

	// ProblemSectionWithLoader indicates a node with children that also binds a loader.
	ProblemSectionWithLoader ProblemKind = "SECTION_WITH_LOADER"

	// ProblemLeafWithoutLoader indicates a node without children or loader.
	ProblemLeafWithoutLoader ProblemKind = "LEAF_WITHOUT_LOADER"

	// ProblemDuplicateSiblingPath indicates two siblings resolving to the same path.
	ProblemDuplicateSiblingPath ProblemKind = "DUPLICATE_SIBLING_PATH"

	// ProblemCycle indicates a node that is its own ancestor.
	ProblemCycle ProblemKind = "CYCLE"

	// ProblemInvalidPattern indicates a malformed path pattern, e.g. ":" with
	// no name or the same parameter bound twice.
	ProblemInvalidPattern ProblemKind = "INVALID_PATTERN"

	// ProblemNilNode indicates a nil entry in a node list.
	ProblemNilNode ProblemKind = "NIL_NODE"
)

// Problem is a single issue found by Validate.
type Problem struct {
	Kind    ProblemKind
	Name    string
	Path    string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Kind, p.Message)
}

// ConfigurationError lists every problem found in a route table.
type ConfigurationError struct {
	Problems []Problem
}

func (e *ConfigurationError) Error() string {
	switch len(e.Problems) {
	case 0:
		return "no route configuration problems"
	case 1:
		return "route configuration: " + e.Problems[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route configuration problems:", len(e.Problems))
	for i, p := range e.Problems {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, p)
	}
	return sb.String()
}

// Is makes errors.Is(err, ErrInvalidConfiguration) true.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// Has reports whether a problem of the given kind was found.
func (e *ConfigurationError) Has(kind ProblemKind) bool {
	for _, p := range e.Problems {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// Validate checks a route table and returns a *ConfigurationError listing
// every problem, or nil.
func Validate(roots []*RouteNode) error {
	v := &validator{names: make(map[string]string)}
	v.walk(roots, "/", nil)
	if len(v.problems) > 0 {
		return &ConfigurationError{Problems: v.problems}
	}
	return nil
}

type validator struct {
	names    map[string]string // name -> full path of first node
	problems []Problem
}

func (v *validator) add(kind ProblemKind, name, path, format string, args ...any) {
	v.problems = append(v.problems, Problem{
		Kind:    kind,
		Name:    name,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) walk(nodes []*RouteNode, parent string, chain []*RouteNode) {
	siblings := make(map[string]string)

	for _, n := range nodes {
		if n == nil {
			v.add(ProblemNilNode, "", parent, "nil route under %s", parent)
			continue
		}
		full := routepath.Join(parent, n.Path)

		if onChain(chain, n) {
			v.add(ProblemCycle, n.Name, full, "route %q is its own ancestor", n.Name)
			continue
		}

		if n.Name == "" {
			v.add(ProblemEmptyName, "", full, "route at %s has no name", full)
		} else if first, dup := v.names[n.Name]; dup {
			v.add(ProblemDuplicateName, n.Name, full, "name %q used at %s and %s", n.Name, first, full)
		} else {
			v.names[n.Name] = full
		}

		if other, dup := siblings[full]; dup {
			v.add(ProblemDuplicateSiblingPath, n.Name, full, "routes %q and %q share path %s", other, n.Name, full)
		} else {
			siblings[full] = n.Name
		}

		if n.IsSection() && n.Loader != nil {
			v.add(ProblemSectionWithLoader, n.Name, full, "section %q has children and a view loader", n.Name)
		}
		if n.IsLeaf() && n.Loader == nil {
			v.add(ProblemLeafWithoutLoader, n.Name, full, "leaf %q has no view loader", n.Name)
		}

		v.checkPattern(n, full)
		v.walk(n.Children, full, append(chain, n))
	}
}

func (v *validator) checkPattern(n *RouteNode, full string) {
	seen := make(map[string]bool)
	for _, seg := range routepath.Split(full) {
		name, _, ok := parseParamSegment(seg)
		if !ok {
			continue
		}
		if name == "" {
			v.add(ProblemInvalidPattern, n.Name, full, "route %q has an unnamed parameter in %s", n.Name, full)
			continue
		}
		if seen[name] {
			v.add(ProblemInvalidPattern, n.Name, full, "route %q binds parameter %q twice in %s", n.Name, name, full)
		}
		seen[name] = true
	}
}
