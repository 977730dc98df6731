package router

import (
	"errors"

	"github.com/vango-dev/routetable/pkg/routepath"
)

// ErrNotFound is returned by callers that turn a failed Resolve into an error.
// Resolve itself reports a miss with ok == false.
var ErrNotFound = errors.New("route not found")

// Resolve matches a requested path against the leaf routes in flattened
// order. The first route that matches wins. A miss is reported with
// ok == false and is an ordinary outcome; so is a path that fails
// canonicalization.
func (r *Registry) Resolve(requested string) (*Match, bool) {
	canon, err := routepath.Canonicalize(requested)
	if err != nil {
		return nil, false
	}
	segs := routepath.Split(canon.Path)

	for _, cr := range r.leaves {
		params := make(Params)
		if !matchSegments(cr.pattern, segs, params, !cr.node.Meta.Exact) {
			continue
		}
		return &Match{
			Route:    cr.node,
			FullPath: cr.fullPath,
			Params:   params,
			Chain:    cr.chain,
			Layouts:  cr.layouts,
		}, true
	}
	return nil, false
}

// matchSegments matches requested segments against a compiled pattern,
// capturing parameters into params. With prefix set, requested segments left
// over after the pattern is exhausted are accepted.
func matchSegments(pattern []segment, segs []string, params Params, prefix bool) bool {
	if len(pattern) == 0 {
		return len(segs) == 0 || prefix
	}

	p := pattern[0]
	rest := pattern[1:]

	if p.optional {
		if len(segs) > 0 {
			if value, err := routepath.DecodeSegment(segs[0]); err == nil && value != "" {
				params[p.param] = value
				if matchSegments(rest, segs[1:], params, prefix) {
					return true
				}
				delete(params, p.param)
			}
		}
		return matchSegments(rest, segs, params, prefix)
	}

	if len(segs) == 0 {
		return false
	}

	value, err := routepath.DecodeSegment(segs[0])
	if err != nil {
		return false
	}

	if !p.isParam() {
		return value == p.literal && matchSegments(rest, segs[1:], params, prefix)
	}

	if value == "" {
		return false
	}
	params[p.param] = value
	if matchSegments(rest, segs[1:], params, prefix) {
		return true
	}
	delete(params, p.param)
	return false
}
