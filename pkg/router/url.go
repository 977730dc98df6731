package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/routetable/pkg/routepath"
)

// URL building errors.
var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrMissingParam = errors.New("missing route parameter")
)

// URL builds the concrete path of a named route. Optional parameters that
// are absent from params are left out; a missing required one is an error.
//
//	reg.URL("GeneralServicesActiveTabIndex", router.Params{"activeTabIndex": "2"})
//	// "/general/tab/2"
func (r *Registry) URL(name string, params Params) (string, error) {
	cr, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	parts := make([]string, 0, len(cr.pattern))
	for _, seg := range cr.pattern {
		if !seg.isParam() {
			parts = append(parts, seg.literal)
			continue
		}
		value, ok := params[seg.param]
		if !ok || value == "" {
			if seg.optional {
				continue
			}
			return "", fmt.Errorf("%w: %q for route %q", ErrMissingParam, seg.param, name)
		}
		parts = append(parts, routepath.EscapeSegment(value))
	}
	return "/" + strings.Join(parts, "/"), nil
}
