package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vango-dev/routetable/pkg/routepath"
	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/vdom"
)

// outcome is the result of rendering one path.
type outcome struct {
	status int
	path   string
	match  *router.Match
	body   *vdom.VNode
	err    error
}

// renderPath resolves path, loads the view and composes it with the route's
// layouts. path must be canonical.
func (s *Server) renderPath(ctx context.Context, path string) outcome {
	reg := s.Registry()
	m, ok := s.resolve(reg, path)
	if !ok {
		return outcome{
			status: http.StatusNotFound,
			path:   path,
			body:   s.pages.NotFound(ctx, path),
			err:    router.ErrNotFound,
		}
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.config.LoadTimeout)
	defer cancel()

	v, err := reg.ResolveView(loadCtx, m.Route).Wait(loadCtx)
	if err != nil {
		s.logger.Warn("view load failed", "route", m.Route.Name, "path", path, "error", err)
		return outcome{
			status: http.StatusInternalServerError,
			path:   path,
			match:  m,
			body:   m.Compose(ctx, s.pages.LoadError(m, path, err)),
			err:    err,
		}
	}

	return outcome{
		status: http.StatusOK,
		path:   path,
		match:  m,
		body:   m.Compose(ctx, v.Render(m.Params)),
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	input := r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		input += "?" + r.URL.RawQuery
	}
	result, err := routepath.Canonicalize(input)
	if err != nil {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	if result.Changed {
		target := result.Path
		if result.Query != "" {
			target += "?" + result.Query
		}
		// 308 keeps the method, unlike 301.
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}

	out := s.renderPath(r.Context(), result.Path)

	var buf bytes.Buffer
	if err := s.renderer.RenderToWriter(&buf, s.pages.Document(out.match, out.body)); err != nil {
		s.logger.Error("render failed", "path", result.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(out.status)
	w.Write(buf.Bytes())
}

// routeInfo is one entry of the /_routes listing.
type routeInfo struct {
	FullPath string      `json:"fullPath"`
	Name     string      `json:"name"`
	Meta     router.Meta `json:"meta"`
	Depth    int         `json:"depth"`
	Leaf     bool        `json:"leaf"`
}

type routesResponse struct {
	Routes []routeInfo       `json:"routes"`
	Menu   []router.NavItem `json:"menu"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	reg := s.Registry()
	resp := routesResponse{Routes: []routeInfo{}, Menu: reg.Menu()}
	for _, e := range reg.Entries() {
		resp.Routes = append(resp.Routes, routeInfo{
			FullPath: e.FullPath,
			Name:     e.Node.Name,
			Meta:     e.Node.Meta,
			Depth:    e.Depth,
			Leaf:     e.Node.IsLeaf(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("encode routes", "error", err)
	}
}
