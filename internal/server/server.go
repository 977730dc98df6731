package server

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/routetable/pkg/middleware"
	"github.com/vango-dev/routetable/pkg/render"
	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/vdom"
)

//go:embed static/nav.js
var navClient []byte

// Pages renders the chrome that does not come from a route's view.
type Pages interface {
	// Document wraps a composed page in the HTML document. m may be nil.
	Document(m *router.Match, body *vdom.VNode) *vdom.VNode

	// NotFound renders the fallback page for an unmatched path, already
	// framed by the root layout.
	NotFound(ctx context.Context, path string) *vdom.VNode

	// LoadError renders the panel shown in place of a view that failed
	// to load. It is composed with the route's layouts.
	LoadError(m *router.Match, path string, err error) *vdom.VNode
}

// Server dispatches requests to a route registry.
type Server struct {
	registry atomic.Pointer[router.Registry]
	pages    Pages
	metrics  *middleware.Metrics
	config   *Config
	renderer render.Renderer
	upgrader websocket.Upgrader
	handler  http.Handler

	connsMu sync.Mutex
	conns   map[*navConn]struct{}

	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a server for reg. A nil config uses DefaultConfig.
func New(reg *router.Registry, pages Pages, config *Config) *Server {
	config = config.withDefaults()
	s := &Server{
		pages:    pages,
		config:   config,
		renderer: render.Renderer{Doctype: true},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		conns:  make(map[*navConn]struct{}),
		logger: slog.Default().With("component", "server"),
	}
	s.registry.Store(reg)
	s.handler = s.routes()
	return s
}

// Registry returns the registry requests are currently served from.
func (s *Server) Registry() *router.Registry {
	return s.registry.Load()
}

// SetRegistry swaps the route table. Requests already resolving keep the
// registry they started with. Connected live navigation clients are told
// to reload their current page.
func (s *Server) SetRegistry(reg *router.Registry) {
	s.registry.Store(reg)
	s.logger.Info("route table replaced", "routes", reg.Len())
	s.NotifyReload()
}

// NotifyReload asks every live navigation client to fetch its current
// page again.
func (s *Server) NotifyReload() {
	s.connsMu.Lock()
	conns := make([]*navConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.connsMu.Unlock()

	for _, c := range conns {
		c.write(NavMessage{Type: NavTypeReload})
	}
}

// SetMetrics records resolve hits and misses on m.
func (s *Server) SetMetrics(m *middleware.Metrics) {
	s.metrics = m
}

// SetLogger replaces the server logger.
func (s *Server) SetLogger(l *slog.Logger) {
	s.logger = l.With("component", "server")
}

// Handler returns the HTTP handler for mounting in another router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)

	r.Get("/_routes", s.handleRoutes)
	r.Get("/_nav", s.handleNav)
	r.Get("/_nav.js", s.serveNavClient)
	if s.config.MetricsHandler != nil {
		r.Method(http.MethodGet, s.config.MetricsPath, s.config.MetricsHandler)
	}
	r.Get("/*", s.handlePage)
	return r
}

// logRequests logs one record per request after it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()))
	})
}

func (s *Server) serveNavClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(navClient)
}

// resolve wraps Registry.Resolve with metrics.
func (s *Server) resolve(reg *router.Registry, path string) (*router.Match, bool) {
	m, ok := reg.Resolve(path)
	if s.metrics != nil {
		s.metrics.RecordResolve(ok)
	}
	return m, ok
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String(), "routes", s.Registry().Len())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown(context.WithoutCancel(ctx))
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
