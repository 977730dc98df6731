package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/vango-dev/routetable/pkg/routepath"
	"github.com/vango-dev/routetable/pkg/router"
)

// NavMessageType is the type of a live navigation frame.
type NavMessageType string

const (
	NavTypeHello    NavMessageType = "hello"
	NavTypeNavigate NavMessageType = "navigate"
	NavTypeRender   NavMessageType = "render"
	NavTypeNotFound NavMessageType = "not_found"
	NavTypeError    NavMessageType = "error"
	NavTypeReload   NavMessageType = "reload"
)

// NavMessage is exchanged over /_nav. Clients send navigate frames with an
// increasing Seq; the server answers each one it does not drop with a
// render, not_found or error frame carrying the same Seq. A reload frame
// is pushed when the route table changes.
type NavMessage struct {
	Type    NavMessageType `json:"type"`
	Seq     uint64         `json:"seq,omitempty"`
	Path    string         `json:"path,omitempty"`
	Session string         `json:"session,omitempty"`
	Route   string         `json:"route,omitempty"`
	Title   string         `json:"title,omitempty"`
	Status  int            `json:"status,omitempty"`
	HTML    string         `json:"html,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// navConn is one live navigation connection.
type navConn struct {
	s       *Server
	conn    *websocket.Conn
	id      string
	limiter *rate.Limiter

	writeMu sync.Mutex

	// latest is the newest navigate seq seen. Loads finishing for an older
	// seq are dropped.
	latest atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	c := &navConn{
		s:    s,
		conn: conn,
		id:   uuid.NewString(),
	}
	if s.config.NavRate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(s.config.NavRate), s.config.NavBurst)
	}

	logger := s.logger.With("session", c.id)
	logger.Debug("nav connected")

	s.connsMu.Lock()
	s.conns[c] = struct{}{}
	s.connsMu.Unlock()

	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		s.connsMu.Lock()
		delete(s.conns, c)
		s.connsMu.Unlock()
		cancel()
		c.wg.Wait()
		conn.Close()
		logger.Debug("nav disconnected")
	}()

	if err := c.write(NavMessage{Type: NavTypeHello, Session: c.id}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("nav read failed", "error", err)
			}
			return
		}

		var msg NavMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != NavTypeNavigate {
			c.write(NavMessage{Type: NavTypeError, Seq: msg.Seq, Error: "invalid message"})
			continue
		}
		if c.limiter != nil && !c.limiter.Allow() {
			c.write(NavMessage{Type: NavTypeError, Seq: msg.Seq, Path: msg.Path, Error: "rate limited"})
			continue
		}
		c.navigate(ctx, msg)
	}
}

// navigate starts loading msg.Path. An older in-flight load is told to stop
// through its context, but it may still finish; its result is dropped.
func (c *navConn) navigate(ctx context.Context, msg NavMessage) {
	if msg.Seq <= c.latest.Load() {
		c.s.logger.Debug("nav out of order", "session", c.id, "seq", msg.Seq)
		return
	}
	c.latest.Store(msg.Seq)

	loadCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				c.s.logger.Error("nav render panic", "session", c.id, "seq", msg.Seq, "path", msg.Path, "panic", rec)
				if msg.Seq == c.latest.Load() {
					c.write(NavMessage{Type: NavTypeError, Seq: msg.Seq, Path: msg.Path, Status: http.StatusInternalServerError, Error: "internal error"})
				}
			}
		}()

		reply := c.load(loadCtx, msg)
		if msg.Seq != c.latest.Load() {
			c.s.logger.Debug("nav result discarded", "session", c.id, "seq", msg.Seq, "path", msg.Path)
			return
		}
		c.write(reply)
	}()
}

func (c *navConn) load(ctx context.Context, msg NavMessage) NavMessage {
	result, err := routepath.Canonicalize(msg.Path)
	if err != nil {
		return NavMessage{Type: NavTypeError, Seq: msg.Seq, Path: msg.Path, Status: http.StatusBadRequest, Error: "invalid path"}
	}

	out := c.s.renderPath(ctx, result.Path)
	html, err := c.s.renderer.RenderToString(out.body)
	if err != nil {
		return NavMessage{Type: NavTypeError, Seq: msg.Seq, Path: result.Path, Status: http.StatusInternalServerError, Error: err.Error()}
	}

	reply := NavMessage{Seq: msg.Seq, Path: result.Path, Status: out.status, HTML: html}
	if out.match != nil {
		reply.Route = out.match.Route.Name
		reply.Title = out.match.Title()
	}
	switch {
	case out.err == nil:
		reply.Type = NavTypeRender
	case errors.Is(out.err, router.ErrNotFound):
		reply.Type = NavTypeNotFound
	default:
		reply.Type = NavTypeError
		reply.Error = out.err.Error()
	}
	return reply
}

func (c *navConn) write(msg NavMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
