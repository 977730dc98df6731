package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/routetable/pkg/router"
	"github.com/vango-dev/routetable/pkg/vdom"
)

func dialNav(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(env.server.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_nav"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	hello := readNav(t, conn)
	if hello.Type != NavTypeHello || hello.Session == "" {
		t.Fatalf("first frame = %+v, want hello with session", hello)
	}
	return conn
}

func readNav(t *testing.T, conn *websocket.Conn) NavMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg NavMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func sendNav(t *testing.T, conn *websocket.Conn, seq uint64, path string) {
	t.Helper()
	if err := conn.WriteJSON(NavMessage{Type: NavTypeNavigate, Seq: seq, Path: path}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestNavRenderNotFoundAndError(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := dialNav(t, env)

	sendNav(t, conn, 1, "/general/tab/4")
	msg := readNav(t, conn)
	if msg.Type != NavTypeRender || msg.Seq != 1 || msg.Route != "GeneralServicesActiveTabIndex" {
		t.Fatalf("render frame = %+v", msg)
	}
	if msg.Title != "general" || !strings.Contains(msg.HTML, `data-active-tab="4"`) {
		t.Errorf("render frame content = %+v", msg)
	}
	if strings.Contains(msg.HTML, "<html") {
		t.Error("nav frames carry the page body only")
	}

	sendNav(t, conn, 2, "/general/")
	msg = readNav(t, conn)
	if msg.Type != NavTypeRender || msg.Path != "/general" {
		t.Errorf("canonicalized frame = %+v", msg)
	}

	sendNav(t, conn, 3, "/missing")
	msg = readNav(t, conn)
	if msg.Type != NavTypeNotFound || msg.Status != 404 || !strings.Contains(msg.HTML, "Page not found") {
		t.Errorf("not found frame = %+v", msg)
	}

	sendNav(t, conn, 4, "/ops/broken")
	msg = readNav(t, conn)
	if msg.Type != NavTypeError || msg.Status != 500 || !strings.Contains(msg.HTML, "load-error") {
		t.Errorf("error frame = %+v", msg)
	}
	if !strings.Contains(msg.Error, "chunk store offline") {
		t.Errorf("error = %q", msg.Error)
	}

	sendNav(t, conn, 5, "/a\\b")
	msg = readNav(t, conn)
	if msg.Type != NavTypeError || msg.Status != 400 {
		t.Errorf("invalid path frame = %+v", msg)
	}
}

func TestNavDiscardsStaleLoads(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := dialNav(t, env)

	sendNav(t, conn, 1, "/ops/slow")
	sendNav(t, conn, 2, "/general")

	msg := readNav(t, conn)
	if msg.Seq != 2 || msg.Type != NavTypeRender {
		t.Fatalf("first reply = %+v, want render for seq 2", msg)
	}

	// The superseded load was cancelled; whatever it produced is dropped.
	close(env.release)
	sendNav(t, conn, 3, "/general/tab/1")
	msg = readNav(t, conn)
	if msg.Seq != 3 {
		t.Errorf("reply = %+v, want seq 3 (seq 1 must never be delivered)", msg)
	}
}

func TestNavIgnoresOutOfOrderSeq(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := dialNav(t, env)

	sendNav(t, conn, 5, "/general")
	if msg := readNav(t, conn); msg.Seq != 5 {
		t.Fatalf("reply = %+v", msg)
	}
	sendNav(t, conn, 4, "/general/tab/9")
	sendNav(t, conn, 6, "/general/tab/1")
	if msg := readNav(t, conn); msg.Seq != 6 {
		t.Errorf("reply = %+v, want seq 6", msg)
	}
}

func TestNavInvalidMessage(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := dialNav(t, env)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{nope")); err != nil {
		t.Fatal(err)
	}
	if msg := readNav(t, conn); msg.Type != NavTypeError || msg.Error != "invalid message" {
		t.Errorf("reply = %+v", msg)
	}
}

func TestNavRateLimit(t *testing.T) {
	env := newTestEnv(t, &Config{NavRate: 0.001, NavBurst: 1})
	conn := dialNav(t, env)

	sendNav(t, conn, 1, "/general")
	if msg := readNav(t, conn); msg.Type != NavTypeRender {
		t.Fatalf("first reply = %+v", msg)
	}
	sendNav(t, conn, 2, "/general")
	if msg := readNav(t, conn); msg.Type != NavTypeError || msg.Error != "rate limited" {
		t.Errorf("second reply = %+v, want rate limited", msg)
	}
}

func TestSetRegistryNotifiesNavClients(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := dialNav(t, env)

	fresh := router.MustNew([]*router.RouteNode{{
		Path: "/fresh",
		Name: "Fresh",
		Meta: router.Meta{Title: "fresh", Exact: true},
		Loader: router.Static(router.ViewFunc(func(router.Params) *vdom.VNode {
			return vdom.Text("fresh view")
		})),
	}})
	env.server.SetRegistry(fresh)

	if msg := readNav(t, conn); msg.Type != NavTypeReload {
		t.Fatalf("frame after SetRegistry = %+v, want reload", msg)
	}
	if env.server.Registry() != fresh {
		t.Fatal("Registry() does not return the new registry")
	}

	sendNav(t, conn, 1, "/fresh")
	if msg := readNav(t, conn); msg.Type != NavTypeRender || msg.HTML != "fresh view" {
		t.Errorf("render frame = %+v", msg)
	}
	sendNav(t, conn, 2, "/general")
	if msg := readNav(t, conn); msg.Type != NavTypeNotFound {
		t.Errorf("old route frame = %+v, want not_found", msg)
	}
}

func TestNavRecoversFromRenderPanic(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := dialNav(t, env)

	env.server.SetRegistry(router.MustNew([]*router.RouteNode{
		{
			Path: "/boom",
			Name: "Boom",
			Meta: router.Meta{Exact: true},
			Loader: router.Static(router.ViewFunc(func(router.Params) *vdom.VNode {
				panic("view exploded")
			})),
		},
		{
			Path: "/calm",
			Name: "Calm",
			Meta: router.Meta{Exact: true},
			Loader: router.Static(router.ViewFunc(func(router.Params) *vdom.VNode {
				return vdom.Text("calm")
			})),
		},
	}))
	if msg := readNav(t, conn); msg.Type != NavTypeReload {
		t.Fatalf("frame after SetRegistry = %+v, want reload", msg)
	}

	sendNav(t, conn, 1, "/boom")
	msg := readNav(t, conn)
	if msg.Type != NavTypeError || msg.Seq != 1 || msg.Status != 500 {
		t.Fatalf("panicking view frame = %+v, want error 500", msg)
	}

	sendNav(t, conn, 2, "/calm")
	if msg := readNav(t, conn); msg.Type != NavTypeRender || msg.HTML != "calm" {
		t.Errorf("frame after panic = %+v, want render", msg)
	}
}
