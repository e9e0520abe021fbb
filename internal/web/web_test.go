package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomz197/splitshot/internal/config"
	"github.com/tomz197/splitshot/internal/input"
	"github.com/tomz197/splitshot/internal/session"
)

func newTestServer(t *testing.T, reg *session.Registry) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	cfg.StartingEnemyCount = 0
	s, err := New(Options{Config: &cfg, Registry: reg, ShutdownGrace: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until match accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(serverMessage) bool) serverMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var m serverMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(m) {
			return m
		}
	}
}

func TestIndexServesCanvas(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<canvas") {
		t.Errorf("GET / = %d, body missing canvas", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Sessions != 0 {
		t.Errorf("health = %+v", body)
	}
}

func TestToEvent(t *testing.T) {
	tests := []struct {
		msg  clientMessage
		want input.Event
		ok   bool
	}{
		{clientMessage{Type: "key", Key: "up", Down: true}, input.Press(input.KeyUp), true},
		{clientMessage{Type: "key", Key: "left"}, input.Release(input.KeyLeft), true},
		{clientMessage{Type: "click", X: 10, Y: 20}, input.Click(10, 20), true},
		{clientMessage{Type: "key", Key: "jump", Down: true}, input.Event{}, false},
		{clientMessage{Type: "hello"}, input.Event{}, false},
	}
	for _, tt := range tests {
		got, ok := toEvent(tt.msg)
		if ok != tt.ok || got != tt.want {
			t.Errorf("toEvent(%+v) = %+v, %v; want %+v, %v", tt.msg, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSessionStreamsFrames(t *testing.T) {
	s, ts := newTestServer(t, nil)
	conn := dial(t, ts)

	first := readUntil(t, conn, func(m serverMessage) bool { return m.Type == "frame" })
	if first.Session == "" || first.View == nil {
		t.Fatalf("frame without session or view: %+v", first)
	}
	if first.View.Width != 800 || first.View.Ship.X != 400 {
		t.Errorf("unexpected first frame: %+v", first.View)
	}
	if !strings.Contains(strings.Join(first.Cues, ","), "background-loop-start") {
		t.Errorf("first frame cues = %v, want background loop", first.Cues)
	}
	if s.Registry().Count() != 1 {
		t.Errorf("registry count = %d, want 1", s.Registry().Count())
	}

	if err := conn.WriteJSON(clientMessage{Type: "click", X: 700, Y: 300}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m serverMessage) bool {
		return m.View != nil && len(m.View.Bullets) == 1
	})

	if err := conn.WriteJSON(clientMessage{Type: "key", Key: "right", Down: true}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m serverMessage) bool {
		return m.View != nil && m.View.Ship.X > 400
	})
}

func TestQuitClosesSession(t *testing.T) {
	s, ts := newTestServer(t, nil)
	conn := dial(t, ts)
	readUntil(t, conn, func(m serverMessage) bool { return m.Type == "frame" })

	if err := conn.WriteJSON(clientMessage{Type: "key", Key: "quit", Down: true}); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Errorf("close err = %v, want normal closure", err)
			}
			break
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Registry().Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.Registry().Count() != 0 {
		t.Error("session still registered after quit")
	}
}

func TestShutdownNotifiesBrowser(t *testing.T) {
	reg := session.NewRegistry(0, nil)
	_, ts := newTestServer(t, reg)
	conn := dial(t, ts)
	readUntil(t, conn, func(m serverMessage) bool { return m.Type == "frame" })

	errc := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errc <- reg.Shutdown(ctx)
	}()

	readUntil(t, conn, func(m serverMessage) bool { return m.Type == "shutdown" })
	if err := <-errc; err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestServerFull(t *testing.T) {
	reg := session.NewRegistry(1, nil)
	reg.Register("someone")
	_, ts := newTestServer(t, reg)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded on a full server")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("response = %v, want 503", resp)
	}
}
