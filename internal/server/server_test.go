package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := New(opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/tokenize"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req any) Response {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return resp
}

func TestServer_Tokenize(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	conn := dial(t, ts)

	resp := roundTrip(t, conn, Request{URI: "main.ml", Source: "x = 1 + 2;"})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.ID == "" || !resp.ReachedEOF {
		t.Errorf("response = %+v", resp)
	}

	var got []string
	for _, tk := range resp.Tokens {
		got = append(got, tk.Kind+":"+tk.Characters)
	}
	want := "mlnamespace:x mlinfix:= mlnum:1 mlinfix:+ mlnum:2 mleof:"
	if strings.Join(got, " ") != want {
		t.Errorf("tokens = %v, want %s", got, want)
	}
	if plus := resp.Tokens[3]; plus.Start != 6 || plus.End != 7 || plus.Column != 7 || plus.Precedence != "lowest" {
		t.Errorf("+ token = %+v", plus)
	}
}

func TestServer_SeveralRequestsOnOneConnection(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	conn := dial(t, ts)

	first := roundTrip(t, conn, Request{Source: "return"})
	second := roundTrip(t, conn, Request{Source: "returnx"})

	if first.ID == second.ID {
		t.Error("responses share an id")
	}
	if first.Tokens[0].Kind != "mlprefix" || second.Tokens[0].Kind != "mlnamespace" {
		t.Errorf("kinds = %s, %s", first.Tokens[0].Kind, second.Tokens[0].Kind)
	}
}

func TestServer_InvalidRequest(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	conn := dial(t, ts)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.Error, "invalid request") {
		t.Errorf("Error = %q", resp.Error)
	}
}

func TestServer_Healthz(t *testing.T) {
	s, ts := newTestServer(t, Options{})
	conn := dial(t, ts)
	roundTrip(t, conn, Request{Source: "a"})

	if n := s.ClientCount(); n != 1 {
		t.Errorf("ClientCount() = %d, want 1", n)
	}

	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["clients"] != float64(1) {
		t.Errorf("healthz = %v", body)
	}
}
