// Package server tokenizes source text sent over WebSocket connections.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mlang/internal/lexer"
)

// Request is the text frame a client sends.
type Request struct {
	URI    string `json:"uri"`
	Source string `json:"source"`
}

// TokenMessage is the wire form of a token.
type TokenMessage struct {
	Kind       string `json:"kind"`
	Characters string `json:"characters"`
	Precedence string `json:"precedence"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Valid      bool   `json:"valid"`
}

// Response answers one Request.
type Response struct {
	ID         string         `json:"id"`
	Tokens     []TokenMessage `json:"tokens"`
	ReachedEOF bool           `json:"reached_eof"`
	// Error holds the rendered traceback when the pass failed, or the
	// reason the request could not be read.
	Error string `json:"error,omitempty"`
}

// Options configures a Server.
type Options struct {
	Strict bool
	// Logger for connection events. If nil, slog.Default() is used.
	Logger *slog.Logger
}

type client struct {
	id   string
	conn *websocket.Conn
}

// Server accepts WebSocket clients on /tokenize.
type Server struct {
	opts     Options
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
	http    *http.Server
}

// New creates a server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		opts:    opts,
		logger:  logger,
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenize", s.handleTokenize)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"clients": s.ClientCount(),
		})
	})
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeClients()
		return s.http.Shutdown(shutdownCtx)
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
	s.logger.Info("client connected", "client", c.id, "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.clients, c.id)
		s.mu.Unlock()
		conn.Close()
		s.logger.Info("client disconnected", "client", c.id)
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("read failed", "client", c.id, "err", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		resp := s.respond(data)
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("write failed", "client", c.id, "err", err)
			return
		}
	}
}

func (s *Server) respond(data []byte) Response {
	resp := Response{ID: uuid.NewString()}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		resp.Error = "invalid request: " + err.Error()
		return resp
	}

	var opts []lexer.Option
	if s.opts.Strict {
		opts = append(opts, lexer.WithStrict())
	}
	res := lexer.Tokenize(req.Source, opts...)

	resp.ReachedEOF = res.ReachedEOF
	resp.Tokens = make([]TokenMessage, 0, len(res.Tokens))
	for _, tk := range res.Tokens {
		resp.Tokens = append(resp.Tokens, Encode(tk))
	}
	if res.Failed() {
		resp.Error = res.Err.Traceback(req.Source, req.URI)
	}
	s.logger.Debug("tokenized", "id", resp.ID, "uri", req.URI, "tokens", len(resp.Tokens))
	return resp
}

func (s *Server) closeClients() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
	}
}

// Encode converts tk to its wire form.
func Encode(tk lexer.Token) TokenMessage {
	return TokenMessage{
		Kind:       tk.Kind().String(),
		Characters: tk.Text(),
		Precedence: tk.Lexeme.Precedence.String(),
		Start:      tk.Position.Start,
		End:        tk.Position.End,
		Line:       tk.Position.Line,
		Column:     tk.Position.Column,
		Valid:      tk.Valid,
	}
}
