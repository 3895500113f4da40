// Package server exposes the pipeline over REST and WebSocket and serves
// the embedded browser UI.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/relaykit/relaykit/pkg/runner"
	"github.com/relaykit/relaykit/pkg/sink"
	"github.com/relaykit/relaykit/pkg/store"
	"github.com/relaykit/relaykit/pkg/tool"
)

// Mode describes how prompts are currently resolved.
type Mode struct {
	Name     string `json:"mode"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// RewireFunc applies the stored settings to the pipeline and reports the
// resulting mode. The server calls it after every config change.
type RewireFunc func(ctx context.Context) (Mode, error)

// Server serves the web UI and REST API for the pipeline.
type Server struct {
	runner   *runner.Runner
	registry *tool.Registry
	settings store.Settings
	history  *sink.Memory
	rewire   RewireFunc
	hub      *Hub
	distFS   embed.FS
	srv      *http.Server

	mu   sync.RWMutex
	mode Mode
}

// New creates a new Server. The hub must already be wired into the
// runner's sink fanout so connected clients see the event stream.
func New(
	run *runner.Runner,
	registry *tool.Registry,
	settings store.Settings,
	history *sink.Memory,
	hub *Hub,
	rewire RewireFunc,
	mode Mode,
	distFS embed.FS,
) *Server {
	return &Server{
		runner:   run,
		registry: registry,
		settings: settings,
		history:  history,
		hub:      hub,
		rewire:   rewire,
		mode:     mode,
		distFS:   distFS,
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	slog.Info("Starting web server", "addr", addr)
	return s.srv.ListenAndServe()
}

// Handler builds the routed handler. Split out so tests can serve it from
// httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tools", s.handleListTools)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("POST /api/prompt", s.handlePrompt)
	mux.HandleFunc("GET /api/config", s.handleListConfig)
	mux.HandleFunc("PUT /api/config", s.handleUpdateConfig)

	// WebSocket
	mux.HandleFunc("/api/ws", s.handleWebSocket)

	// Static assets (SPA fallback)
	mux.HandleFunc("/", s.handleStatic)

	return s.corsMiddleware(mux)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Mode returns the currently reported resolution mode.
func (s *Server) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Server) setMode(m Mode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if len(r.URL.Path) >= 4 && r.URL.Path[:4] == "/api" {
		http.NotFound(w, r)
		return
	}

	path := r.URL.Path
	if path == "/" {
		path = "index.html"
	} else if path[0] == '/' {
		path = path[1:]
	}

	distFS, err := fs.Sub(s.distFS, "dist")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Try serving the exact file.
	f, err := distFS.Open(path)
	if err == nil {
		defer f.Close()
		stat, _ := f.Stat()
		if !stat.IsDir() {
			http.FileServer(http.FS(distFS)).ServeHTTP(w, r)
			return
		}
	}

	// Fallback to index.html for SPA routing.
	index, err := distFS.Open("index.html")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer index.Close()
	http.ServeContent(w, r, "index.html", time.Time{}, index.(io.ReadSeeker))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, err error) {
	slog.Error("API Error", "error", err)
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}
