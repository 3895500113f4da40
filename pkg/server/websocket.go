package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/sink"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Hub fans the run event stream out to every connected websocket client.
// It implements sink.Sink, so it is wired into the runner's fanout like
// any other sink.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

var _ sink.Sink = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: map[*wsClient]struct{}{}}
}

// OnEvent broadcasts the event to all clients. A client that cannot keep
// up has events dropped rather than stalling the pipeline.
func (h *Hub) OnEvent(e domain.RunEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- e:
		default:
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

type wsClient struct {
	conn *websocket.Conn
	send chan domain.RunEvent
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade websocket", "error", err)
		return
	}
	defer ws.Close()

	client := &wsClient{conn: ws, send: make(chan domain.RunEvent, 256)}
	s.hub.add(client)
	defer s.hub.remove(client)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	// Writer goroutine: pushes events and keepalive pings to the client.
	go func() {
		defer wg.Done()
		defer ws.Close()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case e := <-client.send:
				ws.SetWriteDeadline(time.Now().Add(writeWait))
				if err := ws.WriteJSON(e); err != nil {
					slog.Error("WebSocket write error", "error", err)
					return
				}
			case <-ticker.C:
				ws.SetWriteDeadline(time.Now().Add(writeWait))
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Reader loop: receives prompt submissions.
	for {
		var msg struct {
			Type   string `json:"type"`
			Prompt string `json:"prompt"`
		}
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				break
			}
			slog.Error("WebSocket read error", "error", err)
			break
		}

		switch msg.Type {
		case "prompt":
			// Run in its own goroutine so the reader keeps draining the
			// connection; results reach the client via the hub. A busy
			// rejection surfaces as the custom event.
			go func(prompt string) {
				if _, err := s.runner.ProcessPrompt(context.Background(), prompt); err != nil {
					slog.Warn("Prompt run ended with error", "error", err)
				}
			}(msg.Prompt)
		default:
			slog.Debug("Ignoring unknown websocket message", "type", msg.Type)
		}
	}

	close(done)
	wg.Wait()
}
