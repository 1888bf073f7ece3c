package household

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// updateMessage tells connected clients which query paths to refetch after a
// mutation. Clients never receive the mutated data itself; they re-request it.
type updateMessage struct {
	Type      string    `json:"type"`
	Event     string    `json:"event,omitempty"`
	Paths     []string  `json:"paths,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans live-update notifications out to connected WebSocket clients
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// Same-origin enforcement happens at the deployment proxy
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWS upgrades the connection and keeps it registered until it closes
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	conn.WriteJSON(updateMessage{Type: "connected", Timestamp: time.Now()})
	h.mu.Unlock()
	slog.Info("WebSocket client connected", "clients", count)

	// Drain client messages; none are meaningful, but reading detects closes
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast tells every connected client to refetch the given paths
func (h *Hub) Broadcast(event string, paths ...string) {
	msg := updateMessage{
		Type:      "update",
		Event:     event,
		Paths:     paths,
		Timestamp: time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount reports how many clients are connected
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) drop(conn *websocket.Conn) {
	conn.Close()
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	slog.Info("WebSocket client disconnected")
}
