package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"amc-backend/internal/models"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub streams notices to connected WebSocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *Hub) Notify(ctx context.Context, n models.Notice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteJSON(n); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and keeps the client registered until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Notify] WebSocket upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Clients only listen; reading detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			if h.clients[conn] {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
			return
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
