package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"summit-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans session events out to every connected client. The UI receives the
// assistant reply immediately and the derived title when it settles, so
// nothing blocks on the second upstream call.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.register(conn)
	log.Printf("WebSocket connected: %s", conn.RemoteAddr())

	// Drain reads to detect disconnects; clients never send payloads.
	go func() {
		defer h.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	delete(h.conns, conn)
	log.Printf("WebSocket disconnected: %s", conn.RemoteAddr())
}

// Publish broadcasts one event frame to all clients.
func (h *Hub) Publish(msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.conns {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}
