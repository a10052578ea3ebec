package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Hub streams day snapshots to chart clients. A client connecting mid-run
// immediately receives the most recent snapshot.
type Hub struct {
	clients map[*websocket.Conn]bool
	last    []byte
	mu      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = data
	for c := range h.clients {
		c.WriteMessage(websocket.TextMessage, data)
	}
}

func (h *Hub) BroadcastJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	h.Broadcast(data)
}

func (h *Hub) Handler(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	if h.last != nil {
		c.WriteMessage(websocket.TextMessage, h.last)
	}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
