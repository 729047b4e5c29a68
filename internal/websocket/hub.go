package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/kaliyo-backend/internal"
)

// =============================================================================
// CONNECTION HUB
// =============================================================================

// Hub maps connection ids to live clients. Send is called from the game loop
// and never blocks it: a client whose buffer is full is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	log.Debug().Str("conn", c.id).Int("connections", total).Msg("[Hub] registered")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
}

func (h *Hub) get(id string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[id]
}

func (h *Hub) Send(connID string, msg internal.Outbound) {
	c := h.get(connID)
	if c == nil {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("[Hub] failed to encode message")
		return
	}
	h.deliver(c, msg.Type, payload)
}

// Broadcast encodes msg once and queues it for every listed connection.
func (h *Hub) Broadcast(connIDs []string, msg internal.Outbound) {
	if len(connIDs) == 0 {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("[Hub] failed to encode message")
		return
	}

	for _, id := range connIDs {
		if c := h.get(id); c != nil {
			h.deliver(c, msg.Type, payload)
		}
	}
}

func (h *Hub) deliver(c *Client, eventType string, payload []byte) {
	if !c.enqueue(payload) {
		log.Warn().Str("conn", c.id).Str("type", eventType).Msg("[Hub] send buffer full, dropping client")
		c.close()
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll shuts every connection, used on server shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
}
