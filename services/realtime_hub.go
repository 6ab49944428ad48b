package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// WSClient is one provider dashboard connection.
type WSClient struct {
	ProviderID uint
	Conn       *websocket.Conn
}

// RealtimeHub fans booking alerts out to every open dashboard of a provider.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.ProviderID] == nil {
		h.clients[c.ProviderID] = make(map[*WSClient]struct{})
	}
	h.clients[c.ProviderID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.ProviderID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.ProviderID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) BroadcastAlert(providerID uint, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[providerID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
