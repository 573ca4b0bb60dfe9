package sse

import (
	"sync"

	"github.com/lantern-hub/lantern/internal/domain/notification"
)

// Hub is the in-process registry of connected SSE clients. Each entry lives
// exactly as long as its HTTP connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*notification.SSEClient
	stopped bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*notification.SSEClient),
	}
}

// Register adds a client. A client already registered under the same ID is
// closed and replaced. Registering after Stop closes the client immediately.
func (h *Hub) Register(client *notification.SSEClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		client.Close()
		return
	}
	if old, ok := h.clients[client.ClientID]; ok && old != client {
		old.Close()
	}
	h.clients[client.ClientID] = client
}

func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		c.Close()
		delete(h.clients, clientID)
	}
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToAll queues message for every client and returns how many
// accepted it. Clients whose buffer is full miss the message.
func (h *Hub) BroadcastToAll(message *notification.SSEMessage) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, c := range h.clients {
		if trySend(c, message) {
			sent++
		}
	}
	return sent
}

func (h *Hub) SendToClient(clientID string, message *notification.SSEMessage) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c := h.clients[clientID]
	if c == nil {
		return notification.ErrClientNotFound
	}
	if !trySend(c, message) {
		return notification.ErrChannelFull
	}
	return nil
}

// Stop closes every client and rejects later registrations.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
}

func trySend(c *notification.SSEClient, msg *notification.SSEMessage) bool {
	select {
	case c.MessageChan <- msg:
		return true
	default:
		return false
	}
}
