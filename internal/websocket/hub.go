// Package websocket provides the hub and client plumbing that streams
// freshly generated insights to connected UI clients.
package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"focusflow/internal/logging"
	"focusflow/pkg/types"
)

// InsightEvent is pushed to clients whenever a user's insights are
// regenerated
type InsightEvent struct {
	Type        string          `json:"type"`
	UserID      string          `json:"user_id,omitempty"`
	Insights    []types.Insight `json:"insights,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Data        map[string]any  `json:"data,omitempty"`
}

// Client represents one connected WebSocket consumer. UserID filters
// which events the client receives; empty means all users.
type Client struct {
	ID     string
	Conn   *websocket.Conn
	Send   chan InsightEvent
	UserID string

	hub    *Hub
	closed bool
	mu     sync.Mutex
}

// safeClose closes the send channel exactly once
func (c *Client) safeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// Hub manages WebSocket clients and broadcasts insight events
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan InsightEvent
	logger     logging.Logger
	mu         sync.RWMutex
}

// NewHub creates a hub ready to run
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan InsightEvent, 256),
		logger:     logger.WithComponent("websocket"),
	}
}

// Run processes registrations and broadcasts until the context is
// canceled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			client.safeClose()
			if err := client.Conn.Close(); err != nil {
				h.logger.Warn("error closing client connection", "client_id", client.ID, "error", err.Error())
			}
		}
		h.mu.Unlock()
	}()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client registered", "client_id", client.ID, "total", total)

			client.Send <- InsightEvent{
				Type:        "connected",
				GeneratedAt: time.Now(),
				Data:        map[string]any{"client_id": client.ID},
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.safeClose()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client unregistered", "client_id", client.ID, "total", total)

		case event := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if client.UserID != "" && event.UserID != "" && client.UserID != event.UserID {
					continue
				}
				select {
				case client.Send <- event:
				default:
					// Slow client: drop the event rather than block the hub
					h.logger.Warn("dropping event for slow client", "client_id", client.ID)
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			return
		}
	}
}

// BroadcastInsights queues an insight refresh event for delivery
func (h *Hub) BroadcastInsights(userID string, insights []types.Insight) {
	event := InsightEvent{
		Type:        "insights_updated",
		UserID:      userID,
		Insights:    insights,
		GeneratedAt: time.Now(),
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast buffer full, dropping event", "user_id", userID)
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	client.hub = h
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
