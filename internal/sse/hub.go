package sse

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/sasakorman/taxrunner/internal/model"
)

// Hub fans named events out to connected clients. One sink per player
// id, last connection wins: registering a new sink for an id closes the
// previous one. Delivery is best-effort, at-most-once per open
// connection; there is no replay buffer, so events published while a
// client is absent are permanently lost.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[model.PlayerID]*Client

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger.With(slog.String("component", "sse")),
		clients:    make(map[model.PlayerID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if prior, ok := h.clients[client.playerID]; ok {
				close(prior.send)
			}
			h.clients[client.playerID] = client
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client registered",
				slog.String("player_id", string(client.playerID)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			// Only remove if this exact client is still current; a
			// reconnect may already have replaced it
			if current, ok := h.clients[client.playerID]; ok && current == client {
				delete(h.clients, client.playerID)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("sse client unregistered",
					slog.String("player_id", string(client.playerID)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("sse broadcast partial failure", slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.logger.Info("sse hub stopped")
			return
		}
	}
}

// Register adds a client to the hub, replacing any prior sink for its id
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendTo pushes a named event to one player. Returns false when the
// player has no live connection; the event is then simply gone.
func (h *Hub) SendTo(playerID model.PlayerID, event string, payload any) bool {
	msg, err := formatEvent(event, payload)
	if err != nil {
		h.logger.Error("sse payload marshal failed",
			slog.String("event", event),
			slog.String("error", err.Error()))
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[playerID]
	if !ok {
		return false
	}
	select {
	case client.send <- msg:
		return true
	default:
		h.logger.Warn("sse send dropped - client buffer full",
			slog.String("player_id", string(playerID)),
			slog.String("event", event))
		return false
	}
}

// Broadcast fans a named event out to every connected client
func (h *Hub) Broadcast(event string, payload any) {
	msg, err := formatEvent(event, payload)
	if err != nil {
		h.logger.Error("sse payload marshal failed",
			slog.String("event", event),
			slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// ConnectedIDs returns the ids of all currently connected players
func (h *Hub) ConnectedIDs() []model.PlayerID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]model.PlayerID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// Connected reports whether a player has a live sink
func (h *Hub) Connected(playerID model.PlayerID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[playerID]
	return ok
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// formatEvent marshals the payload and frames it as an SSE message
func formatEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := "event: " + event + "\n" + "data: " + string(data) + "\n\n"
	return []byte(msg), nil
}
