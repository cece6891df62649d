package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/services/leaderboard"
	"github.com/sasakorman/taxrunner/internal/sse"
)

// EventsHandler serves the real-time event stream
type EventsHandler struct {
	hub   *sse.Hub
	board *leaderboard.Store
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *sse.Hub, board *leaderboard.Store) *EventsHandler {
	return &EventsHandler{
		hub:   hub,
		board: board,
	}
}

// Stream handles GET /api/v1/events?playerId=
// A missing playerId gets a server-generated one; the hello event tells
// the client which id its sink is keyed under.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(r.URL.Query().Get("playerId"))
	if playerID == "" {
		playerID = model.PlayerID(uuid.NewString())
	}

	sse.ServeSSE(w, r, h.hub, playerID, h.board.CurrentKey())
}
