package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sasakorman/taxrunner/internal/api/apierr"
	"github.com/sasakorman/taxrunner/internal/api/request"
	"github.com/sasakorman/taxrunner/internal/api/response"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/services/leaderboard"
	"github.com/sasakorman/taxrunner/internal/services/registry"
)

// PlayerHandler handles registration and profile endpoints
type PlayerHandler struct {
	registry *registry.Service
	board    *leaderboard.Store
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(reg *registry.Service, board *leaderboard.Store) *PlayerHandler {
	return &PlayerHandler{
		registry: reg,
		board:    board,
	}
}

// Register handles POST /api/v1/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.registry.Register(req.Name, req.AdminKey)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegisterResponse{
		PlayerID:  string(player.ID),
		Name:      player.DisplayName,
		Credits:   player.Credits,
		Day:       string(h.board.CurrentKey()),
		ClaimCode: player.ClaimCode,
	})
}

// Status handles GET /api/v1/status
func (h *PlayerHandler) Status(w http.ResponseWriter, r *http.Request) {
	prices := make(map[string]int, len(model.ItemPrices))
	for item, price := range model.ItemPrices {
		prices[string(item)] = price
	}

	response.JSON(w, http.StatusOK, response.StatusResponse{
		Day:        string(h.board.CurrentKey()),
		ItemPrices: prices,
		Prize:      h.registry.PrizePool(),
	})
}

// Me handles GET /api/v1/me?playerId=
func (h *PlayerHandler) Me(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(r.URL.Query().Get("playerId"))
	if playerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("playerId is required"))
		return
	}

	player, err := h.registry.Get(playerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// ClaimGrants handles GET /api/v1/claim-grants?playerId=
// The drain is atomic: a second poll returns an empty mapping.
func (h *PlayerHandler) ClaimGrants(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(r.URL.Query().Get("playerId"))
	if playerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("playerId is required"))
		return
	}

	if _, err := h.registry.Get(playerID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	grants := h.registry.DrainGrants(playerID)
	out := make(map[string]int, len(grants))
	for item, count := range grants {
		out[string(item)] = count
	}
	response.JSON(w, http.StatusOK, response.GrantsResponse{Grants: out})
}
