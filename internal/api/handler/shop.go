package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sasakorman/taxrunner/internal/api/apierr"
	"github.com/sasakorman/taxrunner/internal/api/request"
	"github.com/sasakorman/taxrunner/internal/api/response"
	"github.com/sasakorman/taxrunner/internal/dependencies/clock"
	"github.com/sasakorman/taxrunner/internal/dependencies/random"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/services/leaderboard"
	"github.com/sasakorman/taxrunner/internal/services/registry"
	"github.com/sasakorman/taxrunner/internal/sse"
)

// FlashbangMaxTargets caps how many connected players one flashbang hits
const FlashbangMaxTargets = 50

// ShopHandler handles purchase and item-use endpoints
type ShopHandler struct {
	registry *registry.Service
	board    *leaderboard.Store
	hub      *sse.Hub
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// NewShopHandler creates a new shop handler
func NewShopHandler(
	reg *registry.Service,
	board *leaderboard.Store,
	hub *sse.Hub,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *ShopHandler {
	return &ShopHandler{
		registry: reg,
		board:    board,
		hub:      hub,
		clock:    clk,
		random:   rnd,
		logger:   logger,
	}
}

// Purchase handles POST /api/v1/purchase
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req request.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("playerId is required"))
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	item := model.Item(req.Item)

	result, err := h.registry.Purchase(playerID, item)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.hub.SendTo(playerID, model.EventPurchaseCompleted, model.PurchaseCompletedPayload{
		Item:  item,
		Count: result.ItemCount,
	})
	h.hub.Broadcast(model.EventDropUpdated, model.DropUpdatedPayload{Amount: result.PrizePool})

	inventory := make(map[string]int, len(result.Player.Inventory))
	for i, c := range result.Player.Inventory {
		inventory[string(i)] = c
	}
	response.JSON(w, http.StatusOK, response.PurchaseResponse{
		Credits:           result.Player.Credits,
		FlashShieldActive: result.Player.FlashShieldActive,
		SaveFromReset:     result.Player.SaveFromReset,
		Inventory:         inventory,
		Prize:             result.PrizePool,
	})
}

// UseItem handles POST /api/v1/use-item
func (h *ShopHandler) UseItem(w http.ResponseWriter, r *http.Request) {
	var req request.UseItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("playerId is required"))
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	player, err := h.registry.Get(playerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	switch model.Item(req.Item) {
	case model.ItemFlashbang:
		h.useFlashbang(w, player)
	case model.ItemResetLeaderboard:
		h.useReset(w, player)
	default:
		apierr.WriteError(w, model.ErrUnknownItem)
	}
}

// useFlashbang spends one flashbang and flashes up to FlashbangMaxTargets
// randomly chosen other connected players
func (h *ShopHandler) useFlashbang(w http.ResponseWriter, player *model.Player) {
	if err := h.registry.UseItem(player.ID, model.ItemFlashbang); err != nil {
		apierr.WriteError(w, err)
		return
	}

	targets := make([]model.PlayerID, 0)
	for _, id := range h.hub.ConnectedIDs() {
		if id != player.ID {
			targets = append(targets, id)
		}
	}

	// Fisher-Yates, then take the head
	for i := len(targets) - 1; i > 0; i-- {
		j := h.random.Intn(i + 1)
		targets[i], targets[j] = targets[j], targets[i]
	}
	if len(targets) > FlashbangMaxTargets {
		targets = targets[:FlashbangMaxTargets]
	}

	payload := model.FlashbangPayload{
		By: player.DisplayName,
		TS: h.clock.Now().UnixMilli(),
	}
	flashed := 0
	for _, id := range targets {
		if h.hub.SendTo(id, model.EventFlashbang, payload) {
			flashed++
		}
	}

	h.logger.Info("flashbang used",
		slog.String("player_id", string(player.ID)),
		slog.Int("flashed", flashed),
	)
	response.JSON(w, http.StatusOK, response.UseItemResponse{OK: true, Flashed: flashed})
}

// useReset spends one reset item and wipes the current board, subject to
// the global cooldown. Cooldown violations do not consume the item.
func (h *ShopHandler) useReset(w http.ResponseWriter, player *model.Player) {
	if player.InventoryCount(model.ItemResetLeaderboard) <= 0 {
		apierr.WriteError(w, model.ErrItemNotHeld)
		return
	}

	remaining, ok := h.board.TryManualReset(h.clock.Now())
	if !ok {
		apierr.WriteError(w, apierr.NewRateLimitedError(remaining))
		return
	}

	if err := h.registry.UseItem(player.ID, model.ItemResetLeaderboard); err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.hub.Broadcast(model.EventForceReset, model.ForceResetPayload{
		NewDay: h.board.CurrentKey(),
		Manual: true,
	})

	h.logger.Info("leaderboard reset item used", slog.String("player_id", string(player.ID)))
	response.JSON(w, http.StatusOK, response.UseItemResponse{OK: true})
}
