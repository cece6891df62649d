package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sasakorman/taxrunner/internal/api/apierr"
	"github.com/sasakorman/taxrunner/internal/api/request"
	"github.com/sasakorman/taxrunner/internal/api/response"
	"github.com/sasakorman/taxrunner/internal/dependencies/clock"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/services/anticheat"
	"github.com/sasakorman/taxrunner/internal/services/leaderboard"
	"github.com/sasakorman/taxrunner/internal/services/registry"
	"github.com/sasakorman/taxrunner/internal/services/runs"
	"github.com/sasakorman/taxrunner/internal/sse"
)

// LeaderboardPageSize caps the public leaderboard response
const LeaderboardPageSize = 100

// ScoreHandler handles run and score endpoints
type ScoreHandler struct {
	registry *registry.Service
	runs     *runs.Tracker
	board    *leaderboard.Store
	hub      *sse.Hub
	clock    clock.Clock
	logger   *slog.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(
	reg *registry.Service,
	tracker *runs.Tracker,
	board *leaderboard.Store,
	hub *sse.Hub,
	clk clock.Clock,
	logger *slog.Logger,
) *ScoreHandler {
	return &ScoreHandler{
		registry: reg,
		runs:     tracker,
		board:    board,
		hub:      hub,
		clock:    clk,
		logger:   logger,
	}
}

// StartRun handles POST /api/v1/start-run
func (h *ScoreHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	var req request.StartRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("playerId is required"))
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	if _, err := h.registry.Get(playerID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	runID := h.runs.Start(playerID)
	response.JSON(w, http.StatusOK, response.StartRunResponse{RunID: string(runID)})
}

// SubmitScore handles POST /api/v1/submit-score. Non-admin submissions
// must present a live run and pass anti-cheat; the run is consumed only
// on acceptance.
func (h *ScoreHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
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

	if req.PlayerName != "" {
		h.registry.UpdateName(playerID, req.PlayerName)
		if updated, err := h.registry.Get(playerID); err == nil {
			player = updated
		}
	}

	if !player.IsAdmin {
		run, err := h.runs.Get(model.RunID(req.RunID), playerID)
		if err != nil {
			apierr.WriteError(w, err)
			return
		}

		elapsed := h.clock.Now().Sub(run.Started)
		if err := anticheat.Validate(elapsed, req.Score, req.JumpIntervals); err != nil {
			h.logger.Warn("score rejected",
				slog.String("player_id", string(playerID)),
				slog.Float64("score", req.Score),
				slog.String("reason", err.Error()),
			)
			apierr.WriteError(w, err)
			return
		}

		h.runs.Consume(run.ID)
	}

	best, improved, err := h.board.RecordScore(playerID, player.DisplayName, req.Score)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if improved {
		h.hub.Broadcast(model.EventLeaderboardUpdated, model.LeaderboardUpdatedPayload{
			PlayerID: playerID,
			Name:     player.DisplayName,
			Score:    best,
		})
	}

	response.JSON(w, http.StatusOK, response.SubmitScoreResponse{OK: true, Best: best})
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries := h.board.TopEntries(LeaderboardPageSize)
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(h.board.CurrentKey(), entries))
}
