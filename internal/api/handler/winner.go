package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sasakorman/taxrunner/internal/api/apierr"
	"github.com/sasakorman/taxrunner/internal/api/request"
	"github.com/sasakorman/taxrunner/internal/api/response"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/services/claims"
)

// Winner list limit bounds
const (
	winnersLimitDefault = 10
	winnersLimitMax     = 30
)

// WinnerHandler handles winner and claim endpoints
type WinnerHandler struct {
	claims *claims.Service
}

// NewWinnerHandler creates a new winner handler
func NewWinnerHandler(claimSvc *claims.Service) *WinnerHandler {
	return &WinnerHandler{claims: claimSvc}
}

// MeWinner handles GET /api/v1/me/winner?playerId=
// Returns the latest winner summary if this player is the most recent
// winner, else null.
func (h *WinnerHandler) MeWinner(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(r.URL.Query().Get("playerId"))
	if playerID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("playerId is required"))
		return
	}

	rec, ok := h.claims.LatestFor(playerID)
	if !ok {
		response.JSON(w, http.StatusOK, (*response.Winner)(nil))
		return
	}
	winner := response.WinnerFromModel(rec)
	response.JSON(w, http.StatusOK, &winner)
}

// YesterdayWinner handles GET /api/v1/yesterday-winner
// "Yesterday" means the latest epoch with a winner record; empty epochs
// create no record, so this can reach further back than the calendar.
func (h *WinnerHandler) YesterdayWinner(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.claims.Latest()
	if !ok {
		response.JSON(w, http.StatusOK, (*response.Winner)(nil))
		return
	}
	winner := response.WinnerFromModel(rec)
	response.JSON(w, http.StatusOK, &winner)
}

// Winners handles GET /api/v1/winners?limit=
func (h *WinnerHandler) Winners(w http.ResponseWriter, r *http.Request) {
	limit := winnersLimitDefault
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be 1-30"))
			return
		}
		limit = min(n, winnersLimitMax)
	}

	records := h.claims.Winners(limit)
	winners := make([]response.Winner, len(records))
	for i := range records {
		winners[i] = response.WinnerFromModel(&records[i])
	}
	response.JSON(w, http.StatusOK, response.WinnersResponse{Winners: winners})
}

// AdminVerifyClaim handles POST /api/v1/admin/verify-claim?key=
// The admin key itself is checked by middleware.
func (h *WinnerHandler) AdminVerifyClaim(w http.ResponseWriter, r *http.Request) {
	var req request.AdminVerifyClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Day == "" || req.PlayerID == "" || req.ClaimSecret == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("day, playerId and claimSecret are required"))
		return
	}

	rec, err := h.claims.Verify(model.EpochKey(req.Day), model.PlayerID(req.PlayerID), "", req.ClaimSecret)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VerifyResponse{
		OK:     true,
		Winner: response.WinnerFromModel(rec),
	})
}

// VerifyWinner handles POST /api/v1/verify-winner, the self-service path
func (h *WinnerHandler) VerifyWinner(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyWinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" || req.ClaimCode == "" || req.ClaimSecret == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("playerId, claimCode and claimSecret are required"))
		return
	}

	rec, err := h.claims.Verify("", model.PlayerID(req.PlayerID), req.ClaimCode, req.ClaimSecret)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VerifyResponse{
		OK:     true,
		Winner: response.WinnerFromModel(rec),
	})
}
