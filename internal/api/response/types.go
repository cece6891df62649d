package response

import (
	"time"

	"github.com/sasakorman/taxrunner/internal/model"
)

// RegisterResponse is returned after registration
type RegisterResponse struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Credits   int    `json:"credits"`
	Day       string `json:"day"`
	ClaimCode string `json:"claimCode"`
}

// StatusResponse describes the current day and economy
type StatusResponse struct {
	Day        string         `json:"day"`
	ItemPrices map[string]int `json:"itemPrices"`
	Prize      int            `json:"prize"`
}

// Player is a player profile in API responses
type Player struct {
	PlayerID          string         `json:"playerId"`
	Name              string         `json:"name"`
	Credits           int            `json:"credits"`
	FlashShieldActive bool           `json:"flashShieldActive"`
	SaveFromReset     int            `json:"saveFromReset"`
	Inventory         map[string]int `json:"inventory"`
	ClaimCode         string         `json:"claimCode"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	inventory := make(map[string]int, len(p.Inventory))
	for item, count := range p.Inventory {
		inventory[string(item)] = count
	}
	return Player{
		PlayerID:          string(p.ID),
		Name:              p.DisplayName,
		Credits:           p.Credits,
		FlashShieldActive: p.FlashShieldActive,
		SaveFromReset:     p.SaveFromReset,
		Inventory:         inventory,
		ClaimCode:         p.ClaimCode,
	}
}

// StartRunResponse is returned when a run starts
type StartRunResponse struct {
	RunID string `json:"runId"`
}

// SubmitScoreResponse is returned after a score submission
type SubmitScoreResponse struct {
	OK   bool `json:"ok"`
	Best int  `json:"best"`
}

// LeaderboardEntry is one board row
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// LeaderboardResponse is the current epoch's top entries
type LeaderboardResponse struct {
	Day     string             `json:"day"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts store entries
func LeaderboardFromModel(day model.EpochKey, entries []model.LeaderboardEntry) LeaderboardResponse {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			PlayerID: string(e.PlayerID),
			Name:     e.DisplayName,
			Score:    e.Score,
		}
	}
	return LeaderboardResponse{Day: string(day), Entries: out}
}

// PurchaseResponse is returned after a purchase
type PurchaseResponse struct {
	Credits           int            `json:"credits"`
	FlashShieldActive bool           `json:"flashShieldActive"`
	SaveFromReset     int            `json:"saveFromReset"`
	Inventory         map[string]int `json:"inventory"`
	Prize             int            `json:"prize"`
}

// UseItemResponse is returned after using an item
type UseItemResponse struct {
	OK      bool `json:"ok"`
	Flashed int  `json:"flashed,omitempty"`
}

// GrantsResponse is the drained pending grants for a player
type GrantsResponse struct {
	Grants map[string]int `json:"grants"`
}

// Winner is a winner record in API responses. The claim hash is not a
// field here at all, so it cannot leak.
type Winner struct {
	Day        string     `json:"day"`
	PlayerID   string     `json:"playerId"`
	Name       string     `json:"name"`
	Score      int        `json:"score"`
	Prize      int        `json:"prize"`
	Paid       bool       `json:"paid"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// WinnerFromModel converts a model.WinnerRecord
func WinnerFromModel(w *model.WinnerRecord) Winner {
	var verifiedAt *time.Time
	if !w.VerifiedAt.IsZero() {
		t := w.VerifiedAt
		verifiedAt = &t
	}
	return Winner{
		Day:        string(w.Day),
		PlayerID:   string(w.PlayerID),
		Name:       w.Name,
		Score:      w.Score,
		Prize:      w.Prize,
		Paid:       w.Paid,
		Verified:   w.Verified,
		VerifiedAt: verifiedAt,
	}
}

// VerifyResponse is returned after claim verification
type VerifyResponse struct {
	OK     bool   `json:"ok"`
	Winner Winner `json:"winner"`
}

// WinnersResponse is a list of winner records, newest first
type WinnersResponse struct {
	Winners []Winner `json:"winners"`
}
