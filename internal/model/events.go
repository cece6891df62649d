package model

// Event names pushed over the real-time stream
const (
	EventHello              = "hello"
	EventFlashbang          = "flashbang"
	EventForceReset         = "forceReset"
	EventLeaderboardUpdated = "leaderboardUpdated"
	EventDropUpdated        = "dropUpdated"
	EventYouWon             = "youWon"
	EventPurchaseCompleted  = "purchaseCompleted"
)

// HelloPayload is sent once when an event stream opens
type HelloPayload struct {
	OK       bool     `json:"ok"`
	Day      EpochKey `json:"day"`
	PlayerID PlayerID `json:"playerId"`
}

// FlashbangPayload notifies a player they were flashed
type FlashbangPayload struct {
	By string `json:"by"`
	TS int64  `json:"ts"`
}

// ForceResetPayload announces that the current leaderboard was wiped,
// either by the daily rollover or by a manual reset item
type ForceResetPayload struct {
	NewDay EpochKey `json:"newDay"`
	Manual bool     `json:"manual,omitempty"`
}

// LeaderboardUpdatedPayload announces an improved best score
type LeaderboardUpdatedPayload struct {
	PlayerID PlayerID `json:"playerId"`
	Name     string   `json:"name"`
	Score    int      `json:"score"`
}

// DropUpdatedPayload announces the current prize pool size
type DropUpdatedPayload struct {
	Amount int `json:"amount"`
}

// YouWonPayload delivers the claim credentials to an epoch's winner.
// This is the only place the claim secret ever leaves the server.
type YouWonPayload struct {
	Day         EpochKey `json:"day"`
	ClaimCode   string   `json:"claimCode"`
	ClaimSecret string   `json:"claimSecret"`
	Prize       int      `json:"prize"`
}

// PurchaseCompletedPayload confirms a finished purchase
type PurchaseCompletedPayload struct {
	Item  Item `json:"item"`
	Count int  `json:"count"`
}
