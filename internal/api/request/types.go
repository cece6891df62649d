package request

// RegisterRequest is the request body for registering a player.
// AdminKey is an optional credential checked against the server's shared
// admin key; it is the only path to the admin flag.
type RegisterRequest struct {
	Name     string `json:"name"`
	AdminKey string `json:"adminKey,omitempty"`
}

// StartRunRequest is the request body for starting a run
type StartRunRequest struct {
	PlayerID string `json:"playerId"`
}

// SubmitScoreRequest is the request body for submitting a score
type SubmitScoreRequest struct {
	PlayerID      string    `json:"playerId"`
	PlayerName    string    `json:"playerName,omitempty"`
	Score         float64   `json:"score"`
	RunID         string    `json:"runId"`
	JumpIntervals []float64 `json:"jumpIntervals,omitempty"`
}

// PurchaseRequest is the request body for buying an item
type PurchaseRequest struct {
	PlayerID string `json:"playerId"`
	Item     string `json:"item"`
}

// UseItemRequest is the request body for using a held item
type UseItemRequest struct {
	PlayerID string `json:"playerId"`
	Item     string `json:"item"`
}

// AdminVerifyClaimRequest is the request body for the admin claim path
type AdminVerifyClaimRequest struct {
	Day         string `json:"day"`
	PlayerID    string `json:"playerId"`
	ClaimSecret string `json:"claimSecret"`
}

// VerifyWinnerRequest is the request body for self-service claim verification
type VerifyWinnerRequest struct {
	PlayerID    string `json:"playerId"`
	ClaimCode   string `json:"claimCode"`
	ClaimSecret string `json:"claimSecret"`
}
