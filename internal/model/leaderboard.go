package model

// EpochKey identifies one calendar day's leaderboard in the reference timezone
type EpochKey string

// LeaderboardEntry is one player's best result within an epoch.
// Score is monotonically non-decreasing within the epoch and always an
// integer (submitted scores are floored).
type LeaderboardEntry struct {
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
	Score       int      `json:"score"`
}

// Epoch is one day's leaderboard: the entry collection plus insertion
// order, so ties rank by who got there first.
type Epoch struct {
	Key     EpochKey
	Entries map[PlayerID]*LeaderboardEntry
	Order   []PlayerID // insertion order, for stable tie-breaking
	Closed  bool
}

// NewEpoch creates an empty open epoch for the given day key
func NewEpoch(key EpochKey) *Epoch {
	return &Epoch{
		Key:     key,
		Entries: make(map[PlayerID]*LeaderboardEntry),
	}
}
