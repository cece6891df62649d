package model

import "time"

// WinnerRecord is created once per epoch at rollover for the closed
// epoch's top scorer. ClaimHash is the bcrypt hash of the claim secret;
// the secret itself is never stored and is delivered to the winner only
// through their live event stream at generation time.
type WinnerRecord struct {
	Day        EpochKey  `json:"day"`
	PlayerID   PlayerID  `json:"player_id"`
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	Prize      int       `json:"prize"`
	Paid       bool      `json:"paid"`
	Verified   bool      `json:"verified"`
	ClaimCode  string    `json:"claim_code"`
	ClaimHash  string    `json:"-"` // never exposed to non-admin callers
	VerifiedAt time.Time `json:"verified_at,omitzero"`
	CreatedAt  time.Time `json:"created_at"`
}
