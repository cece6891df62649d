package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a registered arcade player.
// Players are created at registration and never deleted; the registry
// snapshot is the only externally durable state in the system.
type Player struct {
	ID          PlayerID       `json:"id"`
	DisplayName string         `json:"display_name"`
	Credits     int            `json:"credits"`
	IsAdmin     bool           `json:"is_admin"`
	ClaimCode   string         `json:"claim_code"`

	// Entitlements
	FlashShieldActive bool         `json:"flash_shield_active"` // one-way: never cleared
	SaveFromReset     int          `json:"save_from_reset"`     // rollovers this player's score survives
	Inventory         map[Item]int `json:"inventory,omitempty"` // consumable item counts

	CreatedAt time.Time `json:"created_at"`
}

// MinNameLength and MaxNameLength bound display names in visible characters
const (
	MinNameLength = 1
	MaxNameLength = 16
)

// InventoryCount returns the held count for a consumable item
func (p *Player) InventoryCount(item Item) int {
	if p.Inventory == nil {
		return 0
	}
	return p.Inventory[item]
}
