package model

// Item identifies a purchasable shop item
type Item string

const (
	// ItemFlashShield sets the player's one-way flash shield flag
	ItemFlashShield Item = "FLASH_SHIELD"
	// ItemSaveFromReset lets the player's best score survive one rollover
	ItemSaveFromReset Item = "SAVE_FROM_RESET"
	// ItemFlashbang is consumed to flash other connected players
	ItemFlashbang Item = "FLASHBANG"
	// ItemResetLeaderboard is consumed to wipe the current day's board
	ItemResetLeaderboard Item = "RESET_LEADERBOARD"
)

// ItemPrices lists the credit cost of every purchasable item
var ItemPrices = map[Item]int{
	ItemFlashShield:      300,
	ItemSaveFromReset:    250,
	ItemFlashbang:        150,
	ItemResetLeaderboard: 400,
}

// Consumable reports whether an item is held in inventory and spent on use,
// as opposed to applying its effect immediately at purchase time
func (i Item) Consumable() bool {
	return i == ItemFlashbang || i == ItemResetLeaderboard
}

// Valid reports whether the item is a known shop item
func (i Item) Valid() bool {
	_, ok := ItemPrices[i]
	return ok
}
