package redis

import (
	"fmt"

	"github.com/sasakorman/taxrunner/internal/model"
)

// Key prefix for all persisted data
const keyPrefix = "taxrunner"

// playerKey returns the Redis key for one player's snapshot record
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerIndexKey returns the Redis key for the SET of known player ids
func playerIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}
