package storage

import (
	"context"

	"github.com/sasakorman/taxrunner/internal/model"
)

// PlayerSnapshotStore persists the player registry snapshot.
// The registry itself lives in memory; the store only has to survive
// process restarts, so the contract is a whole-registry flush and a
// whole-registry load at startup.
type PlayerSnapshotStore interface {
	// SavePlayers writes the full registry snapshot
	SavePlayers(ctx context.Context, players []*model.Player) error

	// LoadPlayers reads the last written snapshot; an empty store
	// returns an empty slice, not an error
	LoadPlayers(ctx context.Context) ([]*model.Player, error)
}
