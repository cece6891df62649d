package memory

import (
	"context"
	"sync"

	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/storage"
)

// Storage is an in-memory implementation of the snapshot store.
// Snapshots written here do not survive a restart; it exists for tests
// and for running the server without Redis.
type Storage struct {
	mu      sync.RWMutex
	players map[model.PlayerID]*model.Player
}

// New creates a new in-memory snapshot store
func New() *Storage {
	return &Storage{
		players: make(map[model.PlayerID]*model.Player),
	}
}

// Ensure Storage implements the interface
var _ storage.PlayerSnapshotStore = (*Storage)(nil)

// SavePlayers stores a copy of the registry snapshot
func (s *Storage) SavePlayers(ctx context.Context, players []*model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[model.PlayerID]*model.Player, len(players))
	for _, p := range players {
		cp := *p
		s.players[p.ID] = &cp
	}
	return nil
}

// LoadPlayers returns the last stored snapshot
func (s *Storage) LoadPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		cp := *p
		players = append(players, &cp)
	}
	return players, nil
}
