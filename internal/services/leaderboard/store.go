package leaderboard

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sasakorman/taxrunner/internal/model"
)

// ManualResetCooldown is the global cooldown on the reset-leaderboard item
const ManualResetCooldown = 5 * time.Minute

// Store holds the per-epoch leaderboards. Exactly one epoch is current;
// closed epochs are retained read-only. All multi-step transitions
// (rotation, manual reset) happen under one lock so a concurrent score
// submission can never observe them half-done.
type Store struct {
	logger *slog.Logger

	mu              sync.RWMutex
	epochs          map[model.EpochKey]*model.Epoch
	current         model.EpochKey
	lastManualReset time.Time
}

// New creates a store with an open epoch for the given day key
func New(initial model.EpochKey, logger *slog.Logger) *Store {
	s := &Store{
		logger: logger.With(slog.String("component", "leaderboard")),
		epochs: map[model.EpochKey]*model.Epoch{initial: model.NewEpoch(initial)},
		current: initial,
	}
	return s
}

// CurrentKey returns the current epoch's day key
func (s *Store) CurrentKey() model.EpochKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// RecordScore floors rawScore and records it as the player's best in the
// current epoch if it beats the stored value. Returns the resulting best
// score. The display name snapshot is refreshed either way.
func (s *Store) RecordScore(playerID model.PlayerID, name string, rawScore float64) (int, bool, error) {
	if rawScore < 0 || math.IsNaN(rawScore) || math.IsInf(rawScore, 0) {
		return 0, false, model.ErrInvalidScore
	}
	score := int(math.Floor(rawScore))

	s.mu.Lock()
	defer s.mu.Unlock()

	ep := s.epochs[s.current]
	entry, ok := ep.Entries[playerID]
	if !ok {
		entry = &model.LeaderboardEntry{PlayerID: playerID, DisplayName: name, Score: score}
		ep.Entries[playerID] = entry
		ep.Order = append(ep.Order, playerID)
		return score, true, nil
	}

	entry.DisplayName = name
	if score > entry.Score {
		entry.Score = score
		return score, true, nil
	}
	return entry.Score, false, nil
}

// Entry returns a copy of the player's current-epoch entry
func (s *Store) Entry(playerID model.PlayerID) (model.LeaderboardEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.epochs[s.current].Entries[playerID]
	if !ok {
		return model.LeaderboardEntry{}, false
	}
	return *entry, true
}

// TopEntries returns current-epoch entries sorted descending by score,
// ties kept in insertion order, truncated to limit
func (s *Store) TopEntries(limit int) []model.LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.snapshotLocked(s.epochs[s.current])
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// ResetCurrent clears all entries in the current epoch
func (s *Store) ResetCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCurrentLocked()
}

// TryManualReset clears the current epoch subject to the global cooldown.
// On cooldown violation it returns the remaining wait and false.
func (s *Store) TryManualReset(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lastManualReset.IsZero() {
		elapsed := now.Sub(s.lastManualReset)
		if elapsed < ManualResetCooldown {
			return ManualResetCooldown - elapsed, false
		}
	}
	s.lastManualReset = now
	s.resetCurrentLocked()
	s.logger.Info("leaderboard manually reset", slog.String("day", string(s.current)))
	return 0, true
}

// Rotate atomically closes the current epoch and opens a new one.
// Closed entries with a positive score for which carry reports true are
// copied into the new epoch before it goes live, so "saved" scores are
// present from the first instant of the new day. Returns the closed
// epoch's entries in insertion order.
func (s *Store) Rotate(newKey model.EpochKey, carry func(model.LeaderboardEntry) bool) []model.LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	closing := s.epochs[s.current]
	closed := s.snapshotLocked(closing)
	closing.Closed = true

	next := model.NewEpoch(newKey)
	for _, e := range closed {
		if e.Score <= 0 || carry == nil || !carry(e) {
			continue
		}
		carried := e
		next.Entries[e.PlayerID] = &carried
		next.Order = append(next.Order, e.PlayerID)
	}

	s.epochs[newKey] = next
	s.current = newKey

	s.logger.Info("epoch rotated",
		slog.String("closed", string(closing.Key)),
		slog.String("opened", string(newKey)),
		slog.Int("closed_entries", len(closed)),
		slog.Int("carried_entries", len(next.Order)),
	)
	return closed
}

// TopOf returns the highest-scoring entry of a slice, first encountered
// winning ties. ok is false for an empty slice.
func TopOf(entries []model.LeaderboardEntry) (model.LeaderboardEntry, bool) {
	var best model.LeaderboardEntry
	found := false
	for _, e := range entries {
		if !found || e.Score > best.Score {
			best = e
			found = true
		}
	}
	return best, found
}

func (s *Store) resetCurrentLocked() {
	key := s.current
	s.epochs[key] = model.NewEpoch(key)
}

func (s *Store) snapshotLocked(ep *model.Epoch) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(ep.Order))
	for _, id := range ep.Order {
		if e, ok := ep.Entries[id]; ok {
			entries = append(entries, *e)
		}
	}
	return entries
}
