package runs

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sasakorman/taxrunner/internal/dependencies/clock"
	"github.com/sasakorman/taxrunner/internal/model"
)

// Tracker owns the short-lived run sessions backing anti-cheat. A run is
// issued at run start, looked up by its owner at submission, consumed on
// a successful submission, and swept after an hour otherwise.
type Tracker struct {
	clock  clock.Clock
	logger *slog.Logger

	mu   sync.Mutex
	runs map[model.RunID]*model.Run
}

// New creates a new run tracker
func New(clk clock.Clock, logger *slog.Logger) *Tracker {
	return &Tracker{
		clock:  clk,
		logger: logger.With(slog.String("component", "runs")),
		runs:   make(map[model.RunID]*model.Run),
	}
}

// Start issues a new run for the player
func (t *Tracker) Start(playerID model.PlayerID) model.RunID {
	run := &model.Run{
		ID:      model.RunID(uuid.NewString()),
		OwnerID: playerID,
		Started: t.clock.Now(),
	}

	t.mu.Lock()
	t.runs[run.ID] = run
	t.mu.Unlock()
	return run.ID
}

// Get returns the run if it exists and belongs to the player.
// A missing run and a foreign run are indistinguishable to the caller.
func (t *Tracker) Get(runID model.RunID, playerID model.PlayerID) (*model.Run, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	run, ok := t.runs[runID]
	if !ok || run.OwnerID != playerID {
		return nil, model.ErrNoActiveRun
	}
	cp := *run
	return &cp, nil
}

// Consume deletes the run so it can never be replayed
func (t *Tracker) Consume(runID model.RunID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.runs, runID)
}

// Sweep deletes runs started before the cutoff and returns how many went
func (t *Tracker) Sweep(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for id, run := range t.runs {
		if run.Started.Before(cutoff) {
			delete(t.runs, id)
			removed++
		}
	}
	if removed > 0 {
		t.logger.Info("stale runs swept", slog.Int("removed", removed))
	}
	return removed
}

// Count returns the number of live runs
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.runs)
}
