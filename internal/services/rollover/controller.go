package rollover

import (
	"errors"
	"log/slog"

	"github.com/sasakorman/taxrunner/internal/epoch"
	"github.com/sasakorman/taxrunner/internal/dependencies/clock"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/services/claims"
	"github.com/sasakorman/taxrunner/internal/services/leaderboard"
	"github.com/sasakorman/taxrunner/internal/services/registry"
	"github.com/sasakorman/taxrunner/internal/services/runs"
)

// Broadcaster pushes real-time events to connected clients
type Broadcaster interface {
	SendTo(playerID model.PlayerID, event string, payload any) bool
	Broadcast(event string, payload any)
}

// Controller drives the day-rollover state machine. Each tick it
// compares the epoch key for "now" against the board's current key:
// matching keys mean a stable day (only the run sweep happens);
// diverging keys trigger exactly one rollover transition.
type Controller struct {
	clock    clock.Clock
	board    *leaderboard.Store
	registry *registry.Service
	runs     *runs.Tracker
	claims   *claims.Service
	hub      Broadcaster
	logger   *slog.Logger
}

// New creates a rollover controller
func New(
	clk clock.Clock,
	board *leaderboard.Store,
	reg *registry.Service,
	tracker *runs.Tracker,
	claimSvc *claims.Service,
	hub Broadcaster,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		clock:    clk,
		board:    board,
		registry: reg,
		runs:     tracker,
		claims:   claimSvc,
		hub:      hub,
		logger:   logger.With(slog.String("component", "rollover")),
	}
}

// Tick performs one epoch check. Safe to call as often as desired;
// multiple ticks within one day produce exactly one transition.
func (c *Controller) Tick() {
	now := c.clock.Now()
	nowKey := epoch.DayKey(now)

	if nowKey == c.board.CurrentKey() {
		c.runs.Sweep(now.Add(-model.RunTTL))
		return
	}

	c.rollover(nowKey)
}

// rollover closes the current epoch and opens the next: snapshot the
// closing board, mint the winner's claim, migrate saved scores, adopt
// the new epoch, and tell every client. Saved-score migration happens
// inside Rotate so no submission ever sees the new epoch without them.
func (c *Controller) rollover(newKey model.EpochKey) {
	closedKey := c.board.CurrentKey()

	closed := c.board.Rotate(newKey, func(e model.LeaderboardEntry) bool {
		return c.registry.ConsumeSave(e.PlayerID)
	})

	if winner, ok := leaderboard.TopOf(closed); ok {
		c.crownWinner(closedKey, winner)
	}

	// New day, new pool
	c.registry.TakePrizePool()

	c.hub.Broadcast(model.EventForceReset, model.ForceResetPayload{NewDay: newKey})
	c.hub.Broadcast(model.EventDropUpdated, model.DropUpdatedPayload{Amount: c.registry.PrizePool()})

	c.logger.Info("day rolled over",
		slog.String("closed", string(closedKey)),
		slog.String("opened", string(newKey)),
		slog.Int("entries", len(closed)),
	)
}

func (c *Controller) crownWinner(day model.EpochKey, winner model.LeaderboardEntry) {
	claimCode := ""
	if p, err := c.registry.Get(winner.PlayerID); err == nil {
		claimCode = p.ClaimCode
	}

	prize := c.registry.PrizePool()
	rec, secret, err := c.claims.Create(day, winner, prize, claimCode)
	if err != nil {
		if errors.Is(err, model.ErrWinnerExists) {
			return
		}
		c.logger.Error("winner claim creation failed",
			slog.String("day", string(day)),
			slog.String("error", err.Error()),
		)
		return
	}

	// The secret exists only here; a winner without a live connection
	// misses the notification permanently.
	delivered := c.hub.SendTo(winner.PlayerID, model.EventYouWon, model.YouWonPayload{
		Day:         rec.Day,
		ClaimCode:   rec.ClaimCode,
		ClaimSecret: secret,
		Prize:       rec.Prize,
	})
	if !delivered {
		c.logger.Warn("winner not connected, claim secret undeliverable",
			slog.String("day", string(day)),
			slog.String("player_id", string(winner.PlayerID)),
		)
	}
}
