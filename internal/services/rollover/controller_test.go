package rollover

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sasakorman/taxrunner/internal/dependencies/mocks"
	"github.com/sasakorman/taxrunner/internal/epoch"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/services/claims"
	"github.com/sasakorman/taxrunner/internal/services/leaderboard"
	"github.com/sasakorman/taxrunner/internal/services/registry"
	"github.com/sasakorman/taxrunner/internal/services/runs"
	"github.com/sasakorman/taxrunner/internal/storage/memory"
	"github.com/sasakorman/taxrunner/internal/testutil"
)

// recordedEvent is one event captured by the recording hub
type recordedEvent struct {
	playerID model.PlayerID
	event    string
	payload  any
}

// recordingHub captures pushed events instead of delivering them
type recordingHub struct {
	connected map[model.PlayerID]bool
	sent      []recordedEvent
	broadcast []recordedEvent
}

func newRecordingHub() *recordingHub {
	return &recordingHub{connected: make(map[model.PlayerID]bool)}
}

func (h *recordingHub) SendTo(playerID model.PlayerID, event string, payload any) bool {
	if !h.connected[playerID] {
		return false
	}
	h.sent = append(h.sent, recordedEvent{playerID: playerID, event: event, payload: payload})
	return true
}

func (h *recordingHub) Broadcast(event string, payload any) {
	h.broadcast = append(h.broadcast, recordedEvent{event: event, payload: payload})
}

func (h *recordingHub) broadcastNames() []string {
	names := make([]string, len(h.broadcast))
	for i, e := range h.broadcast {
		names[i] = e.event
	}
	return names
}

type ControllerSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	board      *leaderboard.Store
	registry   *registry.Service
	runs       *runs.Tracker
	claims     *claims.Service
	hub        *recordingHub
	controller *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	// Late evening in the reference timezone, one hour before rollover
	loc := epoch.Location()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 23, 0, 0, 0, loc))
	s.random = mocks.NewMockRandom()

	logger := testutil.NopLogger()
	s.board = leaderboard.New(epoch.DayKey(s.clock.Now()), logger)
	s.registry = registry.New(memory.New(), s.clock, s.random, registry.DefaultConfig(), logger)
	s.runs = runs.New(s.clock, logger)
	s.claims = claims.New(s.clock, s.random, logger)
	s.hub = newRecordingHub()
	s.controller = New(s.clock, s.board, s.registry, s.runs, s.claims, s.hub, logger)
}

func (s *ControllerSuite) crossMidnight() {
	s.clock.Advance(2 * time.Hour)
}

// Stable-day ticks

func (s *ControllerSuite) TestTickWithinSameDayDoesNotRotate() {
	_, _, _ = s.board.RecordScore("p1", "Alice", 100)

	s.controller.Tick()

	s.Equal(model.EpochKey("2024-06-01"), s.board.CurrentKey())
	s.Len(s.board.TopEntries(10), 1)
	s.Empty(s.hub.broadcast)
}

func (s *ControllerSuite) TestTickSweepsStaleRuns() {
	s.clock.Set(time.Date(2024, 6, 1, 10, 0, 0, 0, epoch.Location()))
	s.runs.Start("p1")

	s.clock.Advance(30 * time.Minute)
	fresh := s.runs.Start("p2")

	s.clock.Advance(45 * time.Minute) // p1's run is now 75 minutes old
	s.controller.Tick()

	s.Equal(1, s.runs.Count())
	_, err := s.runs.Get(fresh, "p2")
	s.NoError(err)
}

// Rollover transitions

func (s *ControllerSuite) TestRolloverOpensNewEpoch() {
	_, _, _ = s.board.RecordScore("p1", "Alice", 100)

	s.crossMidnight()
	s.controller.Tick()

	s.Equal(model.EpochKey("2024-06-02"), s.board.CurrentKey())
	s.Empty(s.board.TopEntries(10))
}

func (s *ControllerSuite) TestRolloverIsIdempotentWithinDay() {
	_, _, _ = s.board.RecordScore("p1", "Alice", 100)

	s.crossMidnight()
	s.controller.Tick()
	s.controller.Tick()
	s.controller.Tick()

	s.Equal(model.EpochKey("2024-06-02"), s.board.CurrentKey())
	s.Len(s.claims.Winners(10), 1)
}

func (s *ControllerSuite) TestRolloverBroadcastsResetAndPool() {
	s.crossMidnight()
	s.controller.Tick()

	s.Equal([]string{model.EventForceReset, model.EventDropUpdated}, s.hub.broadcastNames())

	reset, ok := s.hub.broadcast[0].payload.(model.ForceResetPayload)
	s.Require().True(ok)
	s.Equal(model.EpochKey("2024-06-02"), reset.NewDay)
	s.False(reset.Manual)
}

func (s *ControllerSuite) TestRolloverResetsPrizePool() {
	player, err := s.registry.Register("Alice", "")
	s.Require().NoError(err)
	_, err = s.registry.Purchase(player.ID, model.ItemFlashShield)
	s.Require().NoError(err)
	s.Equal(1075, s.registry.PrizePool())

	s.crossMidnight()
	s.controller.Tick()

	s.Equal(1000, s.registry.PrizePool())
}

func (s *ControllerSuite) TestRolloverWithEmptyBoardCrownsNobody() {
	s.crossMidnight()
	s.controller.Tick()

	s.Empty(s.claims.Winners(10))
	s.Empty(s.hub.sent)
}

// Winner crowning

func (s *ControllerSuite) TestRolloverCrownsTopScorer() {
	s.random.QueueString("AB12CD34")
	player, err := s.registry.Register("Alice", "")
	s.Require().NoError(err)
	_, _, _ = s.board.RecordScore(player.ID, "Alice", 420)
	_, _, _ = s.board.RecordScore("p2", "Bob", 100)
	s.hub.connected[player.ID] = true

	s.crossMidnight()
	s.controller.Tick()

	winners := s.claims.Winners(10)
	s.Require().Len(winners, 1)
	s.Equal(model.EpochKey("2024-06-01"), winners[0].Day)
	s.Equal(player.ID, winners[0].PlayerID)
	s.Equal(420, winners[0].Score)
	s.Equal(1000, winners[0].Prize)
	s.Equal("AB12CD34", winners[0].ClaimCode)

	s.Require().Len(s.hub.sent, 1)
	s.Equal(player.ID, s.hub.sent[0].playerID)
	s.Equal(model.EventYouWon, s.hub.sent[0].event)

	payload, ok := s.hub.sent[0].payload.(model.YouWonPayload)
	s.Require().True(ok)
	s.Equal("AB12CD34", payload.ClaimCode)
	s.NotEmpty(payload.ClaimSecret)

	// The delivered secret actually verifies
	rec, err := s.claims.Verify("", player.ID, payload.ClaimCode, payload.ClaimSecret)
	s.Require().NoError(err)
	s.True(rec.Verified)
}

func (s *ControllerSuite) TestRolloverRecordsWinnerEvenWhenDisconnected() {
	_, _, _ = s.board.RecordScore("p1", "Alice", 420)

	s.crossMidnight()
	s.controller.Tick()

	// Secret undeliverable, record still minted for the admin path
	s.Empty(s.hub.sent)
	s.Len(s.claims.Winners(10), 1)
}

// Save-from-reset carry

func (s *ControllerSuite) TestSavedScoresSurviveRollover() {
	saver, err := s.registry.Register("Alice", "")
	s.Require().NoError(err)
	_, err = s.registry.Purchase(saver.ID, model.ItemSaveFromReset)
	s.Require().NoError(err)

	_, _, _ = s.board.RecordScore(saver.ID, "Alice", 200)
	_, _, _ = s.board.RecordScore("p2", "Bob", 420)

	s.crossMidnight()
	s.controller.Tick()

	entries := s.board.TopEntries(10)
	s.Require().Len(entries, 1)
	s.Equal(saver.ID, entries[0].PlayerID)
	s.Equal(200, entries[0].Score)
}

func (s *ControllerSuite) TestEachSaveBurnsOnce() {
	saver, err := s.registry.Register("Alice", "")
	s.Require().NoError(err)
	_, err = s.registry.Purchase(saver.ID, model.ItemSaveFromReset)
	s.Require().NoError(err)
	_, err = s.registry.Purchase(saver.ID, model.ItemSaveFromReset)
	s.Require().NoError(err)

	// First rollover carries and burns one save
	_, _, _ = s.board.RecordScore(saver.ID, "Alice", 200)
	s.crossMidnight()
	s.controller.Tick()
	s.Len(s.board.TopEntries(10), 1)

	// Second rollover burns the other
	s.clock.Advance(24 * time.Hour)
	s.controller.Tick()
	s.Len(s.board.TopEntries(10), 1)

	// Third rollover has nothing left to burn
	s.clock.Advance(24 * time.Hour)
	s.controller.Tick()
	s.Empty(s.board.TopEntries(10))

	got, err := s.registry.Get(saver.ID)
	s.Require().NoError(err)
	s.Zero(got.SaveFromReset)
}
