package runs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sasakorman/taxrunner/internal/dependencies/mocks"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/testutil"
)

type TrackerSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	tracker *Tracker
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.tracker = New(s.clock, testutil.NopLogger())
}

func (s *TrackerSuite) TestStartIssuesOwnedRun() {
	runID := s.tracker.Start("p1")
	s.NotEmpty(runID)

	run, err := s.tracker.Get(runID, "p1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), run.OwnerID)
	s.Equal(s.clock.CurrentTime, run.Started)
}

func (s *TrackerSuite) TestGetRejectsForeignRun() {
	runID := s.tracker.Start("p1")

	_, err := s.tracker.Get(runID, "p2")
	s.ErrorIs(err, model.ErrNoActiveRun)
}

func (s *TrackerSuite) TestGetUnknownRun() {
	_, err := s.tracker.Get("nope", "p1")
	s.ErrorIs(err, model.ErrNoActiveRun)
}

func (s *TrackerSuite) TestConsumePreventsReplay() {
	runID := s.tracker.Start("p1")

	s.tracker.Consume(runID)

	_, err := s.tracker.Get(runID, "p1")
	s.ErrorIs(err, model.ErrNoActiveRun)
}

func (s *TrackerSuite) TestSweepRemovesOnlyStaleRuns() {
	old := s.tracker.Start("p1")
	s.clock.Advance(2 * time.Hour)
	fresh := s.tracker.Start("p2")

	removed := s.tracker.Sweep(s.clock.Now().Add(-model.RunTTL))
	s.Equal(1, removed)

	_, err := s.tracker.Get(old, "p1")
	s.ErrorIs(err, model.ErrNoActiveRun)
	_, err = s.tracker.Get(fresh, "p2")
	s.NoError(err)
}

func (s *TrackerSuite) TestCount() {
	s.Zero(s.tracker.Count())
	s.tracker.Start("p1")
	s.tracker.Start("p1")
	s.Equal(2, s.tracker.Count())
}
