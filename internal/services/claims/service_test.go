package claims

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sasakorman/taxrunner/internal/dependencies/mocks"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 2, 0, 0, 1, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.clock, s.random, testutil.NopLogger())
}

func (s *ServiceSuite) crown(day model.EpochKey, playerID model.PlayerID) (*model.WinnerRecord, string) {
	rec, secret, err := s.service.Create(day, model.LeaderboardEntry{
		PlayerID:    playerID,
		DisplayName: "Alice",
		Score:       420,
	}, 1500, "AB12CD34")
	s.Require().NoError(err)
	return rec, secret
}

// Create tests

func (s *ServiceSuite) TestCreateMintsRecordAndSecret() {
	rec, secret := s.crown("2024-06-01", "p1")

	s.Equal(model.EpochKey("2024-06-01"), rec.Day)
	s.Equal(model.PlayerID("p1"), rec.PlayerID)
	s.Equal("Alice", rec.Name)
	s.Equal(420, rec.Score)
	s.Equal(1500, rec.Prize)
	s.Equal("AB12CD34", rec.ClaimCode)
	s.False(rec.Verified)
	s.False(rec.Paid)

	s.NotEmpty(secret)
	s.NotContains(rec.ClaimHash, secret)
}

func (s *ServiceSuite) TestCreateRefusesSecondRecordForDay() {
	s.crown("2024-06-01", "p1")

	_, _, err := s.service.Create("2024-06-01", model.LeaderboardEntry{PlayerID: "p2"}, 1000, "")
	s.ErrorIs(err, model.ErrWinnerExists)
}

// Verify tests

func (s *ServiceSuite) TestVerifySelfServiceSucceeds() {
	_, secret := s.crown("2024-06-01", "p1")

	rec, err := s.service.Verify("", "p1", "AB12CD34", secret)
	s.Require().NoError(err)
	s.True(rec.Verified)
	s.Equal(s.clock.CurrentTime, rec.VerifiedAt)
	s.False(rec.Paid)
}

func (s *ServiceSuite) TestVerifyIsIdempotent() {
	_, secret := s.crown("2024-06-01", "p1")

	first, err := s.service.Verify("", "p1", "AB12CD34", secret)
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	second, err := s.service.Verify("", "p1", "AB12CD34", secret)
	s.Require().NoError(err)

	s.True(second.Verified)
	s.Equal(first.VerifiedAt, second.VerifiedAt)
}

func (s *ServiceSuite) TestVerifyRejectsWrongSecret() {
	s.crown("2024-06-01", "p1")

	_, err := s.service.Verify("", "p1", "AB12CD34", "not-the-secret")
	s.ErrorIs(err, model.ErrInvalidClaim)

	rec, ok := s.service.Latest()
	s.Require().True(ok)
	s.False(rec.Verified)
}

func (s *ServiceSuite) TestVerifySelfServiceFindsNewestMatch() {
	s.random.QueueBytes(secretOf(1), secretOf(2))
	_, _ = s.crown("2024-06-01", "p1")
	_, newer := s.crown("2024-06-02", "p1")

	rec, err := s.service.Verify("", "p1", "AB12CD34", newer)
	s.Require().NoError(err)
	s.Equal(model.EpochKey("2024-06-02"), rec.Day)
}

func (s *ServiceSuite) TestVerifyUnknownClaim() {
	_, err := s.service.Verify("", "p1", "AB12CD34", "whatever")
	s.ErrorIs(err, model.ErrWinnerNotFound)
}

func (s *ServiceSuite) TestVerifyAdminPathByDay() {
	_, secret := s.crown("2024-06-01", "p1")

	rec, err := s.service.Verify("2024-06-01", "p1", "", secret)
	s.Require().NoError(err)
	s.True(rec.Verified)
}

func (s *ServiceSuite) TestVerifyAdminPathRejectsWrongPlayer() {
	_, secret := s.crown("2024-06-01", "p1")

	_, err := s.service.Verify("2024-06-01", "p2", "", secret)
	s.ErrorIs(err, model.ErrWinnerNotFound)
}

// Query tests

func (s *ServiceSuite) TestLatestPicksNewestDay() {
	s.random.QueueBytes(secretOf(1), secretOf(2))
	s.crown("2024-06-01", "p1")
	s.crown("2024-06-02", "p2")

	rec, ok := s.service.Latest()
	s.Require().True(ok)
	s.Equal(model.EpochKey("2024-06-02"), rec.Day)
}

func (s *ServiceSuite) TestLatestEmpty() {
	_, ok := s.service.Latest()
	s.False(ok)
}

func (s *ServiceSuite) TestLatestForMatchesOnlyNewestRecord() {
	s.random.QueueBytes(secretOf(1), secretOf(2))
	s.crown("2024-06-01", "p1")
	s.crown("2024-06-02", "p2")

	rec, ok := s.service.LatestFor("p2")
	s.Require().True(ok)
	s.Equal(model.EpochKey("2024-06-02"), rec.Day)

	// p1 won an older day; the newest record is not theirs
	_, ok = s.service.LatestFor("p1")
	s.False(ok)
}

func (s *ServiceSuite) TestWinnersNewestFirstWithLimit() {
	s.random.QueueBytes(secretOf(1), secretOf(2), secretOf(3))
	s.crown("2024-06-01", "p1")
	s.crown("2024-06-02", "p2")
	s.crown("2024-06-03", "p3")

	winners := s.service.Winners(2)
	s.Require().Len(winners, 2)
	s.Equal(model.EpochKey("2024-06-03"), winners[0].Day)
	s.Equal(model.EpochKey("2024-06-02"), winners[1].Day)
}

// secretOf builds a distinct 32-byte seed so each record gets its own
// claim secret even under the mock random
func secretOf(b byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	return seed
}
