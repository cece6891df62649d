package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/sasakorman/taxrunner/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestLoadFromEmptyStore() {
	players, err := s.storage.LoadPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestSaveAndLoadRoundTrip() {
	players := []*model.Player{
		{
			ID:                "player-1",
			DisplayName:       "Alice",
			Credits:           350,
			ClaimCode:         "AB12CD34",
			FlashShieldActive: true,
			SaveFromReset:     2,
			Inventory:         map[model.Item]int{model.ItemFlashbang: 3},
			CreatedAt:         time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:          "player-2",
			DisplayName: "Bob",
			Credits:     500,
			ClaimCode:   "ZZ99YY88",
		},
	}

	s.Require().NoError(s.storage.SavePlayers(s.ctx, players))

	loaded, err := s.storage.LoadPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(loaded, 2)

	byID := make(map[model.PlayerID]*model.Player)
	for _, p := range loaded {
		byID[p.ID] = p
	}
	s.Equal(350, byID["player-1"].Credits)
	s.True(byID["player-1"].FlashShieldActive)
	s.Equal(2, byID["player-1"].SaveFromReset)
	s.Equal(3, byID["player-1"].Inventory[model.ItemFlashbang])
	s.Equal("Bob", byID["player-2"].DisplayName)
}

func (s *StorageSuite) TestLaterSnapshotOverwritesPlayer() {
	p := &model.Player{ID: "player-1", DisplayName: "Alice", Credits: 500}
	s.Require().NoError(s.storage.SavePlayers(s.ctx, []*model.Player{p}))

	p.Credits = 200
	s.Require().NoError(s.storage.SavePlayers(s.ctx, []*model.Player{p}))

	loaded, err := s.storage.LoadPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Equal(200, loaded[0].Credits)
}

func (s *StorageSuite) TestSkipsDanglingIndexEntries() {
	p := &model.Player{ID: "player-1", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SavePlayers(s.ctx, []*model.Player{p}))

	// Simulate a record evicted out from under the index
	s.mini.Del(playerKey("player-1"))

	loaded, err := s.storage.LoadPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(loaded)
}
