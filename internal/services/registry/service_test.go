package registry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sasakorman/taxrunner/internal/dependencies/mocks"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/storage/memory"
	"github.com/sasakorman/taxrunner/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	cfg := DefaultConfig()
	cfg.AdminKey = "hunter2"
	s.service = New(s.storage, s.clock, s.random, cfg, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	s.random.QueueString("AB12CD34")

	player, err := s.service.Register("Alice", "")
	s.Require().NoError(err)

	s.NotEmpty(player.ID)
	s.Equal("Alice", player.DisplayName)
	s.Equal(500, player.Credits)
	s.Equal("AB12CD34", player.ClaimCode)
	s.False(player.IsAdmin)
	s.False(player.FlashShieldActive)
	s.Zero(player.SaveFromReset)
}

func (s *ServiceSuite) TestRegisterTrimsWhitespace() {
	player, err := s.service.Register("  Alice  ", "")
	s.Require().NoError(err)
	s.Equal("Alice", player.DisplayName)
}

func (s *ServiceSuite) TestRegisterRejectsInvalidNames() {
	for _, name := range []string{"", "   ", strings.Repeat("x", 17)} {
		_, err := s.service.Register(name, "")
		s.ErrorIs(err, model.ErrInvalidName)
	}
}

func (s *ServiceSuite) TestRegisterCountsRunesNotBytes() {
	// 16 multi-byte runes fit the limit
	_, err := s.service.Register(strings.Repeat("é", 16), "")
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterGrantsAdminOnMatchingKey() {
	player, err := s.service.Register("Alice", "hunter2")
	s.Require().NoError(err)
	s.True(player.IsAdmin)
}

func (s *ServiceSuite) TestRegisterDeniesAdminOnWrongKey() {
	player, err := s.service.Register("Alice", "nope")
	s.Require().NoError(err)
	s.False(player.IsAdmin)
}

func (s *ServiceSuite) TestRegisterAdminDisabledWithoutConfiguredKey() {
	cfg := DefaultConfig()
	svc := New(s.storage, s.clock, s.random, cfg, testutil.NopLogger())

	// An empty credential must never match an empty configured key
	player, err := svc.Register("Alice", "")
	s.Require().NoError(err)
	s.False(player.IsAdmin)
}

// Get tests

func (s *ServiceSuite) TestGetReturnsCopy() {
	player, _ := s.service.Register("Alice", "")

	got, err := s.service.Get(player.ID)
	s.Require().NoError(err)
	got.Credits = 9999

	again, _ := s.service.Get(player.ID)
	s.Equal(500, again.Credits)
}

func (s *ServiceSuite) TestGetUnknownPlayer() {
	_, err := s.service.Get("nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// UpdateName tests

func (s *ServiceSuite) TestUpdateNameRefreshes() {
	player, _ := s.service.Register("Alice", "")

	s.service.UpdateName(player.ID, "Alicia")

	got, _ := s.service.Get(player.ID)
	s.Equal("Alicia", got.DisplayName)
}

func (s *ServiceSuite) TestUpdateNameIgnoresInvalid() {
	player, _ := s.service.Register("Alice", "")

	s.service.UpdateName(player.ID, "")
	s.service.UpdateName(player.ID, strings.Repeat("x", 17))

	got, _ := s.service.Get(player.ID)
	s.Equal("Alice", got.DisplayName)
}

// Purchase tests

func (s *ServiceSuite) TestPurchaseDeductsCredits() {
	player, _ := s.service.Register("Alice", "")

	result, err := s.service.Purchase(player.ID, model.ItemFlashbang)
	s.Require().NoError(err)
	s.Equal(350, result.Player.Credits)
	s.Equal(1, result.Player.InventoryCount(model.ItemFlashbang))
	s.Equal(1, result.ItemCount)
}

func (s *ServiceSuite) TestPurchaseFlashShieldSetsFlag() {
	player, _ := s.service.Register("Alice", "")

	result, err := s.service.Purchase(player.ID, model.ItemFlashShield)
	s.Require().NoError(err)
	s.True(result.Player.FlashShieldActive)
	s.Zero(result.Player.InventoryCount(model.ItemFlashShield))
}

func (s *ServiceSuite) TestPurchaseSaveFromResetStacks() {
	player, _ := s.service.Register("Alice", "")

	_, _ = s.service.Purchase(player.ID, model.ItemSaveFromReset)
	result, err := s.service.Purchase(player.ID, model.ItemSaveFromReset)
	s.Require().NoError(err)
	s.Equal(2, result.Player.SaveFromReset)
}

func (s *ServiceSuite) TestPurchaseFeedsPrizePool() {
	player, _ := s.service.Register("Alice", "")
	s.Equal(1000, s.service.PrizePool())

	result, _ := s.service.Purchase(player.ID, model.ItemFlashShield) // 300 / 4 = 75
	s.Equal(1075, result.PrizePool)
	s.Equal(1075, s.service.PrizePool())
}

func (s *ServiceSuite) TestPurchaseFailsWithoutCredits() {
	player, _ := s.service.Register("Alice", "")

	// 500 credits buys one 400 reset, not two
	_, err := s.service.Purchase(player.ID, model.ItemResetLeaderboard)
	s.Require().NoError(err)
	_, err = s.service.Purchase(player.ID, model.ItemResetLeaderboard)
	s.ErrorIs(err, model.ErrInsufficientCredits)
}

func (s *ServiceSuite) TestPurchaseUnknownItem() {
	player, _ := s.service.Register("Alice", "")

	_, err := s.service.Purchase(player.ID, "GOLDEN_GOOSE")
	s.ErrorIs(err, model.ErrUnknownItem)
}

func (s *ServiceSuite) TestPurchaseUnknownPlayer() {
	_, err := s.service.Purchase("nobody", model.ItemFlashbang)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// UseItem tests

func (s *ServiceSuite) TestUseItemConsumesOne() {
	player, _ := s.service.Register("Alice", "")
	_, _ = s.service.Purchase(player.ID, model.ItemFlashbang)

	s.Require().NoError(s.service.UseItem(player.ID, model.ItemFlashbang))

	got, _ := s.service.Get(player.ID)
	s.Zero(got.InventoryCount(model.ItemFlashbang))
}

func (s *ServiceSuite) TestUseItemFailsWhenNotHeld() {
	player, _ := s.service.Register("Alice", "")

	err := s.service.UseItem(player.ID, model.ItemFlashbang)
	s.ErrorIs(err, model.ErrItemNotHeld)
}

func (s *ServiceSuite) TestUseItemRejectsPassiveItems() {
	player, _ := s.service.Register("Alice", "")
	_, _ = s.service.Purchase(player.ID, model.ItemFlashShield)

	err := s.service.UseItem(player.ID, model.ItemFlashShield)
	s.ErrorIs(err, model.ErrItemNotHeld)
}

// Grants tests

func (s *ServiceSuite) TestDrainGrantsIsAtomic() {
	player, _ := s.service.Register("Alice", "")
	_, _ = s.service.Purchase(player.ID, model.ItemFlashbang)
	_, _ = s.service.Purchase(player.ID, model.ItemFlashbang)

	grants := s.service.DrainGrants(player.ID)
	s.Equal(2, grants[model.ItemFlashbang])

	s.Empty(s.service.DrainGrants(player.ID))
}

func (s *ServiceSuite) TestDrainGrantsEmptyForUnknownPlayer() {
	s.Empty(s.service.DrainGrants("nobody"))
}

// ConsumeSave tests

func (s *ServiceSuite) TestConsumeSaveBurnsOnePerCall() {
	player, _ := s.service.Register("Alice", "")
	_, _ = s.service.Purchase(player.ID, model.ItemSaveFromReset)
	_, _ = s.service.Purchase(player.ID, model.ItemSaveFromReset)

	s.True(s.service.ConsumeSave(player.ID))
	s.True(s.service.ConsumeSave(player.ID))
	s.False(s.service.ConsumeSave(player.ID))
}

func (s *ServiceSuite) TestConsumeSaveUnknownPlayer() {
	s.False(s.service.ConsumeSave("nobody"))
}

// Prize pool tests

func (s *ServiceSuite) TestTakePrizePoolResetsToBase() {
	player, _ := s.service.Register("Alice", "")
	_, _ = s.service.Purchase(player.ID, model.ItemFlashShield)

	pool := s.service.TakePrizePool()
	s.Equal(1075, pool)
	s.Equal(1000, s.service.PrizePool())
}

// Persistence tests

func (s *ServiceSuite) TestFlushAndLoadRoundTrip() {
	player, _ := s.service.Register("Alice", "")
	_, _ = s.service.Purchase(player.ID, model.ItemFlashbang)

	s.Require().NoError(s.service.Flush(s.ctx))

	fresh := New(s.storage, s.clock, s.random, DefaultConfig(), testutil.NopLogger())
	s.Require().NoError(fresh.Load(s.ctx))

	got, err := fresh.Get(player.ID)
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)
	s.Equal(350, got.Credits)
	s.Equal(1, got.InventoryCount(model.ItemFlashbang))
}
