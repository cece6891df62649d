package registry

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sasakorman/taxrunner/internal/dependencies/clock"
	"github.com/sasakorman/taxrunner/internal/dependencies/random"
	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/storage"
)

const claimCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Config holds registry tuning
type Config struct {
	// AdminKey is the shared credential that grants admin at registration.
	// Empty disables the admin path entirely.
	AdminKey string

	// StartingCredits is granted to every new player
	StartingCredits int

	// BasePrize is the prize pool floor each epoch starts from
	BasePrize int

	// PrizeCutDivisor: 1/N of every purchase price feeds the prize pool
	PrizeCutDivisor int
}

// DefaultConfig returns default registry configuration
func DefaultConfig() Config {
	return Config{
		StartingCredits: 500,
		BasePrize:       1000,
		PrizeCutDivisor: 4,
	}
}

// Service owns player identity, currency, entitlements, pending grants
// and the prize pool. It is the only writer of player records; the
// snapshot store is a periodic flush target, never a second owner.
type Service struct {
	store  storage.PlayerSnapshotStore
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
	cfg    Config

	mu        sync.RWMutex
	players   map[model.PlayerID]*model.Player
	grants    map[model.PlayerID]map[model.Item]int
	prizePool int
}

// New creates a new player registry
func New(store storage.PlayerSnapshotStore, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.StartingCredits == 0 && cfg.BasePrize == 0 && cfg.PrizeCutDivisor == 0 {
		defaults := DefaultConfig()
		defaults.AdminKey = cfg.AdminKey
		cfg = defaults
	}
	return &Service{
		store:     store,
		clock:     clk,
		random:    rnd,
		logger:    logger.With(slog.String("component", "registry")),
		cfg:       cfg,
		players:   make(map[model.PlayerID]*model.Player),
		grants:    make(map[model.PlayerID]map[model.Item]int),
		prizePool: cfg.BasePrize,
	}
}

// Load replaces the in-memory registry with the persisted snapshot
func (s *Service) Load(ctx context.Context) error {
	players, err := s.store.LoadPlayers(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[model.PlayerID]*model.Player, len(players))
	for _, p := range players {
		s.players[p.ID] = p
	}
	s.logger.Info("registry snapshot loaded", slog.Int("players", len(players)))
	return nil
}

// Flush writes the current registry to the snapshot store
func (s *Service) Flush(ctx context.Context) error {
	snapshot := s.Snapshot()
	if err := s.store.SavePlayers(ctx, snapshot); err != nil {
		s.logger.Error("registry flush failed", slog.String("error", err.Error()))
		return err
	}
	s.logger.Debug("registry snapshot flushed", slog.Int("players", len(snapshot)))
	return nil
}

// Snapshot returns a copy of every player record
func (s *Service) Snapshot() []*model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, copyPlayer(p))
	}
	return players
}

// Register creates a new player. The admin flag is granted only when the
// supplied credential matches the configured shared key; display names
// never carry authority.
func (s *Service) Register(name, adminKey string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return nil, model.ErrInvalidName
	}

	player := &model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: name,
		Credits:     s.cfg.StartingCredits,
		IsAdmin:     s.cfg.AdminKey != "" && adminKey == s.cfg.AdminKey,
		ClaimCode:   s.random.String(8, claimCodeAlphabet),
		CreatedAt:   s.clock.Now(),
	}

	s.mu.Lock()
	s.players[player.ID] = player
	s.mu.Unlock()

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.DisplayName),
		slog.Bool("admin", player.IsAdmin),
	)
	return copyPlayer(player), nil
}

// Get returns a copy of the player record
func (s *Service) Get(id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return copyPlayer(p), nil
}

// UpdateName refreshes a player's display name. Invalid names are
// ignored rather than rejected; the stored name simply stays.
func (s *Service) UpdateName(id model.PlayerID, name string) {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		p.DisplayName = name
	}
}

// PurchaseResult reports the player's state after a purchase plus the
// prize pool it fed
type PurchaseResult struct {
	Player    *model.Player
	ItemCount int
	PrizePool int
}

// Purchase deducts the item price, applies its effect (or adds it to
// inventory for consumables), queues a pending grant for the client to
// poll, and feeds a cut of the price into the prize pool.
func (s *Service) Purchase(id model.PlayerID, item model.Item) (*PurchaseResult, error) {
	if !item.Valid() {
		return nil, model.ErrUnknownItem
	}
	price := model.ItemPrices[item]

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	if p.Credits < price {
		return nil, model.ErrInsufficientCredits
	}

	p.Credits -= price

	switch item {
	case model.ItemFlashShield:
		p.FlashShieldActive = true // one-way
	case model.ItemSaveFromReset:
		p.SaveFromReset++
	default:
		if p.Inventory == nil {
			p.Inventory = make(map[model.Item]int)
		}
		p.Inventory[item]++
	}

	if s.grants[id] == nil {
		s.grants[id] = make(map[model.Item]int)
	}
	s.grants[id][item]++

	if s.cfg.PrizeCutDivisor > 0 {
		s.prizePool += price / s.cfg.PrizeCutDivisor
	}

	s.logger.Info("purchase completed",
		slog.String("player_id", string(id)),
		slog.String("item", string(item)),
		slog.Int("credits_left", p.Credits),
	)

	return &PurchaseResult{
		Player:    copyPlayer(p),
		ItemCount: s.grants[id][item],
		PrizePool: s.prizePool,
	}, nil
}

// UseItem spends one held consumable. Items whose effect applies at
// purchase time cannot be "used".
func (s *Service) UseItem(id model.PlayerID, item model.Item) error {
	if !item.Valid() {
		return model.ErrUnknownItem
	}
	if !item.Consumable() {
		return model.ErrItemNotHeld
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if p.InventoryCount(item) <= 0 {
		return model.ErrItemNotHeld
	}
	p.Inventory[item]--
	return nil
}

// DrainGrants atomically reads and clears the player's pending grants
func (s *Service) DrainGrants(id model.PlayerID) map[model.Item]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	grants := s.grants[id]
	if len(grants) == 0 {
		return map[model.Item]int{}
	}
	delete(s.grants, id)
	return grants
}

// ConsumeSave decrements a positive save-from-reset counter and reports
// whether a save was consumed. Exactly one save burns per rollover.
func (s *Service) ConsumeSave(id model.PlayerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok || p.SaveFromReset <= 0 {
		return false
	}
	p.SaveFromReset--
	return true
}

// PrizePool returns the current prize pool
func (s *Service) PrizePool() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prizePool
}

// TakePrizePool returns the pool for the closing epoch and restarts the
// next epoch's pool at the base prize
func (s *Service) TakePrizePool() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool := s.prizePool
	s.prizePool = s.cfg.BasePrize
	return pool
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= model.MinNameLength && n <= model.MaxNameLength
}

func copyPlayer(p *model.Player) *model.Player {
	cp := *p
	if p.Inventory != nil {
		cp.Inventory = make(map[model.Item]int, len(p.Inventory))
		for k, v := range p.Inventory {
			cp.Inventory[k] = v
		}
	}
	return &cp
}
