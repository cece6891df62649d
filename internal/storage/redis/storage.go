package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/storage"
)

// Storage is a Redis-backed implementation of the snapshot store.
// Each player is one JSON value; a set of ids indexes the snapshot so a
// load doesn't need SCAN.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis snapshot store
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis snapshot store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.PlayerSnapshotStore = (*Storage)(nil)

// SavePlayers writes every player record and the id index in one pipeline
func (s *Storage) SavePlayers(ctx context.Context, players []*model.Player) error {
	pipe := s.client.Pipeline()
	ids := make([]interface{}, 0, len(players))
	for _, p := range players {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		pipe.Set(ctx, playerKey(p.ID), data, 0)
		ids = append(ids, string(p.ID))
	}
	if len(ids) > 0 {
		pipe.SAdd(ctx, playerIndexKey(), ids...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// LoadPlayers reads the full snapshot via the id index
func (s *Storage) LoadPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playerIndexKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*model.Player{}, nil
		}
		return nil, err
	}

	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, playerKey(model.PlayerID(id))).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Index entry without a record; skip rather than fail the load
				continue
			}
			return nil, err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	return players, nil
}
