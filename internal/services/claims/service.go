package claims

import (
	"encoding/base64"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/sasakorman/taxrunner/internal/dependencies/clock"
	"github.com/sasakorman/taxrunner/internal/dependencies/random"
	"github.com/sasakorman/taxrunner/internal/model"
)

// secretBytes is the entropy of a claim secret before encoding
const secretBytes = 32

// Service implements the winner/claim protocol. It mints one record per
// closed epoch, stores only the bcrypt hash of the claim secret, and
// verifies later claims against it. Records are in-memory only; the
// retained winners list is the system's whole leaderboard history.
type Service struct {
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu      sync.RWMutex
	records map[model.EpochKey]*model.WinnerRecord
}

// New creates a new claims service
func New(clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "claims")),
		records: make(map[model.EpochKey]*model.WinnerRecord),
	}
}

// Create mints the winner record for a closed epoch and returns it along
// with the claim secret. The secret exists only in the return value;
// deliver it to the winner immediately or it is gone for good.
func (s *Service) Create(day model.EpochKey, winner model.LeaderboardEntry, prize int, claimCode string) (*model.WinnerRecord, string, error) {
	secret := base64.RawURLEncoding.EncodeToString(s.random.Bytes(secretBytes))

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[day]; ok {
		return nil, "", model.ErrWinnerExists
	}

	rec := &model.WinnerRecord{
		Day:       day,
		PlayerID:  winner.PlayerID,
		Name:      winner.DisplayName,
		Score:     winner.Score,
		Prize:     prize,
		ClaimCode: claimCode,
		ClaimHash: string(hash),
		CreatedAt: s.clock.Now(),
	}
	s.records[day] = rec

	s.logger.Info("winner record created",
		slog.String("day", string(day)),
		slog.String("player_id", string(winner.PlayerID)),
		slog.Int("score", winner.Score),
		slog.Int("prize", prize),
	)

	cp := *rec
	return &cp, secret, nil
}

// Verify checks a claim secret against the stored hash and marks the
// record verified. The record is located either by explicit day key (the
// admin path) or, when day is empty, by scanning newest-first for a
// matching player and claim code (the self-service path). Verification
// is idempotent and never touches the paid flag.
func (s *Service) Verify(day model.EpochKey, playerID model.PlayerID, claimCode, secret string) (*model.WinnerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec *model.WinnerRecord
	if day != "" {
		r, ok := s.records[day]
		if !ok || r.PlayerID != playerID {
			return nil, model.ErrWinnerNotFound
		}
		rec = r
	} else {
		for _, key := range s.keysDescLocked() {
			r := s.records[key]
			if r.PlayerID == playerID && r.ClaimCode == claimCode {
				rec = r
				break
			}
		}
		if rec == nil {
			return nil, model.ErrWinnerNotFound
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.ClaimHash), []byte(secret)) != nil {
		return nil, model.ErrInvalidClaim
	}

	if !rec.Verified {
		rec.Verified = true
		rec.VerifiedAt = s.clock.Now()
		s.logger.Info("winner claim verified",
			slog.String("day", string(rec.Day)),
			slog.String("player_id", string(rec.PlayerID)),
		)
	}

	cp := *rec
	return &cp, nil
}

// Latest returns the newest winner record, by epoch key.
// Because empty epochs create no record, "yesterday" can reach further
// back than the calendar; callers get the latest available winner.
func (s *Service) Latest() (*model.WinnerRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.keysDescLocked()
	if len(keys) == 0 {
		return nil, false
	}
	cp := *s.records[keys[0]]
	return &cp, true
}

// LatestFor returns the newest record if that record belongs to the
// player, else nothing
func (s *Service) LatestFor(playerID model.PlayerID) (*model.WinnerRecord, bool) {
	rec, ok := s.Latest()
	if !ok || rec.PlayerID != playerID {
		return nil, false
	}
	return rec, true
}

// Winners returns up to limit records, newest epoch first
func (s *Service) Winners(limit int) []model.WinnerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.keysDescLocked()
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	winners := make([]model.WinnerRecord, 0, len(keys))
	for _, key := range keys {
		winners = append(winners, *s.records[key])
	}
	return winners
}

// keysDescLocked returns record keys sorted newest-first. Day keys are
// YYYY-MM-DD so lexicographic order is chronological.
func (s *Service) keysDescLocked() []model.EpochKey {
	keys := make([]model.EpochKey, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	return keys
}
