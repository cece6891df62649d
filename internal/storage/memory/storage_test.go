package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sasakorman/taxrunner/internal/model"
)

func TestLoadFromEmptyStore(t *testing.T) {
	s := New()
	players, err := s.LoadPlayers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := []*model.Player{
		{ID: "p1", DisplayName: "Alice", Credits: 100, SaveFromReset: 1},
		{ID: "p2", DisplayName: "Bob", Credits: 500},
	}
	require.NoError(t, s.SavePlayers(ctx, in))

	out, err := s.LoadPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestSnapshotIsCopied(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &model.Player{ID: "p1", DisplayName: "Alice", Credits: 100}
	require.NoError(t, s.SavePlayers(ctx, []*model.Player{p}))

	// Mutating the original after the save must not leak into the store
	p.Credits = 0

	out, err := s.LoadPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 100, out[0].Credits)
}
