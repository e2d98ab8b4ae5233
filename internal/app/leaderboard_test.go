package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/focusopolis/internal/adapters/store"
	"github.com/dkeye/focusopolis/internal/domain"
)

func TestLeaderboardRanksByLifetimeMinutes(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	ledger := newFakeLedger()
	board := NewLeaderboard(st, ledger)

	room, err := st.Create(ctx, "focus", alice)
	require.NoError(t, err)
	require.NoError(t, st.AddMember(ctx, room.ID, bob))
	require.NoError(t, st.AddMember(ctx, room.ID, carol))

	ledger.profiles[alice] = domain.MemberProfile{ID: alice, Username: "alice", TotalMinutes: 40, Buildings: 2}
	ledger.profiles[bob] = domain.MemberProfile{ID: bob, Username: "bob", TotalMinutes: 90, Buildings: 5}
	ledger.profiles[carol] = domain.MemberProfile{ID: carol, Username: "carol", TotalMinutes: 40, Buildings: 1}

	out, err := board.Build(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, bob, out[0].ID)
	// Ties keep membership order: alice joined before carol.
	assert.Equal(t, alice, out[1].ID)
	assert.Equal(t, carol, out[2].ID)
	assert.Equal(t, 5, out[0].Buildings)
}

func TestLeaderboardMissingRoom(t *testing.T) {
	board := NewLeaderboard(store.NewMemoryStore(), newFakeLedger())
	_, err := board.Build(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
