package app

import (
	"context"
	"sort"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

// Leaderboard ranks the current members of a room by lifetime focus
// minutes. Unlike goal progress it is not window-scoped. Pure derived view,
// recomputed on every call.
type Leaderboard struct {
	store  core.RoomStore
	ledger core.SessionLedger
}

func NewLeaderboard(store core.RoomStore, ledger core.SessionLedger) *Leaderboard {
	return &Leaderboard{store: store, ledger: ledger}
}

func (l *Leaderboard) Build(ctx context.Context, id domain.RoomID) ([]domain.MemberProfile, error) {
	room, err := l.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MemberProfile, 0, len(room.Members))
	for _, uid := range room.Members {
		profile, err := l.ledger.Profile(ctx, uid)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalMinutes > out[j].TotalMinutes
	})
	return out, nil
}
