package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

const progressCacheTTL = 30 * time.Second

// Goals sets room goals and derives progress for the current window from
// each member's session history. Nothing here is stored; progress is
// recomputed on every read (optionally memoized in a short-lived cache).
type Goals struct {
	store  core.RoomStore
	ledger core.SessionLedger
	cache  core.ProgressCache // nil disables memoization

	now func() time.Time
}

func NewGoals(store core.RoomStore, ledger core.SessionLedger, cache core.ProgressCache) *Goals {
	return &Goals{store: store, ledger: ledger, cache: cache, now: time.Now}
}

func (g *Goals) SetGoal(ctx context.Context, id domain.RoomID, actor domain.UserID, amount int, period string) (*domain.Goal, error) {
	room, err := g.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.IsCreator(actor) {
		return nil, fmt.Errorf("%w: only the room creator can set the goal", domain.ErrForbidden)
	}
	p, err := domain.ParseGoalPeriod(period)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: goal amount must be positive", domain.ErrInvalidArgument)
	}
	goal := domain.Goal{Amount: amount, Period: p, SetBy: actor, SetAt: g.now().UTC()}
	if err := g.store.SetGoal(ctx, id, goal); err != nil {
		return nil, err
	}
	log.Info().Str("module", "app.goals").Str("room", string(id)).
		Int("amount", amount).Str("period", string(p)).Msg("goal set")
	return &goal, nil
}

// Progress sums every current member's contribution within
// [windowStart, now). The window is anchored to wall-clock "now" at query
// time; a query straddling a rollover is a benign race.
func (g *Goals) Progress(ctx context.Context, id domain.RoomID) (*core.GoalProgress, error) {
	room, err := g.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.Goal == nil {
		return &core.GoalProgress{Progress: 0, TopContributors: []core.Contribution{}}, nil
	}

	now := g.now()
	start := windowStart(room.Goal.Period, now)

	key := fmt.Sprintf("progress:%s:%d:%d", id, room.Goal.SetAt.Unix(), start.Unix())
	if g.cache != nil {
		if p, ok := g.cache.Get(ctx, key); ok {
			return p, nil
		}
	}

	contributors := make([]core.Contribution, 0, len(room.Members))
	total := 0
	for _, uid := range room.Members {
		sessions, err := g.ledger.SessionsSince(ctx, uid, start)
		if err != nil {
			return nil, err
		}
		sum := 0
		for _, s := range sessions {
			// "now" is the upper bound, so future-dated sessions
			// are excluded.
			if s.Timestamp.Before(now) {
				sum += s.Duration
			}
		}
		profile, err := g.ledger.Profile(ctx, uid)
		if err != nil {
			return nil, err
		}
		contributors = append(contributors, core.Contribution{ID: uid, Username: profile.Username, Total: sum})
		total += sum
	}

	// Descending by contribution; ties keep membership order.
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].Total > contributors[j].Total
	})

	p := &core.GoalProgress{Goal: room.Goal, Progress: total, TopContributors: contributors}
	if g.cache != nil {
		g.cache.Set(ctx, key, p, progressCacheTTL)
	}
	return p, nil
}

// windowStart anchors the goal window in local wall-clock time:
// daily is midnight today, weekly is the most recent Monday 00:00,
// monthly is the first of the current month 00:00.
func windowStart(p domain.GoalPeriod, now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch p {
	case domain.GoalWeekly:
		// Monday-based week; Sunday is 6 days past Monday.
		offset := (int(now.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.GoalMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return day
	}
}
