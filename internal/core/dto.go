package core

import (
	"context"
	"time"

	"github.com/dkeye/focusopolis/internal/domain"
)

// RoomInfo is a read-only listing view (no members, no messages).
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	MemberCount int           `json:"memberCount"`
}

// Contribution is one member's focus minutes inside the current goal window.
type Contribution struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
	Total    int           `json:"total"`
}

// GoalProgress is derived on demand and never stored. With no goal
// configured it is the sentinel "no goal" value, not an error.
type GoalProgress struct {
	Goal            *domain.Goal   `json:"goal"`
	Progress        int            `json:"progress"`
	TopContributors []Contribution `json:"topContributors"`
}

// ProgressCache memoizes computed goal progress. Best effort: a miss or a
// failed write only costs a recomputation.
type ProgressCache interface {
	Get(ctx context.Context, key string) (*GoalProgress, bool)
	Set(ctx context.Context, key string, p *GoalProgress, ttl time.Duration)
}
